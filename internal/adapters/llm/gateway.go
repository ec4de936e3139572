package llm

import (
	"context"
	"time"

	"github.com/dmoretti/bookwise-agent/internal/domain"
	"github.com/dmoretti/bookwise-agent/internal/observability"
)

// requestTimeout bounds every provider round trip so a hang becomes a
// ProviderError instead of stalling the session.
const requestTimeout = 15 * time.Second

// Gateway implements domain.Assistant over a raw LLMClient. Each method is
// one fixed call shape: prompt pair plus sampling parameters. Recommendations
// run hot for variety; summaries and Q&A run moderate.
type Gateway struct {
	client domain.LLMClient
}

func NewGateway(client domain.LLMClient) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) RecommendBooks(ctx context.Context, profile domain.UserProfile) (string, error) {
	return g.complete(ctx, "recommendations", recommendationSystemPrompt,
		buildRecommendationPrompt(profile),
		domain.GenerateOptions{MaxTokens: 800, Temperature: 0.9})
}

func (g *Gateway) SummarizeBook(ctx context.Context, title string, profile domain.UserProfile) (string, error) {
	return g.complete(ctx, "summary", summarySystemPrompt,
		buildSummaryPrompt(title),
		domain.GenerateOptions{MaxTokens: 200, Temperature: 0.6})
}

func (g *Gateway) AnswerQuestion(ctx context.Context, question string, profile domain.UserProfile) (string, error) {
	return g.complete(ctx, "question", generalSystemPrompt,
		buildGeneralPrompt(question, profile),
		domain.GenerateOptions{MaxTokens: 300, Temperature: 0.7})
}

func (g *Gateway) complete(ctx context.Context, op, system, user string, opts domain.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	log := observability.LoggerFromContext(ctx).With("op", op)

	start := time.Now()
	out, err := g.client.Complete(ctx, system, user, opts)
	if err != nil {
		log.Error("llm call failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", &domain.ProviderError{Op: op, Err: err}
	}

	log.Info("llm call completed", "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
