package conversation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmoretti/bookwise-agent/internal/adapters/llm"
	"github.com/dmoretti/bookwise-agent/internal/adapters/storage/memory"
	"github.com/dmoretti/bookwise-agent/internal/app/conversation"
	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// scriptedLLM returns its replies in order (repeating the last one), or a
// fixed error, so tests can drive every provider outcome.
type scriptedLLM struct {
	replies []string
	err     error
	calls   int
}

func (f *scriptedLLM) Complete(ctx context.Context, systemPrompt, userPrompt string, opts domain.GenerateOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	i := f.calls
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	f.calls++
	return f.replies[i], nil
}

func newTestService(client domain.LLMClient) *conversation.Service {
	return conversation.NewService(
		llm.NewGateway(client),
		memory.NewSessionStore(),
		memory.NewMessageStore(),
	)
}

// completeInterview walks a session through the whole script.
func completeInterview(t *testing.T, svc *conversation.Service, sessionID domain.SessionID) *conversation.SendMessageOutput {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: sessionID, Text: "Ava"}); err != nil {
		t.Fatalf("name answer rejected: %v", err)
	}

	if _, err := svc.ToggleGenre(ctx, conversation.ToggleGenreInput{SessionID: sessionID, Genre: "Sci-Fi"}); err != nil {
		t.Fatalf("genre toggle failed: %v", err)
	}
	if _, err := svc.ContinueGenres(ctx, conversation.ContinueGenresInput{SessionID: sessionID}); err != nil {
		t.Fatalf("genre continue failed: %v", err)
	}

	var out *conversation.SendMessageOutput
	var err error
	for _, answer := range []string{"Dune", "Hyperion, Dune Messiah", "Frank Herbert", "Goodreads"} {
		out, err = svc.SendMessage(context.Background(), conversation.SendMessageInput{SessionID: sessionID, Text: answer})
		if err != nil {
			t.Fatalf("answer %q rejected: %v", answer, err)
		}
	}
	return out
}

func TestInterviewProducesRecommendations(t *testing.T) {
	svc := newTestService(llm.NewMockLLM())
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if start.Greeting == nil || start.Greeting.Sender != domain.RoleBot {
		t.Fatalf("expected a bot greeting, got %+v", start.Greeting)
	}

	out := completeInterview(t, svc, start.Session.ID)

	if len(out.BotMessages) != 2 {
		t.Fatalf("expected recommendation text + follow-up, got %d messages", len(out.BotMessages))
	}
	if out.BotMessages[1].Kind != domain.KindQuickActions {
		t.Fatalf("expected quick-actions follow-up, got kind %q", out.BotMessages[1].Kind)
	}

	session, msgs, awaiting, err := svc.GetSessionTimeline(ctx, start.Session.ID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	if !session.SetupComplete {
		t.Fatal("expected setup complete after the interview")
	}
	if awaiting {
		t.Fatal("expected no in-flight request after SendMessage returned")
	}
	if len(session.KnownTitles) == 0 {
		t.Fatalf("expected known titles extracted from the mock reply")
	}
	if len(msgs) == 0 {
		t.Fatal("expected a populated timeline")
	}

	p := session.Profile
	if p.Name != "Ava" || len(p.Genres) != 1 || len(p.RecentBooks) != 1 ||
		len(p.FavoriteBooks) != 2 || len(p.FavoriteAuthors) != 1 || p.TrackingApp != "Goodreads" {
		t.Fatalf("unexpected profile after interview: %+v", p)
	}
}

func TestUserMessageNeverPostdatesItsReply(t *testing.T) {
	svc := newTestService(llm.NewMockLLM())
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: start.Session.ID, Text: "Ava"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	// Sorting the timeline by created_at must keep the reply after the
	// user message that caused it.
	for _, bot := range out.BotMessages {
		if bot.CreatedAt.Before(out.UserMessage.CreatedAt) {
			t.Fatalf("bot reply stamped %v before the user message %v",
				bot.CreatedAt, out.UserMessage.CreatedAt)
		}
	}

	if _, err := svc.ToggleGenre(ctx, conversation.ToggleGenreInput{SessionID: start.Session.ID, Genre: "Sci-Fi"}); err != nil {
		t.Fatalf("genre toggle failed: %v", err)
	}
	if _, err := svc.ContinueGenres(ctx, conversation.ContinueGenresInput{SessionID: start.Session.ID}); err != nil {
		t.Fatalf("genre continue failed: %v", err)
	}

	var full *conversation.SendMessageOutput
	for _, answer := range []string{"Dune", "Hyperion", "Frank Herbert", "Goodreads"} {
		full, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: start.Session.ID, Text: answer})
		if err != nil {
			t.Fatalf("answer %q rejected: %v", answer, err)
		}
	}
	// The last exchange includes the LLM-backed recommendation fetch.
	for _, bot := range full.BotMessages {
		if bot.CreatedAt.Before(full.UserMessage.CreatedAt) {
			t.Fatalf("recommendation reply stamped %v before the user message %v",
				bot.CreatedAt, full.UserMessage.CreatedAt)
		}
	}
}

func TestEmptyAnswerIsRejectedWithoutSideEffects(t *testing.T) {
	svc := newTestService(llm.NewMockLLM())
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: start.Session.ID, Text: "   "})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	session, msgs, _, err := svc.GetSessionTimeline(ctx, start.Session.ID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	if session.StepCursor != 0 {
		t.Fatalf("cursor advanced on rejected input: %d", session.StepCursor)
	}
	if len(msgs) != 1 {
		t.Fatalf("rejected input should not be appended, timeline has %d messages", len(msgs))
	}
}

func TestProviderFailureFallsBackToStaticRecommendations(t *testing.T) {
	svc := newTestService(&scriptedLLM{err: errors.New("rate limited")})
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	out := completeInterview(t, svc, start.Session.ID)

	recText := out.BotMessages[0].Text
	if !strings.Contains(recText, "The Seven Husbands of Evelyn Hugo") {
		t.Fatalf("expected the static fallback recommendations, got %q", recText)
	}

	// The fallback text is parseable, so follow-ups still work offline.
	session, _, _, err := svc.GetSessionTimeline(ctx, start.Session.ID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline failed: %v", err)
	}
	if len(session.KnownTitles) != 3 {
		t.Fatalf("expected 3 fallback titles, got %v", session.KnownTitles)
	}

	linksOut, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: start.Session.ID,
		Text:      "where can i buy Dune",
	})
	if err != nil {
		t.Fatalf("link request failed: %v", err)
	}
	reply := linksOut.BotMessages[0].Text
	if !strings.Contains(reply, "https://amazon.com/s?k=Dune") ||
		!strings.Contains(reply, "https://goodreads.com/search?q=Dune") {
		t.Fatalf("expected deterministic marketplace links, got %q", reply)
	}
}

func TestSummaryFallbackIncludesLinks(t *testing.T) {
	// First call (recommendations) succeeds, later calls fail.
	client := &scriptedLLM{replies: []string{"• **Dune** by Frank Herbert"}}
	svc := newTestService(client)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	completeInterview(t, svc, start.Session.ID)

	client.err = errors.New("provider down")
	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: start.Session.ID,
		Text:      "tell me more about Dune",
	})
	if err != nil {
		t.Fatalf("summary request failed: %v", err)
	}

	reply := out.BotMessages[0].Text
	if !strings.Contains(reply, "https://amazon.com/s?k=Dune") {
		t.Fatalf("expected links in the summary fallback, got %q", reply)
	}
}

func TestNewBatchReplacesKnownTitles(t *testing.T) {
	client := &scriptedLLM{replies: []string{
		"• **Dune** by Frank Herbert\n  📖 Genre: Sci-Fi",
		"• **Circe** by Madeline Miller\n  📖 Genre: Mythological Fiction",
	}}
	svc := newTestService(client)
	ctx := context.Background()

	start, err := svc.StartSession(ctx, conversation.StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	completeInterview(t, svc, start.Session.ID)

	session, _, _, _ := svc.GetSessionTimeline(ctx, start.Session.ID, 0)
	if len(session.KnownTitles) != 1 || session.KnownTitles[0] != "Dune" {
		t.Fatalf("expected first batch [Dune], got %v", session.KnownTitles)
	}

	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: start.Session.ID,
		Text:      "give me different recommendations",
	}); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	session, _, _, _ = svc.GetSessionTimeline(ctx, start.Session.ID, 0)
	if len(session.KnownTitles) != 1 || session.KnownTitles[0] != "Circe" {
		t.Fatalf("expected the old batch to be fully replaced, got %v", session.KnownTitles)
	}
}
