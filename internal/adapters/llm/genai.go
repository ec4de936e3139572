package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// GenAIClient implements the completion boundary on Vertex AI (Gemini).
type GenAIClient struct {
	client    *genai.Client
	modelName string
}

// NewGenAIClient creates the Vertex-backed client.
func NewGenAIClient(ctx context.Context, projectID, location, modelName string) (*GenAIClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location are required for the genai client")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GenAIClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements domain.LLMClient.
func (c *GenAIClient) Complete(
	ctx context.Context,
	systemPrompt, userPrompt string,
	opts domain.GenerateOptions,
) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	temp := opts.Temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   opts.MaxTokens,
	}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned empty text")
	}

	return text, nil
}
