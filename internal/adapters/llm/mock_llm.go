package llm

import (
	"context"
	"strings"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// MockLLM is a canned provider for local dev and tests. It answers the
// recommendation shape with a parseable bullet list and everything else with
// a short templated reply.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string, opts domain.GenerateOptions) (string, error) {
	if strings.Contains(userPrompt, "recommend 3-5 books") {
		return "Here you go! 😊\n\n" +
			"• **The Name of the Wind** by Patrick Rothfuss\n" +
			"  📖 Genre: Fantasy\n\n" +
			"• **Project Hail Mary** by Andy Weir\n" +
			"  📖 Genre: Science Fiction\n\n" +
			"• **Circe** by Madeline Miller\n" +
			"  📖 Genre: Mythological Fiction\n\n" +
			"Would you like to learn more about any of these? 🤔", nil
	}
	return "Great question! 📚 I'd say give it a try and see if the first chapter hooks you. 😊", nil
}
