package domain

import "context"

// GenerateOptions parameterize one completion call.
type GenerateOptions struct {
	MaxTokens   int32
	Temperature float32
}

// LLMClient is the raw provider boundary: a single request/response
// completion operation that may fail.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}

// Assistant exposes the three fixed call shapes the conversation needs.
// Implementations wrap an LLMClient with the right prompts and sampling
// parameters; failures surface as *ProviderError.
type Assistant interface {
	RecommendBooks(ctx context.Context, profile UserProfile) (string, error)
	SummarizeBook(ctx context.Context, title string, profile UserProfile) (string, error)
	AnswerQuestion(ctx context.Context, question string, profile UserProfile) (string, error)
}

// SessionStore defines session persistence.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	ListSessionsByUser(userID UserID, limit int) ([]*Session, error)
}

// MessageStore defines message persistence.
type MessageStore interface {
	AppendMessage(msg *Message) error
	GetMessagesBySession(sessionID SessionID, limit int) ([]*Message, error)
}
