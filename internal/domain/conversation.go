package domain

// Message is one entry in a session timeline (user or bot).
// The timeline is append-only; messages are never mutated after append.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Sender    Role
	Text      string
	Kind      MessageKind
	CreatedAt Timestamp
}

// Session is one conversation between a reader and the bot, from the first
// interview question until the reader walks away.
type Session struct {
	ID        SessionID
	UserID    UserID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	Profile UserProfile

	// Interview state. StepCursor is monotonic non-decreasing and bounded by
	// the question count; SetupComplete flips to true exactly once, after the
	// last question, and is never reset.
	StepCursor    int
	SetupComplete bool

	// PendingGenres holds the multi-select genre toggles before the reader
	// confirms the selection.
	PendingGenres []string

	// KnownTitles is the most recent batch of recommended titles. It is
	// replaced wholesale on every new recommendation fetch, never merged.
	KnownTitles []string
}
