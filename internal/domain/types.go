package domain

import "time"

type SessionID string
type UserID string
type MessageID string

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// MessageKind tells the rendering layer how to present a bot message.
type MessageKind string

const (
	KindPlain        MessageKind = "plain"
	KindQuickActions MessageKind = "quick_actions" // message offering follow-up actions
)

type Timestamp = time.Time
