package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy is returned while an LLM round trip is still in flight
	// for the session. The input surface stays disabled until it settles.
	ErrSessionBusy = errors.New("a reply is still being generated for this session")
)

// ValidationError marks rejected user input at an interview step. It is
// handled locally (the caller re-prompts) and never crashes the session.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProviderError marks a failed LLM call (network, auth, rate limit, timeout).
// It never propagates past the gateway's caller: every call site substitutes
// a static fallback so the conversation can always produce a next message.
type ProviderError struct {
	Op  string // which call shape failed: "recommendations", "summary", "question"
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("llm provider %s: %v", e.Op, e.Err) }

func (e *ProviderError) Unwrap() error { return e.Err }

func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
