// Package interview drives the scripted onboarding: an ordered list of typed
// questions whose answers build up the user profile one field at a time.
package interview

import (
	"strings"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// Engine advances a session through the interview script.
type Engine struct {
	script []Question
}

func NewEngine() *Engine {
	return &Engine{script: script}
}

// Result is what one accepted answer produces: either the next rendered
// prompt, or the signal that the interview is over and recommendations
// should be fetched. Exactly one of the two is meaningful.
type Result struct {
	NextPrompt               string
	RecommendationsRequested bool
}

// FirstPrompt renders the opening question for a fresh session.
func (e *Engine) FirstPrompt(sess *domain.Session) string {
	return renderPrompt(e.script[0], sess.Profile)
}

// CurrentQuestion returns the question the session is waiting on, or false
// when the interview is already complete.
func (e *Engine) CurrentQuestion(sess *domain.Session) (Question, bool) {
	if sess.SetupComplete || sess.StepCursor >= len(e.script) {
		return Question{}, false
	}
	return e.script[sess.StepCursor], true
}

// SubmitAnswer merges one free-text answer into the profile and advances the
// cursor. Empty input after trimming is rejected with a validation error and
// the cursor does not move. The multi-select step is driven by ToggleGenre /
// ContinueGenres instead.
func (e *Engine) SubmitAnswer(sess *domain.Session, raw string) (Result, error) {
	q, ok := e.CurrentQuestion(sess)
	if !ok {
		return Result{}, domain.Validationf("the interview is already complete")
	}
	if q.Kind == KindMultiSelect {
		return Result{}, domain.Validationf("pick your genres with the toggles, then continue")
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{}, domain.Validationf("please type an answer first")
	}

	appliers[q.ID](&sess.Profile, trimmed)

	return e.advance(sess), nil
}

// ToggleGenre adds or removes one option from the pending genre selection.
// Only valid while the session is on the multi-select step.
func (e *Engine) ToggleGenre(sess *domain.Session, option string) error {
	q, ok := e.CurrentQuestion(sess)
	if !ok || q.Kind != KindMultiSelect {
		return domain.Validationf("not on the genre question right now")
	}

	canonical := ""
	for _, opt := range q.Options {
		if strings.EqualFold(opt, strings.TrimSpace(option)) {
			canonical = opt
			break
		}
	}
	if canonical == "" {
		return domain.Validationf("unknown genre %q", option)
	}

	for i, g := range sess.PendingGenres {
		if g == canonical {
			sess.PendingGenres = append(sess.PendingGenres[:i], sess.PendingGenres[i+1:]...)
			return nil
		}
	}
	sess.PendingGenres = append(sess.PendingGenres, canonical)
	return nil
}

// ContinueGenres commits the pending selection and advances. An empty
// selection is rejected; the continue action is unavailable until at least
// one genre is toggled on.
func (e *Engine) ContinueGenres(sess *domain.Session) (Result, error) {
	q, ok := e.CurrentQuestion(sess)
	if !ok || q.Kind != KindMultiSelect {
		return Result{}, domain.Validationf("not on the genre question right now")
	}
	if len(sess.PendingGenres) == 0 {
		return Result{}, domain.Validationf("pick at least one genre first")
	}

	sess.Profile.Genres = append([]string(nil), sess.PendingGenres...)
	sess.PendingGenres = nil

	return e.advance(sess), nil
}

// advance moves the cursor one step. Past the last question it flips
// SetupComplete — the single, one-way transition out of the interview.
func (e *Engine) advance(sess *domain.Session) Result {
	sess.StepCursor++
	if sess.StepCursor < len(e.script) {
		return Result{NextPrompt: renderPrompt(e.script[sess.StepCursor], sess.Profile)}
	}

	sess.SetupComplete = true
	return Result{RecommendationsRequested: true}
}
