package interview

import (
	"strings"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

type QuestionID string

const (
	QuestionName            QuestionID = "name"
	QuestionGenres          QuestionID = "genres"
	QuestionRecentBooks     QuestionID = "recentBooks"
	QuestionFavoriteBooks   QuestionID = "favoriteBooks"
	QuestionFavoriteAuthors QuestionID = "favoriteAuthors"
	QuestionTrackingApp     QuestionID = "trackingApp"
)

type QuestionKind string

const (
	KindFreeText    QuestionKind = "free_text"
	KindMultiSelect QuestionKind = "multi_select"
)

// Question is one step of the interview script. Prompt may contain a {name}
// placeholder that is resolved against the profile at render time.
type Question struct {
	ID      QuestionID
	Prompt  string
	Kind    QuestionKind
	Options []string // only for multi-select
}

// GenreOptions are the toggleable choices for the genres step.
var GenreOptions = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Sci-Fi",
	"Fantasy",
	"Romance",
	"Thriller",
	"Biography",
	"History",
	"Self-Help",
}

// script is the ordered interview. Index doubles as the step cursor value.
var script = []Question{
	{
		ID:     QuestionName,
		Prompt: "Hi there! 👋 I'm your book recommendation assistant. What's your name?",
		Kind:   KindFreeText,
	},
	{
		ID:      QuestionGenres,
		Prompt:  "Nice to meet you, {name}! 📚 Which genres do you love? Pick as many as you like, then hit continue.",
		Kind:    KindMultiSelect,
		Options: GenreOptions,
	},
	{
		ID:     QuestionRecentBooks,
		Prompt: "Great picks, {name}! What books have you read recently? (separate titles with commas)",
		Kind:   KindFreeText,
	},
	{
		ID:     QuestionFavoriteBooks,
		Prompt: "What are some of your all-time favorite books? (separate titles with commas)",
		Kind:   KindFreeText,
	},
	{
		ID:     QuestionFavoriteAuthors,
		Prompt: "Who are your favorite authors? (separate names with commas)",
		Kind:   KindFreeText,
	},
	{
		ID:     QuestionTrackingApp,
		Prompt: "Last one, {name}! 📱 Do you use an app to track your reading? (Goodreads, StoryGraph, a notebook...)",
		Kind:   KindFreeText,
	},
}

// applyAnswer mutates exactly one profile field for its question. Keeping one
// function per question id keeps the dispatch flat and exhaustive.
type applyAnswer func(p *domain.UserProfile, trimmed string)

var appliers = map[QuestionID]applyAnswer{
	QuestionName: func(p *domain.UserProfile, trimmed string) {
		p.Name = trimmed
	},
	QuestionRecentBooks: func(p *domain.UserProfile, trimmed string) {
		p.RecentBooks = splitList(trimmed)
	},
	QuestionFavoriteBooks: func(p *domain.UserProfile, trimmed string) {
		p.FavoriteBooks = splitList(trimmed)
	},
	QuestionFavoriteAuthors: func(p *domain.UserProfile, trimmed string) {
		p.FavoriteAuthors = splitList(trimmed)
	},
	QuestionTrackingApp: func(p *domain.UserProfile, trimmed string) {
		p.TrackingApp = trimmed
	},
}

// splitList turns "Dune, Hyperion, " into ["Dune", "Hyperion"], dropping
// empty segments.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// renderPrompt resolves the {name} placeholder against the profile.
func renderPrompt(q Question, p domain.UserProfile) string {
	return strings.ReplaceAll(q.Prompt, "{name}", p.Name)
}
