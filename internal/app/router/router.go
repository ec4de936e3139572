// Package router classifies free-text input after the interview is done and
// turns it into a typed bot action. Classification is a prioritized rule
// list: rules are evaluated strictly in order and the first match wins, which
// keeps the tie-break behavior explicit and testable on its own.
package router

import "strings"

// BookIntent sub-classifies a message that mentions a known title.
type BookIntent string

const (
	IntentLinks    BookIntent = "links"    // wants to buy / find the book
	IntentSummary  BookIntent = "summary"  // wants to know what it is about
	IntentInterest BookIntent = "interest" // expressed liking, offer next steps
	IntentOptions  BookIntent = "options"  // unclear, offer the three sub-actions
)

// Action is the routing outcome. The conversation service switches on the
// concrete type to execute it.
type Action interface{ isAction() }

// AnswerAboutBook targets one known title with a sub-classified intent.
// Links are pre-built here because they are deterministic.
type AnswerAboutBook struct {
	Title  string
	Intent BookIntent
	Links  []MarketLink
}

// FetchMoreRecommendations re-runs the recommendation flow with the
// unchanged profile.
type FetchMoreRecommendations struct{}

// LinkDigest answers a bare purchase request with links for the first few
// known titles.
type LinkDigest struct {
	Titles []string
}

// AskForTitle is the reply when the user wants links but nothing is known yet.
type AskForTitle struct{}

// AnswerGeneral forwards an open-domain question to the LLM.
type AnswerGeneral struct {
	Question string
}

func (AnswerAboutBook) isAction()          {}
func (FetchMoreRecommendations) isAction() {}
func (LinkDigest) isAction()               {}
func (AskForTitle) isAction()              {}
func (AnswerGeneral) isAction()            {}

// Keyword tiers. Within a tier any match qualifies; across tiers the order
// below is binding: link intent outranks summary and interest when a title is
// present, because a user who already loves the book wants to act on it.
var (
	linkKeywords = []string{
		"link", "buy", "purchase", "amazon", "goodreads",
		"where to get", "find it", "get this book", "where can i",
	}
	summaryKeywords = []string{
		"tell me more", "learn more", "summary", "about this book",
		"what is it about", "more about", "tell me about",
	}
	interestKeywords = []string{
		"like", "love", "interested", "sounds good",
		"want to read", "sounds interesting",
	}
	moreKeywords = []string{
		"more recommendations", "different books",
		"other suggestions", "new recommendations",
	}
)

// maxDigestTitles caps how many known titles a bare link request enumerates.
const maxDigestTitles = 3

// query carries the lowered input and the known-title match through the rules.
type query struct {
	lower        string
	knownTitles  []string
	matchedTitle string
}

type rule func(q *query) (Action, bool)

// Router evaluates the fixed rule list.
type Router struct {
	rules []rule
}

func New() *Router {
	return &Router{
		rules: []rule{
			matchKnownTitle,
			matchMoreRecommendations,
			matchBareLinkRequest,
		},
	}
}

// Route classifies rawText against the latest batch of recommended titles.
// Matching is case-insensitive substring matching throughout.
func (r *Router) Route(rawText string, knownTitles []string) Action {
	q := &query{
		lower:       strings.ToLower(rawText),
		knownTitles: knownTitles,
	}
	for _, title := range knownTitles {
		if strings.Contains(q.lower, strings.ToLower(title)) {
			q.matchedTitle = title
			break
		}
	}

	for _, rl := range r.rules {
		if act, ok := rl(q); ok {
			return act
		}
	}
	return AnswerGeneral{Question: rawText}
}

func matchKnownTitle(q *query) (Action, bool) {
	if q.matchedTitle == "" {
		return nil, false
	}

	intent := IntentOptions
	switch {
	case containsAny(q.lower, linkKeywords):
		intent = IntentLinks
	case containsAny(q.lower, summaryKeywords):
		intent = IntentSummary
	case containsAny(q.lower, interestKeywords):
		intent = IntentInterest
	}

	return AnswerAboutBook{
		Title:  q.matchedTitle,
		Intent: intent,
		Links:  MarketplaceLinks(q.matchedTitle),
	}, true
}

func matchMoreRecommendations(q *query) (Action, bool) {
	if !containsAny(q.lower, moreKeywords) {
		return nil, false
	}
	return FetchMoreRecommendations{}, true
}

func matchBareLinkRequest(q *query) (Action, bool) {
	if !containsAny(q.lower, linkKeywords) {
		return nil, false
	}
	if len(q.knownTitles) == 0 {
		return AskForTitle{}, true
	}
	titles := q.knownTitles
	if len(titles) > maxDigestTitles {
		titles = titles[:maxDigestTitles]
	}
	return LinkDigest{Titles: titles}, true
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
