package llm

import (
	"fmt"
	"strings"

	"github.com/dmoretti/bookwise-agent/internal/domain"
)

const recommendationSystemPrompt = `You are a friendly book recommendation assistant. Always:
- Use emojis in responses
- Format recommendations as bullet points
- Include book title, author, and genre
- Keep responses concise
- Address user by their name
- Be enthusiastic about books`

const summarySystemPrompt = "You are a helpful book assistant. Provide concise, engaging book summaries with emojis."

const generalSystemPrompt = "You are a friendly book recommendation assistant. Always use emojis and address users by name."

// buildRecommendationPrompt asks for 3-5 books in the bullet + bold-title
// format the extractor understands.
func buildRecommendationPrompt(p domain.UserProfile) string {
	app := p.TrackingApp
	if app == "" {
		app = "No specific app mentioned"
	}

	return fmt.Sprintf(`Please recommend 3-5 books for %s based on their preferences:

Favorite Genres: %s
Recent Books: %s
All-time Favorites: %s
Favorite Authors: %s
Uses: %s

Please format as:
• **Book Title** by Author Name
  📖 Genre: [Genre]

Keep it friendly, use emojis, and end by asking if they'd like to learn more about any book.`,
		p.Name,
		strings.Join(p.Genres, ", "),
		strings.Join(p.RecentBooks, ", "),
		strings.Join(p.FavoriteBooks, ", "),
		strings.Join(p.FavoriteAuthors, ", "),
		app,
	)
}

func buildSummaryPrompt(title string) string {
	return fmt.Sprintf("Please provide a brief, engaging summary of %q. Keep it to 2-3 sentences and include what makes it appealing to readers. Use emojis to make it friendly.", title)
}

func buildGeneralPrompt(question string, p domain.UserProfile) string {
	return fmt.Sprintf(`User %s asks: %q.

Context about user:
- Favorite genres: %s
- Recent books: %s
- Favorite books: %s
- Favorite authors: %s

Respond helpfully as a book recommendation assistant. Use emojis and keep it concise.`,
		p.Name,
		question,
		strings.Join(p.Genres, ", "),
		strings.Join(p.RecentBooks, ", "),
		strings.Join(p.FavoriteBooks, ", "),
		strings.Join(p.FavoriteAuthors, ", "),
	)
}
