package conversation

import (
	"fmt"
	"strings"

	"github.com/dmoretti/bookwise-agent/internal/app/router"
	"github.com/dmoretti/bookwise-agent/internal/domain"
)

// Static reply templates and provider fallbacks. Every LLM call site has a
// deterministic fallback here so the conversation never stalls.

const followUpPrompt = "Would you like a summary 📖, purchase links 🔗, or more recommendations ✨?"

const askForTitleReply = "Which book would you like links for? 🤔 Tell me the title, or ask for fresh recommendations! ✨"

const summaryFallback = "📚 This is a fantastic book that many readers love! I'd recommend checking it out on Goodreads or Amazon for detailed reviews and summaries. 😊"

func recommendationFallback(p domain.UserProfile) string {
	genre := "great books"
	if len(p.Genres) > 0 {
		genre = p.Genres[0]
	}

	return fmt.Sprintf(`Hi %s! 😊 I'm having trouble connecting right now, but based on your love for %s, here are some popular recommendations:

• **The Seven Husbands of Evelyn Hugo** by Taylor Jenkins Reid
  📖 Genre: Contemporary Fiction

• **Dune** by Frank Herbert
  📖 Genre: Science Fiction

• **The Thursday Murder Club** by Richard Osman
  📖 Genre: Mystery

Would you like to learn more about any of these books? 🤔`, p.Name, genre)
}

func generalFallback(name string) string {
	return fmt.Sprintf("Thanks for asking, %s! 😊 Is there anything specific about books or reading recommendations I can help you with? 📚", name)
}

func linksReply(title string, links []router.MarketLink) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's where you can find **%s**: 🛒\n\n", title)
	b.WriteString(linksBlock(links))
	b.WriteString("\n\nHappy reading! 📚")
	return b.String()
}

func interestReply(title string, links []router.MarketLink) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great choice! 🎉 **%s** is a wonderful pick. Here's where to grab a copy:\n\n", title)
	b.WriteString(linksBlock(links))
	return b.String()
}

func optionsReply(title string) string {
	return fmt.Sprintf("I'd love to help with **%s**! 🤗 %s", title, followUpPrompt)
}

func linkDigestReply(titles []string) string {
	var b strings.Builder
	b.WriteString("Here are links for the books I recommended: 🛒\n")
	for _, title := range titles {
		fmt.Fprintf(&b, "\n**%s**\n", title)
		b.WriteString(linksBlock(router.MarketplaceLinks(title)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func linksBlock(links []router.MarketLink) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("🔗 %s: %s", l.Store, l.URL))
	}
	return strings.Join(lines, "\n")
}
