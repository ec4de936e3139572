// Package recommend parses the semi-structured prose the LLM returns into
// typed data: the list of recommended book titles.
package recommend

import (
	"regexp"
	"strings"
)

// boldTitle matches **Title** emphasis pairs, the format the recommendation
// prompt asks for.
var boldTitle = regexp.MustCompile(`\*\*([^*]+)\*\*`)

const bookEmoji = "📖"

// ExtractTitles pulls book titles out of recommendation text.
//
// Primary signal: substrings wrapped in paired ** markers. Fallback for
// replies that ignore the format: bulleted lines ("•" or "-"), cut at the
// first " by " or book emoji. The result is deduplicated preserving
// first-seen order; an empty result means "no known titles", not an error.
func ExtractTitles(text string) []string {
	titles := collect(boldMatches(text))
	if len(titles) > 0 {
		return titles
	}
	return collect(bulletMatches(text))
}

func boldMatches(text string) []string {
	var out []string
	for _, m := range boldTitle.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func bulletMatches(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		var rest string
		switch {
		case strings.HasPrefix(line, "•"):
			rest = strings.TrimPrefix(line, "•")
		case strings.HasPrefix(line, "-"):
			rest = strings.TrimPrefix(line, "-")
		default:
			continue
		}

		// The title runs up to the author separator or the genre emoji.
		if i := indexAuthorSep(rest); i >= 0 {
			rest = rest[:i]
		}
		if i := strings.Index(rest, bookEmoji); i >= 0 {
			rest = rest[:i]
		}
		out = append(out, rest)
	}
	return out
}

// indexAuthorSep finds " by " case-insensitively. Offsets are computed on
// the original string: lowering the whole line first would shift byte
// offsets for runes whose lowercase form has a different length.
func indexAuthorSep(s string) int {
	const sep = " by "
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

// collect trims, drops empties, and deduplicates case-insensitively while
// preserving the first-seen spelling and order.
func collect(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, title)
	}
	return out
}
