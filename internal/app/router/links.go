package router

import (
	"net/url"
	"strings"
)

// MarketLink is one deterministic storefront search link for a title.
type MarketLink struct {
	Store string
	URL   string
}

// MarketplaceLinks builds the fixed Amazon and Goodreads search URLs for a
// title. No LLM call is involved; the encoding is plain percent-encoding of
// the title, spaces included.
func MarketplaceLinks(title string) []MarketLink {
	encoded := percentEncode(title)
	return []MarketLink{
		{Store: "Amazon", URL: "https://amazon.com/s?k=" + encoded},
		{Store: "Goodreads", URL: "https://goodreads.com/search?q=" + encoded},
	}
}

// percentEncode query-escapes the title but keeps spaces as %20 rather than
// the form-encoding plus sign.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
