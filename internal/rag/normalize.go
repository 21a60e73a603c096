package rag

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Keeps technical tokens like slashes, dashes, underscores, colons.
	nonTokenRe = regexp.MustCompile(`[^a-z0-9\s.\-_:/]`)
)

// Normalize applies light text normalization: whitespace collapse,
// lowercasing, and removal of non-technical punctuation. It must be
// identical on the ingestion and query paths so that embeddings of
// chunks and questions live in the same token space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")))
	text = nonTokenRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
