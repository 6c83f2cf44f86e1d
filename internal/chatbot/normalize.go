package chatbot

import "strings"

// Normalize lowercases text and trims surrounding whitespace. Punctuation
// and inner whitespace are left alone.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}
