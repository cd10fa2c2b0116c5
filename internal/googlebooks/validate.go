package googlebooks

import (
	"log/slog"
	"strings"
)

const (
	minQueryLength = 2
	maxQueryLength = 500
)

// forbiddenQueryChars are rejected to keep injection attempts out of
// upstream queries.
const forbiddenQueryChars = "<>{}\\`\n\r\t"

// ValidateQuery reports whether a search query is acceptable: trimmed
// length within [2,500] and free of forbidden characters.
func ValidateQuery(query string) bool {
	if len(strings.TrimSpace(query)) < minQueryLength {
		return false
	}
	if len(query) > maxQueryLength {
		slog.Warn("Search query too long", "length", len(query))
		return false
	}
	if strings.ContainsAny(query, forbiddenQueryChars) {
		slog.Warn("Invalid characters in search query", "query", query)
		return false
	}
	return true
}

// CleanISBN strips hyphens and spaces from an ISBN string.
func CleanISBN(isbn string) string {
	cleaned := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(cleaned, " ", "")
}

// ValidISBNLength reports whether a cleaned ISBN is ISBN-10 or ISBN-13.
func ValidISBNLength(isbn string) bool {
	return len(isbn) == 10 || len(isbn) == 13
}
