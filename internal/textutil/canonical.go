package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CanonicalName returns the identity form of an ingredient name: NFC
// normalized, trimmed, and lowercased.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// TitleCase upper-cases the first letter of each word, e.g. for category
// directory names such as "hoofdgerechten" or "meal-prep".
func TitleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return cases.Title(language.Und).String(value)
}
