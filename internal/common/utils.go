package common

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
