// Package answer renders facts and catalog data as English sentences.
package answer

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title capitalizes every word of s
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Conjugate returns the third person singular present form of a verb lemma
func Conjugate(lemma string) string {
	switch lemma {
	case "":
		return ""
	case "be":
		return "is"
	case "have":
		return "has"
	case "do":
		return "does"
	case "go":
		return "goes"
	}

	for _, suffix := range []string{"s", "x", "z", "ch", "sh", "o"} {
		if strings.HasSuffix(lemma, suffix) {
			return lemma + "es"
		}
	}

	if n := len(lemma); n > 1 && lemma[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(lemma[n-2])) {
		return lemma[:n-1] + "ies"
	}
	return lemma + "s"
}

// JoinList joins items as "a", "a and b" or "a, b and c"
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// Sentence upper-cases the first letter of s
func Sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Date formats t as an ISO calendar date in UTC
func Date(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Fact renders a stored relation: subject, conjugated verb, optional
// preposition and object
func Fact(subject, relation, extra, object string) string {
	parts := []string{subject, Conjugate(relation)}
	if extra != "" {
		parts = append(parts, extra)
	}
	parts = append(parts, object)
	return Sentence(strings.Join(parts, " "))
}
