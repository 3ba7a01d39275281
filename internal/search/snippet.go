package search

import (
	"regexp"
	"unicode/utf8"
)

// Markers wrapped around the matched part of a snippet.
const (
	HitStart = ">>>"
	HitEnd   = "<<<"
)

// Snippet extracts a window of contextChars runes on each side of the first
// match of re in text, marking the match with HitStart/HitEnd.
func Snippet(text string, re *regexp.Regexp, contextChars int) string {
	loc := re.FindStringIndex(text)
	if loc == nil || loc[0] == loc[1] {
		// no match, return head
		runes := []rune(text)
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	runes := []rune(text)
	// find rune positions of the match
	runeStart := utf8.RuneCountInString(text[:loc[0]])
	runeEnd := runeStart + utf8.RuneCountInString(text[loc[0]:loc[1]])

	start := runeStart - contextChars
	if start < 0 {
		start = 0
	}
	end := runeEnd + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runeStart]) +
		HitStart + string(runes[runeStart:runeEnd]) + HitEnd +
		string(runes[runeEnd:end])
	return prefix + snippet + suffix
}
