package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchFirstCase capitalizes the first rune of replacement when the first
// rune of original is upper case. The rest of replacement is left as is.
func MatchFirstCase(original, replacement string) string {
	first, _ := utf8.DecodeRuneInString(original)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return replacement
	}
	r, size := utf8.DecodeRuneInString(replacement)
	if r == utf8.RuneError {
		return replacement
	}
	return string(unicode.ToUpper(r)) + replacement[size:]
}

// CapitalPositions records which rune positions of s are upper case.
func CapitalPositions(s string) []bool {
	positions := make([]bool, 0, len(s))
	for _, r := range s {
		positions = append(positions, unicode.IsUpper(r))
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of word at the positions
// marked in capitalPositions.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsRepetitive checks if a string is one character repeated 3+ times ("aaa", "zzzz")
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidInput reports whether a completion prefix is worth looking up.
// Numbers-only and repetitive strings are rejected.
func IsValidInput(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	return !IsRepetitive(s)
}
