package utils

import "unicode"

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
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

// ContainsSpecialChars checks if a string contains special characters
// (non-alphanumeric characters excluding common separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput reports whether typed input is worth a suggestion search.
// Digit-only strings, strings with special characters and single-key
// mashes like "dddd" never match anything in the dictionary, so they
// are rejected before any trie work happens.
func IsValidInput(s string) bool {
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}

// IsRepetitive checks if a string is one character repeated 3+ times
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
