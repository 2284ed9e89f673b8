package common

import (
	"unicode"
	"unicode/utf8"
)

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// UpperFirst returns s with its first rune upper-cased.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst returns s with its first rune lower-cased.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
