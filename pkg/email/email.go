// Package email derives registration defaults from an address. The identity
// service uses it to fill in missing names so every account carries a
// displayable identity even when the sign-up form left the name fields blank.
package email

import (
	"strings"
	"unicode"
)

var separators = map[rune]bool{'.': true, '_': true, '-': true, '+': true}

// DeriveNameFromEmail splits the address's local part on common separators
// and returns (first, last) name guesses: the first segment and the final
// segment, each capitalized. Segments that cannot be derived fall back to
// "User", so "jane.doe@example.com" yields ("Jane", "Doe") and
// "jane@example.com" yields ("Jane", "User").
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return separators[r]
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
