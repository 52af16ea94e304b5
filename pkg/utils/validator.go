package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// PhoneDigits is the length of a salesperson phone number
const PhoneDigits = 10

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	lowerSpanish = cases.Lower(language.Spanish)
)

// NormalizeDigits strips every character that is not an ASCII digit
func NormalizeDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName keeps letters and whitespace only.
// Input is composed to NFC first so accented letters typed as base+mark survive.
func NormalizeName(text string) string {
	text = norm.NFC.String(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TitleCase lower-cases the name and capitalizes the first letter of each space separated token.
// Spacing is preserved as typed.
func TitleCase(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Split(lowerSpanish.String(name), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// FormatPhoneDisplay groups digits as XXX-XXX-XXXX as they are typed.
// Non-digits are ignored and anything past ten digits is dropped.
func FormatPhoneDisplay(text string) string {
	digits := NormalizeDigits(text)
	if len(digits) > PhoneDigits {
		digits = digits[:PhoneDigits]
	}
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + "-" + digits[3:]
	default:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	}
}

// IsPhoneNumber returns true if the value is exactly ten digits
func IsPhoneNumber(value string) bool {
	return len(value) == PhoneDigits && NormalizeDigits(value) == value
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}
