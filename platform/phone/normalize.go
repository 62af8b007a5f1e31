// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion = "MX"
	// defaultCountryCode is prepended to bare 10-digit local numbers.
	defaultCountryCode = "52"
	localNumberLength  = 10
)

// Normalize reduces a phone number to the wire format the messaging provider
// expects: digits only, country code included, no leading plus. Bare 10-digit
// local numbers get the default country code. Already-normalized input passes
// through unchanged, so Normalize(Normalize(p)) == Normalize(p).
func Normalize(input string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "whatsapp:"))
	if trimmed == "" {
		return ""
	}

	if parsed, err := phonenumbers.Parse(trimmed, defaultRegion); err == nil && phonenumbers.IsValidNumber(parsed) {
		return strings.TrimPrefix(phonenumbers.Format(parsed, phonenumbers.E164), "+")
	}

	digits := digitsOnly(trimmed)
	if len(digits) == localNumberLength {
		return defaultCountryCode + digits
	}
	return digits
}

// FormatE164 renders a normalized or raw number as +<digits> for display.
// If the number cannot be parsed it returns the digits with a plus prefix.
func FormatE164(input string) string {
	normalized := Normalize(input)
	if normalized == "" {
		return ""
	}
	return "+" + normalized
}

// LastDigits returns up to n trailing digits of the number, used for
// placeholder customer names.
func LastDigits(input string, n int) string {
	digits := digitsOnly(input)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
