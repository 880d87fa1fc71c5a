// Package whatsapp builds wa.me deep links the visitor's browser opens to
// hand a pre-filled message to the business.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoNumber is returned when no destination number is configured.
var ErrNoNumber = errors.New("whatsapp: destination number required")

const baseURL = "https://wa.me/"

// Link returns https://wa.me/<number>?text=<message> with the message
// percent-encoded and spaces written as %20. Non-digits are stripped from
// the number.
func Link(number, message string) (string, error) {
	digits := digitsOnly(number)
	if digits == "" {
		return "", ErrNoNumber
	}
	return baseURL + digits + "?text=" + Encode(message), nil
}

// Encode percent-encodes s for the text parameter.
func Encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
