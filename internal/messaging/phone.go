// Package messaging sends SMS alerts through Twilio or Telnyx.
package messaging

import (
	"context"
	"strings"
)

// Sender delivers a single SMS. from is the provider default.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// NormalizeE164 ensures the value begins with + and only contains digits afterward.
func NormalizeE164(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	digits := sanitizePhone(value)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
