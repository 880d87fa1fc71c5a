package messaging

import (
	"fmt"
	"strings"

	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

const (
	// SMSProviderAuto uses Twilio, falling back to Telnyx when both exist.
	SMSProviderAuto = "auto"
	// SMSProviderTelnyx forces the Telnyx sender when credentials exist.
	SMSProviderTelnyx = "telnyx"
	// SMSProviderTwilio forces the Twilio sender when credentials exist.
	SMSProviderTwilio = "twilio"
)

// ProviderSelectionConfig captures the credentials required to build senders.
type ProviderSelectionConfig struct {
	Preference       string
	TelnyxAPIKey     string
	TelnyxProfileID  string
	TelnyxFromNumber string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	// Attempts applies to both providers; zero keeps their default.
	Attempts int
	// SingleProvider skips the Twilio to Telnyx failover in auto mode so a
	// message is handed to exactly one provider.
	SingleProvider bool
}

// BuildSender instantiates a Sender based on the preferred provider.
// It returns the sender, the provider that was selected, and a reason when no provider could be initialized.
func BuildSender(cfg ProviderSelectionConfig, logger *logging.Logger) (Sender, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	preference := strings.ToLower(strings.TrimSpace(cfg.Preference))
	if preference == "" {
		preference = SMSProviderAuto
	}

	missing := map[string]string{}
	var telnyxSender Sender
	var twilioSender Sender

	if cfg.TelnyxAPIKey != "" && (cfg.TelnyxProfileID != "" || cfg.TelnyxFromNumber != "") {
		telnyxSender = NewTelnyxSender(TelnyxConfig{
			APIKey:             cfg.TelnyxAPIKey,
			MessagingProfileID: cfg.TelnyxProfileID,
			From:               cfg.TelnyxFromNumber,
			Attempts:           cfg.Attempts,
		}, logger)
	} else {
		var reasons []string
		if cfg.TelnyxAPIKey == "" {
			reasons = append(reasons, "TELNYX_API_KEY missing")
		}
		if cfg.TelnyxProfileID == "" && cfg.TelnyxFromNumber == "" {
			reasons = append(reasons, "TELNYX_MESSAGING_PROFILE_ID or TELNYX_FROM_NUMBER missing")
		}
		missing[SMSProviderTelnyx] = strings.Join(reasons, ", ")
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twilioSender = NewTwilioSender(TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromNumber,
			Attempts:   cfg.Attempts,
		}, logger)
	} else {
		var reasons []string
		if cfg.TwilioAccountSID == "" {
			reasons = append(reasons, "TWILIO_ACCOUNT_SID missing")
		}
		if cfg.TwilioAuthToken == "" {
			reasons = append(reasons, "TWILIO_AUTH_TOKEN missing")
		}
		missing[SMSProviderTwilio] = strings.Join(reasons, ", ")
	}

	if preference != SMSProviderAuto {
		if preference == SMSProviderTelnyx && telnyxSender != nil {
			return telnyxSender, SMSProviderTelnyx, ""
		}
		if preference == SMSProviderTwilio && twilioSender != nil {
			return twilioSender, SMSProviderTwilio, ""
		}
		reason := missing[preference]
		if reason == "" {
			reason = fmt.Sprintf("%s sender not configured", preference)
		}
		return nil, "", reason
	}

	if twilioSender != nil && telnyxSender != nil && !cfg.SingleProvider {
		return NewFailoverSender(twilioSender, SMSProviderTwilio, telnyxSender, SMSProviderTelnyx, logger), SMSProviderTwilio + "+" + SMSProviderTelnyx, ""
	}
	if twilioSender != nil {
		return twilioSender, SMSProviderTwilio, ""
	}
	if telnyxSender != nil {
		return telnyxSender, SMSProviderTelnyx, ""
	}

	var reasons []string
	for _, provider := range []string{SMSProviderTwilio, SMSProviderTelnyx} {
		if msg := missing[provider]; msg != "" {
			reasons = append(reasons, fmt.Sprintf("%s: %s", provider, msg))
		}
	}
	return nil, "", strings.Join(reasons, "; ")
}
