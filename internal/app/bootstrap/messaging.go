package bootstrap

import (
	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/messaging"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// BuildSMSSender selects the telephony provider from config. attempts of zero
// keeps each provider's retry default. A nil sender comes with the reason.
func BuildSMSSender(cfg *appconfig.Config, attempts int, logger *logging.Logger) (messaging.Sender, string, string) {
	return buildSMSSender(cfg, attempts, false, logger)
}

// BuildRelaySender hands each alert to exactly one provider with one
// attempt: no retry and no failover.
func BuildRelaySender(cfg *appconfig.Config, logger *logging.Logger) (messaging.Sender, string, string) {
	return buildSMSSender(cfg, 1, true, logger)
}

func buildSMSSender(cfg *appconfig.Config, attempts int, single bool, logger *logging.Logger) (messaging.Sender, string, string) {
	if cfg == nil {
		return nil, "", "missing config"
	}
	return messaging.BuildSender(messaging.ProviderSelectionConfig{
		Preference:       cfg.SMSProvider,
		TelnyxAPIKey:     cfg.TelnyxAPIKey,
		TelnyxProfileID:  cfg.TelnyxMessagingProfileID,
		TelnyxFromNumber: cfg.TelnyxFromNumber,
		TwilioAccountSID: cfg.TwilioAccountSID,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		TwilioFromNumber: cfg.TwilioFromNumber,
		Attempts:         attempts,
		SingleProvider:   single,
	}, logger)
}
