package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/notify"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// Email providers.
const (
	EmailSendGrid = "sendgrid"
	EmailSES      = "ses"
	EmailStub     = "stub"
)

// BuildEmailSender selects the provider named by EMAIL_PROVIDER. A provider
// missing its credentials degrades to the stub sender with a warning.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case EmailSendGrid, "":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set; lead emails will only be logged")
			return notify.NewStubEmailSender(logger), EmailStub, nil
		}
		return sender, EmailSendGrid, nil
	case EmailSES:
		if awsCfg == nil || cfg.SESFromEmail == "" {
			logger.Warn("SES not configured; lead emails will only be logged")
			return notify.NewStubEmailSender(logger), EmailStub, nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger), EmailSES, nil
	case EmailStub:
		return notify.NewStubEmailSender(logger), EmailStub, nil
	default:
		return nil, "", fmt.Errorf("bootstrap: unknown email provider %q", cfg.EmailProvider)
	}
}

// NeedsAWS reports whether the configuration selects an AWS-backed component.
func NeedsAWS(cfg *appconfig.Config) bool {
	return cfg != nil && (cfg.ProfileStore == StoreDynamo || cfg.EmailProvider == EmailSES)
}
