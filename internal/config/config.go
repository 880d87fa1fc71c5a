package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	PublicBaseURL      string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	AdminJWTSecret     string
	DispatchTimeout    time.Duration
	Timezone           string
	BusinessName       string

	// Storage
	DatabaseURL         string
	ProfileStore        string
	ProfileTTL          time.Duration
	ProfileDebounce     time.Duration
	ProfileDynamoTable  string
	SessionTTL          time.Duration
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Lead form widget timing
	WidgetAutoOpenDelay       time.Duration
	WidgetFloatingDelay       time.Duration
	WidgetSubmitCloseDelay    time.Duration
	WidgetSubmitFloatingDelay time.Duration
	WidgetReopenOnFocus       bool
	WidgetReopenFocusDelay    time.Duration

	// Email
	EmailProvider      string
	LeadInboxEmail     string
	LeadInboxName      string
	SendGridAPIKey     string
	SendGridFromEmail  string
	SendGridFromName   string
	SendGridTemplateID string
	SESFromEmail       string
	SESFromName        string

	// WhatsApp
	WhatsAppNumber         string
	WhatsAppFallbackNumber string

	// SMS / relay
	SMSProvider              string
	TelnyxAPIKey             string
	TelnyxMessagingProfileID string
	TelnyxFromNumber         string
	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioFromNumber         string
	RelayPort                string
	RelayURL                 string
	RelayDestinationNumber   string
	RelayTimezone            string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		DispatchTimeout:    getEnvAsDuration("DISPATCH_TIMEOUT", 15*time.Second),
		Timezone:           getEnv("SITE_TIMEZONE", "Asia/Kolkata"),
		BusinessName:       getEnv("BUSINESS_NAME", "HPS Constructions"),

		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ProfileStore:        strings.ToLower(strings.TrimSpace(getEnv("PROFILE_STORE", "redis"))),
		ProfileTTL:          getEnvAsDuration("PROFILE_TTL", 30*24*time.Hour),
		ProfileDebounce:     getEnvAsDuration("PROFILE_DEBOUNCE", 500*time.Millisecond),
		ProfileDynamoTable:  getEnv("PROFILE_DYNAMO_TABLE", "contact_profiles"),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:           getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		WidgetAutoOpenDelay:       getEnvAsDuration("WIDGET_AUTO_OPEN_DELAY", 4*time.Second),
		WidgetFloatingDelay:       getEnvAsDuration("WIDGET_FLOATING_DELAY", 3*time.Second),
		WidgetSubmitCloseDelay:    getEnvAsDuration("WIDGET_SUBMIT_CLOSE_DELAY", 3*time.Second),
		WidgetSubmitFloatingDelay: getEnvAsDuration("WIDGET_SUBMIT_FLOATING_DELAY", 8*time.Second),
		WidgetReopenOnFocus:       getEnvAsBool("WIDGET_REOPEN_ON_FOCUS", false),
		WidgetReopenFocusDelay:    getEnvAsDuration("WIDGET_REOPEN_FOCUS_DELAY", 1500*time.Millisecond),

		EmailProvider:      strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		LeadInboxEmail:     getEnv("LEAD_INBOX_EMAIL", ""),
		LeadInboxName:      getEnv("LEAD_INBOX_NAME", "HPS Constructions"),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:  getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:   getEnv("SENDGRID_FROM_NAME", "HPS Constructions Website"),
		SendGridTemplateID: getEnv("SENDGRID_TEMPLATE_ID", ""),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", "HPS Constructions Website"),

		WhatsAppNumber:         getEnv("WHATSAPP_NUMBER", "919565550142"),
		WhatsAppFallbackNumber: getEnv("WHATSAPP_FALLBACK_NUMBER", "919555633827"),

		SMSProvider:              strings.ToLower(strings.TrimSpace(getEnv("SMS_PROVIDER", "auto"))),
		TelnyxAPIKey:             getEnv("TELNYX_API_KEY", ""),
		TelnyxMessagingProfileID: getEnv("TELNYX_MESSAGING_PROFILE_ID", ""),
		TelnyxFromNumber:         getEnv("TELNYX_FROM_NUMBER", ""),
		TwilioAccountSID:         getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:          getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:         getEnv("TWILIO_PHONE_NUMBER", ""),
		RelayPort:                getEnv("RELAY_PORT", "3001"),
		RelayURL:                 getEnv("RELAY_URL", ""),
		RelayDestinationNumber:   getEnv("RELAY_DESTINATION_NUMBER", "+919555633827"),
		RelayTimezone:            getEnv("RELAY_TIMEZONE", "Asia/Kolkata"),
	}
}

// Location resolves the configured site timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	return loadLocation(c.Timezone)
}

// RelayLocation resolves the timezone used for relay SMS timestamps.
func (c *Config) RelayLocation() *time.Location {
	return loadLocation(c.RelayTimezone)
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
