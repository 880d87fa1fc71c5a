package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

var telnyxSendTracer = otel.Tracer("hps.internal.messaging.telnyx_send")

const telnyxBaseURL = "https://api.telnyx.com"

// TelnyxConfig configures a TelnyxSender.
type TelnyxConfig struct {
	APIKey             string
	MessagingProfileID string
	From               string
	Attempts           int
	BaseURL            string
}

// TelnyxSender posts SMS messages using Telnyx's V2 API.
type TelnyxSender struct {
	apiKey             string
	messagingProfileID string
	from               string
	baseURL            string
	attempts           int
	httpClient         *http.Client
	logger             *logging.Logger
}

// NewTelnyxSender builds a sender for Telnyx V2 API.
func NewTelnyxSender(cfg TelnyxConfig, logger *logging.Logger) *TelnyxSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = telnyxBaseURL
	}
	return &TelnyxSender{
		apiKey:             cfg.APIKey,
		messagingProfileID: cfg.MessagingProfileID,
		from:               cfg.From,
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		attempts:           cfg.Attempts,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

var _ Sender = (*TelnyxSender)(nil)

// SendSMS dispatches a single SMS via Telnyx V2 API, retrying transient failures.
func (s *TelnyxSender) SendSMS(ctx context.Context, to, body string) error {
	if s.apiKey == "" {
		return errors.New("messaging: telnyx api key missing")
	}
	if to == "" {
		return errors.New("messaging: to required")
	}
	if s.from == "" && s.messagingProfileID == "" {
		return errors.New("messaging: from or messaging profile required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("messaging: body required")
	}

	ctx, span := telnyxSendTracer.Start(ctx, "messaging.telnyx.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("hps.to", to),
		attribute.String("hps.from", s.from),
	)

	payload := map[string]any{
		"to":   to,
		"text": body,
	}
	if s.from != "" {
		payload["from"] = s.from
	}
	if s.messagingProfileID != "" {
		payload["messaging_profile_id"] = s.messagingProfileID
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messaging: failed to marshal telnyx payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v2/messages", bytes.NewReader(bodyBytes))
		if err != nil {
			lastErr = err
			break
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				var parsed struct {
					Data struct {
						ID string `json:"id"`
					} `json:"data"`
				}
				_ = json.Unmarshal(respBody, &parsed)
				s.logger.Info("telnyx sms sent", "to", to, "message_id", parsed.Data.ID)
				return nil
			}
			var errorBody map[string]any
			if len(respBody) > 0 && json.Unmarshal(respBody, &errorBody) == nil {
				lastErr = fmt.Errorf("telnyx send failed: status %d, body: %v", resp.StatusCode, errorBody)
			} else {
				lastErr = fmt.Errorf("telnyx send failed: status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429 {
				break
			}
		}

		if attempt < s.attempts {
			sleep := time.Duration(200+rand.Intn(300)) * time.Millisecond
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = s.attempts
			case <-time.After(sleep):
			}
		}
	}

	if lastErr != nil {
		span.RecordError(lastErr)
		s.logger.Error("failed to send telnyx sms", "error", lastErr, "to", to)
	}
	return lastErr
}
