// Package relay forwards new-lead alerts to the business owner's phone by SMS.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hpsconstructions/hps-platform/internal/messaging"
	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
	"github.com/hpsconstructions/hps-platform/internal/templates"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// DefaultDestination is the owner's phone.
const DefaultDestination = "+919555633827"

// ErrNoSender is returned when no telephony provider is configured.
var ErrNoSender = errors.New("relay: sms sender not configured")

// Request is the relay payload.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Response is the relay reply.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Config configures the relay service.
type Config struct {
	Destination string
	Location    *time.Location
}

// Service renders and sends the SMS alert.
type Service struct {
	sender      messaging.Sender
	destination string
	loc         *time.Location
	renderer    *templates.Renderer
	metrics     *metrics.RelayMetrics
	logger      *logging.Logger
	now         func() time.Time
}

// NewService wires a sender. A nil sender makes every send fail with ErrNoSender.
func NewService(sender messaging.Sender, cfg Config, m *metrics.RelayMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Destination == "" {
		cfg.Destination = DefaultDestination
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		sender:      sender,
		destination: cfg.Destination,
		loc:         cfg.Location,
		renderer:    templates.Default(),
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// Message renders the SMS body for req at time at.
func (s *Service) Message(req Request, at time.Time) (string, error) {
	return s.renderer.Render(templates.SMSLead, templates.Bindings{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
		"time":  templates.ShortTime(at.In(s.loc)),
	})
}

// Send renders the alert and sends it once to the destination number.
func (s *Service) Send(ctx context.Context, req Request) error {
	if s.sender == nil {
		s.metrics.ObserveSend(false)
		return ErrNoSender
	}
	body, err := s.Message(req, s.now())
	if err != nil {
		s.metrics.ObserveSend(false)
		return fmt.Errorf("relay: %w", err)
	}
	if err := s.sender.SendSMS(ctx, s.destination, body); err != nil {
		s.metrics.ObserveSend(false)
		return err
	}
	s.metrics.ObserveSend(true)
	s.logger.Info("lead sms relayed", "to", s.destination)
	return nil
}
