package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hpsconstructions/hps-platform/internal/templates"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// ErrNoInbox is returned when no lead inbox address is configured.
var ErrNoInbox = errors.New("notify: lead inbox not configured")

// ErrNoSender is returned when no email provider is configured.
var ErrNoSender = errors.New("notify: email sender not configured")

// LeadEmail is the fixed field set of a lead notification email.
type LeadEmail struct {
	Name            string
	Phone           string
	Email           string
	Service         string
	Query           string
	Location        string
	Product         string
	InteractionType string
	SubmittedAt     time.Time
}

// TemplateData returns the field set as the dynamic template sees it.
// An empty query is shown as "—".
func (l LeadEmail) TemplateData(loc *time.Location) map[string]any {
	query := strings.TrimSpace(l.Query)
	if query == "" {
		query = "—"
	}
	data := map[string]any{
		"from_name":        l.Name,
		"phone_number":     l.Phone,
		"service_needed":   l.Service,
		"user_query":       query,
		"submission_time":  templates.FullTime(l.SubmittedAt.In(loc)),
		"product":          l.Product,
		"interaction_type": l.InteractionType,
		"from_email":       l.Email,
		"project_location": l.Location,
	}
	return data
}

// ServiceConfig configures the lead mailer.
type ServiceConfig struct {
	InboxEmail   string
	InboxName    string
	TemplateID   string
	BusinessName string
	Location     *time.Location
}

// Service sends lead notifications to the business inbox.
type Service struct {
	email    EmailSender
	cfg      ServiceConfig
	renderer *templates.Renderer
	logger   *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg ServiceConfig, renderer *templates.Renderer, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if renderer == nil {
		renderer = templates.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "HPS Constructions"
	}
	return &Service{email: email, cfg: cfg, renderer: renderer, logger: logger}
}

// NotifyLead emails a lead to the inbox. With a template id the provider
// renders the email; otherwise the Liquid body is sent.
func (s *Service) NotifyLead(ctx context.Context, lead LeadEmail) error {
	if s.email == nil {
		return ErrNoSender
	}
	if s.cfg.InboxEmail == "" {
		return ErrNoInbox
	}

	data := lead.TemplateData(s.cfg.Location)
	bindings := templates.Bindings{"business_name": s.cfg.BusinessName}
	for k, v := range data {
		bindings[k] = v
	}
	body, err := s.renderer.Render(templates.EmailLead, bindings)
	if err != nil {
		return fmt.Errorf("notify: render lead email: %w", err)
	}

	msg := EmailMessage{
		To:           s.cfg.InboxEmail,
		ToName:       s.cfg.InboxName,
		ReplyTo:      lead.Email,
		Subject:      subject(s.cfg.BusinessName, lead),
		Body:         body,
		TemplateID:   s.cfg.TemplateID,
		TemplateData: data,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("lead email sent", "interaction", lead.InteractionType)
	return nil
}

func subject(business string, lead LeadEmail) string {
	switch {
	case lead.Product != "":
		return fmt.Sprintf("%s enquiry: %s from %s", business, lead.Product, lead.Name)
	case lead.Service != "":
		return fmt.Sprintf("%s enquiry: %s from %s", business, lead.Service, lead.Name)
	default:
		return fmt.Sprintf("%s enquiry from %s", business, lead.Name)
	}
}
