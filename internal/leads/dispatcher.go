package leads

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/hpsconstructions/hps-platform/internal/notify"
	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/relay"
	"github.com/hpsconstructions/hps-platform/internal/whatsapp"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

var dispatchTracer = otel.Tracer("hps.internal.leads.dispatch")

// Dispatch statuses.
const (
	StatusSent    = "sent"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// DefaultDispatchTimeout bounds a dispatch when none is configured.
const DefaultDispatchTimeout = 15 * time.Second

// EmailNotifier emails a lead to the business inbox.
type EmailNotifier interface {
	NotifyLead(ctx context.Context, lead notify.LeadEmail) error
}

// RelayNotifier forwards a lead to the SMS relay.
type RelayNotifier interface {
	Notify(ctx context.Context, req relay.Request) error
}

// ProfileRecorder persists the final form values of a session.
type ProfileRecorder interface {
	Record(ctx context.Context, sessionID string, patch profile.Patch, outcome profile.Outcome) (profile.ContactProfile, error)
}

// DispatcherConfig wires the delivery channels. Nil channels are skipped.
type DispatcherConfig struct {
	Email    EmailNotifier
	WhatsApp *whatsapp.Composer
	Relay    RelayNotifier
	Profiles ProfileRecorder
	Repo     Repository
	Metrics  *metrics.LeadMetrics
	Timeout  time.Duration
	Logger   *logging.Logger
}

// Dispatcher fans a lead out to every channel at once.
type Dispatcher struct {
	email    EmailNotifier
	whatsapp *whatsapp.Composer
	relay    RelayNotifier
	profiles ProfileRecorder
	repo     Repository
	metrics  *metrics.LeadMetrics
	timeout  time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{
		email:    cfg.Email,
		whatsapp: cfg.WhatsApp,
		relay:    cfg.Relay,
		profiles: cfg.Profiles,
		repo:     cfg.Repo,
		metrics:  cfg.Metrics,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// Request is one lead to dispatch.
type Request struct {
	Event Event
	// WhatsApp asks for a deep link to be built.
	WhatsApp bool
	// Patch, when set, is written to the session profile with Outcome.
	Patch   *profile.Patch
	Outcome profile.Outcome
}

// Result reports what each channel did.
type Result struct {
	LeadID   string            `json:"lead_id,omitempty"`
	Status   string            `json:"status"`
	Email    ChannelOutcome    `json:"email"`
	WhatsApp *whatsapp.Message `json:"whatsapp,omitempty"`
	// Fallback is the shorter message for the backup number, built when the
	// contact page email fails.
	Fallback *whatsapp.Message `json:"fallback,omitempty"`
	Outcomes []ChannelOutcome  `json:"outcomes"`
}

// EmailSent reports whether the inbox email went out.
func (r Result) EmailSent() bool { return r.Email.OK }

// Dispatch sends the lead on every configured channel concurrently. A failing
// channel never stops the others, and the caller going away does not cancel
// delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	ev := req.Event
	if ev.SubmittedAt.IsZero() {
		ev.SubmittedAt = d.now().UTC()
	}

	ctx, span := dispatchTracer.Start(ctx, "leads.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("lead.interaction", ev.Interaction),
		attribute.String("lead.session_id", ev.SessionID),
	)
	start := time.Now()

	var g errgroup.Group
	emailOut := ChannelOutcome{Channel: ChannelEmail}
	var waOut, relayOut, profileOut *ChannelOutcome
	var waMsg, fallbackMsg *whatsapp.Message

	g.Go(func() error {
		err := d.sendEmail(ctx, ev)
		emailOut = outcome(ChannelEmail, err)
		if err != nil {
			d.logger.Warn("lead email failed", "error", err, "interaction", ev.Interaction)
			if ev.Interaction == InteractionContactPage && d.whatsapp != nil {
				if msg, ferr := d.whatsapp.ContactFallback(whatsappLead(ev)); ferr == nil {
					fallbackMsg = &msg
				} else {
					d.logger.Error("whatsapp fallback failed", "error", ferr)
				}
			}
		}
		return nil
	})

	if req.WhatsApp && d.whatsapp != nil {
		g.Go(func() error {
			msg, err := d.composeWhatsApp(ev)
			o := outcome(ChannelWhatsApp, err)
			waOut = &o
			if err != nil {
				d.logger.Error("whatsapp link failed", "error", err, "interaction", ev.Interaction)
				return nil
			}
			waMsg = &msg
			return nil
		})
	}

	if d.relay != nil {
		g.Go(func() error {
			err := d.relay.Notify(ctx, relay.Request{Name: ev.Name, Email: ev.Email, Phone: ev.Phone})
			o := outcome(ChannelRelay, err)
			relayOut = &o
			if err != nil {
				d.logger.Warn("sms relay failed", "error", err)
			}
			return nil
		})
	}

	if req.Patch != nil && d.profiles != nil && ev.SessionID != "" {
		g.Go(func() error {
			_, err := d.profiles.Record(ctx, ev.SessionID, *req.Patch, req.Outcome)
			o := outcome(ChannelProfile, err)
			profileOut = &o
			if err != nil {
				d.logger.Warn("profile write failed", "error", err, "session_id", ev.SessionID)
			}
			return nil
		})
	}

	_ = g.Wait()

	res := Result{Email: emailOut, WhatsApp: waMsg, Fallback: fallbackMsg}
	res.Outcomes = append(res.Outcomes, emailOut)
	for _, o := range []*ChannelOutcome{waOut, relayOut, profileOut} {
		if o != nil {
			res.Outcomes = append(res.Outcomes, *o)
		}
	}
	for _, o := range res.Outcomes {
		d.metrics.ObserveChannel(o.Channel, o.OK)
	}

	switch {
	case emailOut.OK:
		res.Status = StatusSent
	case waMsg != nil || fallbackMsg != nil:
		res.Status = StatusPartial
	default:
		res.Status = StatusFailed
	}
	if res.Status != StatusSent {
		span.SetStatus(codes.Error, emailOut.Error)
	}
	span.SetAttributes(attribute.String("lead.status", res.Status))

	d.metrics.ObserveLead(ev.Interaction, res.Status)
	d.metrics.ObserveDispatchLatency(ev.Interaction, time.Since(start).Seconds())

	res.LeadID = d.record(ctx, ev, res)
	d.logger.Info("lead dispatched",
		"interaction", ev.Interaction,
		"status", res.Status,
		"session_id", ev.SessionID,
	)
	return res
}

func (d *Dispatcher) sendEmail(ctx context.Context, ev Event) error {
	if d.email == nil {
		return notify.ErrNoSender
	}
	return d.email.NotifyLead(ctx, notify.LeadEmail{
		Name:            ev.Name,
		Phone:           ev.Phone,
		Email:           ev.Email,
		Service:         ev.Service,
		Query:           ev.Query,
		Location:        ev.Location,
		Product:         ev.Product,
		InteractionType: ev.Interaction,
		SubmittedAt:     ev.SubmittedAt,
	})
}

func (d *Dispatcher) composeWhatsApp(ev Event) (whatsapp.Message, error) {
	l := whatsappLead(ev)
	switch ev.Interaction {
	case InteractionProductInterest:
		return d.whatsapp.Product(l)
	case InteractionContactPage:
		return d.whatsapp.Contact(l)
	default:
		return d.whatsapp.Query(l)
	}
}

// record appends the lead to the log. Failures are logged only.
func (d *Dispatcher) record(ctx context.Context, ev Event, res Result) string {
	if d.repo == nil {
		return ""
	}
	lead := &Lead{Event: ev, Status: res.Status, Outcomes: res.Outcomes}
	if err := d.repo.Append(ctx, lead); err != nil {
		d.logger.Warn("lead log append failed", "error", err, "interaction", ev.Interaction)
		return ""
	}
	return lead.ID
}

func whatsappLead(ev Event) whatsapp.Lead {
	return whatsapp.Lead{
		Name:        ev.Name,
		Phone:       ev.Phone,
		Email:       ev.Email,
		Service:     ev.Service,
		Query:       ev.Query,
		Location:    ev.Location,
		Product:     ev.Product,
		SubmittedAt: ev.SubmittedAt,
	}
}

func outcome(channel string, err error) ChannelOutcome {
	if err != nil {
		return ChannelOutcome{Channel: channel, Error: err.Error()}
	}
	return ChannelOutcome{Channel: channel, OK: true}
}
