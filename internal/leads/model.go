package leads

import (
	"time"

	"github.com/hpsconstructions/hps-platform/internal/profile"
)

// Interaction types a lead can arrive through.
const (
	InteractionFormSubmit      = "form_submit"
	InteractionFormCancel      = "form_cancel"
	InteractionProductInterest = "product_interest"
	InteractionContactPage     = "contact_page"
	InteractionCallbackRequest = "callback_request"
)

// ValidInteraction reports whether s is a known interaction type.
func ValidInteraction(s string) bool {
	switch s {
	case InteractionFormSubmit, InteractionFormCancel, InteractionProductInterest,
		InteractionContactPage, InteractionCallbackRequest:
		return true
	}
	return false
}

// Delivery channels.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
	ChannelRelay    = "relay"
	ChannelProfile  = "profile"
)

// Event is the payload assembled when a visitor submits a form or asks
// about a product.
type Event struct {
	SessionID   string `json:"session_id"`
	Interaction string `json:"interaction_type"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Service     string `json:"service,omitempty"`
	Query       string `json:"query,omitempty"`
	Location    string `json:"location,omitempty"`
	ProductID   int    `json:"product_id,omitempty"`
	// Product is the product descriptor, e.g. "Bamboo Flooring (₹450/sq ft)".
	Product      string    `json:"product,omitempty"`
	ProductTitle string    `json:"product_title,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// EventFromProfile fills the contact fields of an event from a profile.
func EventFromProfile(sessionID, interaction string, p profile.ContactProfile) Event {
	return Event{
		SessionID:   sessionID,
		Interaction: interaction,
		Name:        p.Name,
		Phone:       p.Phone,
		Email:       p.Email,
		Service:     p.Service,
		Query:       p.Query,
		Location:    p.Location,
	}
}

// ChannelOutcome is the result of one delivery channel.
type ChannelOutcome struct {
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// Lead is one entry of the lead log.
type Lead struct {
	ID        string           `json:"id"`
	Event     Event            `json:"event"`
	Status    string           `json:"status"`
	Outcomes  []ChannelOutcome `json:"outcomes"`
	CreatedAt time.Time        `json:"created_at"`
}

// Outcome returns the recorded outcome for channel.
func (l *Lead) Outcome(channel string) (ChannelOutcome, bool) {
	for _, o := range l.Outcomes {
		if o.Channel == channel {
			return o, true
		}
	}
	return ChannelOutcome{}, false
}

// ListLeadsFilter narrows a lead log listing.
type ListLeadsFilter struct {
	Limit       int
	Offset      int
	Interaction string
}
