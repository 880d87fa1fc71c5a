package whatsapp

import (
	"fmt"
	"time"

	"github.com/hpsconstructions/hps-platform/internal/templates"
)

// Message is a rendered deep link.
type Message struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Offer is the follow-up chat suggestion shown after a product enquiry.
type Offer struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Lead is the data a WhatsApp message is built from.
type Lead struct {
	Name     string
	Phone    string
	Email    string
	Service  string
	Query    string
	Location string
	// Product is the product descriptor, e.g. "Bamboo Flooring (₹450/sq ft)".
	Product     string
	SubmittedAt time.Time
}

// Composer renders lead messages for the business's WhatsApp numbers.
type Composer struct {
	primary      string
	fallback     string
	businessName string
	loc          *time.Location
	renderer     *templates.Renderer
}

// NewComposer builds a composer. loc is the zone timestamps are shown in.
func NewComposer(primary, fallback, businessName string, loc *time.Location, renderer *templates.Renderer) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	if renderer == nil {
		renderer = templates.Default()
	}
	if fallback == "" {
		fallback = primary
	}
	return &Composer{primary: primary, fallback: fallback, businessName: businessName, loc: loc, renderer: renderer}
}

func (c *Composer) bindings(l Lead) templates.Bindings {
	return templates.Bindings{
		"business_name": c.businessName,
		"name":          l.Name,
		"phone":         l.Phone,
		"email":         l.Email,
		"service":       l.Service,
		"query":         l.Query,
		"location":      l.Location,
		"product":       l.Product,
		"submitted":     templates.MediumTime(l.SubmittedAt.In(c.loc)),
	}
}

func (c *Composer) compose(number, template string, l Lead) (Message, error) {
	text, err := c.renderer.Render(template, c.bindings(l))
	if err != nil {
		return Message{}, fmt.Errorf("whatsapp: %w", err)
	}
	link, err := Link(number, text)
	if err != nil {
		return Message{}, err
	}
	return Message{Text: text, Link: link}, nil
}

// Query renders the floating query widget message.
func (c *Composer) Query(l Lead) (Message, error) {
	return c.compose(c.primary, templates.WhatsAppQuery, l)
}

// Contact renders the contact page message.
func (c *Composer) Contact(l Lead) (Message, error) {
	return c.compose(c.primary, templates.WhatsAppContact, l)
}

// ContactFallback renders the shorter contact message sent to the fallback
// number when the email could not be delivered.
func (c *Composer) ContactFallback(l Lead) (Message, error) {
	return c.compose(c.fallback, templates.WhatsAppContactFallback, l)
}

// Product renders the "learn more" product enquiry.
func (c *Composer) Product(l Lead) (Message, error) {
	return c.compose(c.primary, templates.WhatsAppProduct, l)
}

// FollowUpOffer suggests continuing the conversation in a direct chat.
func (c *Composer) FollowUpOffer(productTitle string) Offer {
	return Offer{
		Text: fmt.Sprintf("Want quicker answers about %s? Chat with us on WhatsApp.", productTitle),
		Link: baseURL + digitsOnly(c.fallback),
	}
}
