// Package templates renders the Liquid message bodies sent to the business:
// lead emails, WhatsApp deep-link text and the SMS alert.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/osteele/liquid"
)

//go:embed liquid/*.liquid
var files embed.FS

// Template names.
const (
	EmailLead               = "email_lead"
	WhatsAppQuery           = "whatsapp_query"
	WhatsAppContact         = "whatsapp_contact"
	WhatsAppContactFallback = "whatsapp_contact_fallback"
	WhatsAppProduct         = "whatsapp_product"
	SMSLead                 = "sms_lead"
)

// Bindings are the variables visible to a template.
type Bindings map[string]any

// Renderer parses the embedded templates once and renders them by name.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // name -> *liquid.Template
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Default returns a shared renderer.
func Default() *Renderer {
	defaultOnce.Do(func() { defaultRenderer = New() })
	return defaultRenderer
}

func (r *Renderer) template(name string) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}
	src, err := files.ReadFile("liquid/" + name + ".liquid")
	if err != nil {
		return nil, fmt.Errorf("templates: unknown template %q: %w", name, err)
	}
	tpl, perr := r.engine.ParseTemplate(src)
	if perr != nil {
		return nil, fmt.Errorf("templates: parse %s: %w", name, perr)
	}
	r.cache.Store(name, tpl)
	return tpl, nil
}

// Render renders the named template. The trailing newline of the source file
// is dropped.
func (r *Renderer) Render(name string, b Bindings) (string, error) {
	tpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	out, rerr := tpl.RenderString(liquid.Bindings(b))
	if rerr != nil {
		return "", fmt.Errorf("templates: render %s: %w", name, rerr)
	}
	return strings.TrimRight(out, "\n"), nil
}

// FullTime formats t like the site's email timestamps, e.g.
// "Saturday, 1 June 2024 at 3:30 pm".
func FullTime(t time.Time) string {
	return t.Format("Monday, 2 January 2006 at 3:04 pm")
}

// MediumTime formats t like the WhatsApp timestamps, e.g. "1 Jun 2024, 3:30 pm".
func MediumTime(t time.Time) string {
	return t.Format("2 Jan 2006, 3:04 pm")
}

// ShortTime formats t like the SMS alert, e.g. "1/6/2024, 3:30:00 pm".
func ShortTime(t time.Time) string {
	return t.Format("2/1/2006, 3:04:05 pm")
}
