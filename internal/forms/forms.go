// Package forms describes the site's lead-capture dialogs as data and
// validates submitted values against them.
package forms

import (
	"sort"
	"strings"

	"github.com/hpsconstructions/hps-platform/internal/profile"
)

// Kind is the input control a field renders as.
type Kind string

const (
	KindText     Kind = "text"
	KindTel      Kind = "tel"
	KindEmail    Kind = "email"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
)

// Effect is what an action does once its validation gate passes.
type Effect string

const (
	// EffectSend validates, dispatches the lead and records a submit.
	EffectSend Effect = "send"
	// EffectSendOnCancel validates a reduced set, dispatches and records a cancel.
	EffectSendOnCancel Effect = "send_on_cancel"
	// EffectDismiss closes the dialog without validation or dispatch.
	EffectDismiss Effect = "dismiss"
)

// Field is one input of a form.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	// Rules is a validator tag applied to non-empty values, e.g. "min=2".
	Rules string `json:"rules,omitempty"`
	// Message is shown when the field is missing or fails Rules.
	Message string `json:"message"`
	// ProfileField names the ContactProfile field the value is stored in;
	// empty means the field name itself.
	ProfileField string `json:"profile_field,omitempty"`
}

func (f Field) profileKey() string {
	if f.ProfileField != "" {
		return f.ProfileField
	}
	return f.Name
}

// Action is a button on the form.
type Action struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Effect   Effect   `json:"effect"`
	Required []string `json:"required,omitempty"`
	// Interaction tags the lead event raised by this action.
	Interaction string `json:"interaction,omitempty"`
	// WhatsApp reports whether a deep link is produced on success.
	WhatsApp bool `json:"whatsapp"`
}

func (a Action) requires(field string) bool {
	for _, r := range a.Required {
		if r == field {
			return true
		}
	}
	return false
}

// Definition is a complete lead-capture dialog.
type Definition struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	WelcomeTitle string   `json:"welcome_title,omitempty"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Banner       string   `json:"banner,omitempty"`
	Fields       []Field  `json:"fields"`
	Actions      []Action `json:"actions"`
	// SuccessToast and FailureToast are shown after dispatch.
	SuccessToast string `json:"success_toast"`
	FailureToast string `json:"failure_toast"`
}

// Action looks up an action by id.
func (d Definition) Action(id string) (Action, bool) {
	for _, a := range d.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Field looks up a field by name.
func (d Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Normalize trims the submitted values of the form's fields and drops
// anything the form does not declare.
func (d Definition) Normalize(values map[string]string) map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		if v, ok := values[f.Name]; ok {
			out[f.Name] = strings.TrimSpace(v)
		}
	}
	return out
}

// Prefill maps a stored profile onto the form's field names.
func (d Definition) Prefill(p profile.ContactProfile) map[string]string {
	stored := p.Values()
	out := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Name] = stored[f.profileKey()]
	}
	return out
}

// ProfilePatch maps form values onto a profile patch.
func (d Definition) ProfilePatch(values map[string]string) profile.Patch {
	mapped := make(map[string]string, len(values))
	for _, f := range d.Fields {
		if v, ok := values[f.Name]; ok {
			mapped[f.profileKey()] = v
		}
	}
	return profile.PatchFromValues(mapped)
}

// Registry holds the form definitions by id.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry indexes the given definitions.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	return r
}

// Get returns a definition by id.
func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, ErrFormNotFound
	}
	return d, nil
}

// List returns all definitions ordered by id.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
