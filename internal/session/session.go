// Package session tracks a visitor's browsing session and the lead widget
// state that hangs off it.
package session

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when the session does not exist or expired.
var ErrSessionNotFound = errors.New("session: not found")

// ErrUnknownEvent is returned for a widget event the state machine does not know.
var ErrUnknownEvent = errors.New("session: unknown widget event")

// Event names recorded in LastEvent.
const (
	EventCreated     = "created"
	EventAutoOpen    = "auto_open"
	EventOpen        = "open"
	EventClose       = "close"
	EventFocus       = "focus"
	EventFocusReopen = "focus_reopen"
	EventSubmitted   = "submitted"
	EventSubmitClose = "submit_close"
)

// Session is one visitor's stay on the site.
type Session struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FirstViewAt time.Time `json:"first_view_at"`
	AutoOpened  bool      `json:"auto_opened"`
	ModalOpen   bool      `json:"modal_open"`
	// ClosedAt is when the modal last closed; ClosedBySubmit marks closes
	// that followed a successful submit.
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	ClosedBySubmit bool       `json:"closed_by_submit,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	FocusAt        *time.Time `json:"focus_at,omitempty"`
	LastEvent      string     `json:"last_event"`
	// SubmitCloseAt is the pending post-submit close; cleared once it fires
	// or the visitor opens or closes the modal.
	SubmitCloseAt *time.Time `json:"submit_close_at,omitempty"`
}

// New starts a session at its first page view.
func New(id string, now time.Time) Session {
	now = now.UTC()
	return Session{ID: id, CreatedAt: now, FirstViewAt: now, LastEvent: EventCreated}
}
