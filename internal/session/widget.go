package session

import "time"

// Timing holds the widget's delays.
type Timing struct {
	AutoOpenDelay       time.Duration
	FloatingDelay       time.Duration
	SubmitCloseDelay    time.Duration
	SubmitFloatingDelay time.Duration
	ReopenOnFocus       bool
	ReopenOnFocusDelay  time.Duration
}

// DefaultTiming matches the live site.
func DefaultTiming() Timing {
	return Timing{
		AutoOpenDelay:       4 * time.Second,
		FloatingDelay:       3 * time.Second,
		SubmitCloseDelay:    3 * time.Second,
		SubmitFloatingDelay: 8 * time.Second,
		ReopenOnFocusDelay:  1500 * time.Millisecond,
	}
}

// View is what the front end should render at a point in time.
type View struct {
	SessionID       string `json:"session_id"`
	ModalOpen       bool   `json:"modal_open"`
	FloatingVisible bool   `json:"floating_visible"`
	// Welcome selects the greeting variant of the dialog.
	Welcome bool `json:"welcome"`
	// NextChangeAt tells the client when to poll again; nil when the state
	// is settled until the visitor acts.
	NextChangeAt *time.Time `json:"next_change_at,omitempty"`
}

// Widget is the lead widget state machine. Time-driven transitions are
// applied lazily by Advance, so a session can sit in storage between calls.
type Widget struct {
	timing Timing
}

// NewWidget creates a state machine with the given delays.
func NewWidget(t Timing) *Widget {
	return &Widget{timing: t}
}

// Advance applies every transition whose deadline is at or before now and
// reports whether the session changed.
func (w *Widget) Advance(s *Session, now time.Time) bool {
	changed := false

	if !s.AutoOpened {
		at := s.FirstViewAt.Add(w.timing.AutoOpenDelay)
		if !now.Before(at) {
			s.AutoOpened = true
			s.ModalOpen = true
			s.ClosedAt = nil
			s.LastEvent = EventAutoOpen
			changed = true
		}
	}

	if s.SubmitCloseAt != nil {
		at := *s.SubmitCloseAt
		if !now.Before(at) {
			s.SubmitCloseAt = nil
			s.ModalOpen = false
			s.ClosedAt = &at
			s.ClosedBySubmit = true
			s.LastEvent = EventSubmitClose
			changed = true
		}
	}

	if s.FocusAt != nil {
		at := s.FocusAt.Add(w.timing.ReopenOnFocusDelay)
		if !now.Before(at) {
			s.FocusAt = nil
			if w.timing.ReopenOnFocus && s.AutoOpened && !s.ModalOpen {
				s.ModalOpen = true
				s.ClosedAt = nil
				s.LastEvent = EventFocusReopen
			}
			changed = true
		}
	}

	return changed
}

// View advances a copy of s to now and describes what should be on screen.
func (w *Widget) View(s Session, now time.Time) View {
	w.Advance(&s, now)
	v := View{SessionID: s.ID, ModalOpen: s.ModalOpen, Welcome: s.AutoOpened}

	var next *time.Time
	consider := func(t time.Time) {
		if t.After(now) && (next == nil || t.Before(*next)) {
			tt := t
			next = &tt
		}
	}

	if !s.AutoOpened {
		consider(s.FirstViewAt.Add(w.timing.AutoOpenDelay))
	}
	if s.SubmitCloseAt != nil {
		consider(*s.SubmitCloseAt)
	}
	if s.FocusAt != nil && w.timing.ReopenOnFocus {
		consider(s.FocusAt.Add(w.timing.ReopenOnFocusDelay))
	}
	if s.AutoOpened && !s.ModalOpen && s.ClosedAt != nil {
		at := s.ClosedAt.Add(w.floatingDelay(s))
		if !now.Before(at) {
			v.FloatingVisible = true
		} else {
			consider(at)
		}
	}

	v.NextChangeAt = next
	return v
}

func (w *Widget) floatingDelay(s Session) time.Duration {
	if s.ClosedBySubmit {
		return w.timing.SubmitFloatingDelay
	}
	return w.timing.FloatingDelay
}

// Apply advances s to now and then applies a visitor event:
// "open" (including a floating prompt click), "close" or "focus".
func (w *Widget) Apply(s *Session, event string, now time.Time) error {
	now = now.UTC()
	w.Advance(s, now)

	switch event {
	case EventOpen:
		s.ModalOpen = true
		// A manual open before the timer counts as the one auto-open.
		s.AutoOpened = true
		s.ClosedAt = nil
		s.ClosedBySubmit = false
		s.SubmitCloseAt = nil
	case EventClose:
		s.SubmitCloseAt = nil
		if s.ModalOpen {
			s.ModalOpen = false
			s.ClosedAt = &now
			s.ClosedBySubmit = false
		}
	case EventFocus:
		if w.timing.ReopenOnFocus {
			s.FocusAt = &now
		}
	default:
		return ErrUnknownEvent
	}
	s.LastEvent = event
	return nil
}

// MarkSubmitted records a successful submit; the modal closes after
// SubmitCloseDelay and the floating prompt returns SubmitFloatingDelay later.
func (w *Widget) MarkSubmitted(s *Session, now time.Time) {
	now = now.UTC()
	w.Advance(s, now)
	s.SubmittedAt = &now
	s.LastEvent = EventSubmitted
	if s.ModalOpen {
		closeAt := now.Add(w.timing.SubmitCloseDelay)
		s.SubmitCloseAt = &closeAt
	} else {
		s.ClosedAt = &now
		s.ClosedBySubmit = true
	}
}
