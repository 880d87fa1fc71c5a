package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// EndHook runs when a session is torn down, e.g. to flush its profile.
type EndHook func(ctx context.Context, sessionID string) error

// Service owns session lifecycle and widget transitions.
type Service struct {
	store  Store
	widget *Widget
	logger *logging.Logger
	now    func() time.Time
	hooks  []EndHook

	// mu serialises read-modify-write cycles against the store.
	mu sync.Mutex
}

// NewService wires a store and widget timing.
func NewService(store Store, timing Timing, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, widget: NewWidget(timing), logger: logger, now: time.Now}
}

// OnEnd registers a hook run by End.
func (s *Service) OnEnd(hook EndHook) {
	s.hooks = append(s.hooks, hook)
}

// Create starts a session at the visitor's first page view.
func (s *Service) Create(ctx context.Context) (Session, View, error) {
	sess := New(uuid.NewString(), s.now())
	if err := s.store.Put(ctx, sess); err != nil {
		return Session{}, View{}, fmt.Errorf("session: create: %w", err)
	}
	s.logger.Debug("session created", "session_id", sess.ID)
	return sess, s.widget.View(sess, sess.FirstViewAt), nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	return s.store.Get(ctx, id)
}

// View applies due transitions and returns what to render.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	var view View
	err := s.mutate(ctx, id, func(sess *Session, now time.Time) (bool, error) {
		changed := s.widget.Advance(sess, now)
		view = s.widget.View(*sess, now)
		return changed, nil
	})
	return view, err
}

// Event applies a visitor event to the widget.
func (s *Service) Event(ctx context.Context, id, event string) (View, error) {
	var view View
	err := s.mutate(ctx, id, func(sess *Session, now time.Time) (bool, error) {
		if err := s.widget.Apply(sess, event, now); err != nil {
			return false, err
		}
		view = s.widget.View(*sess, now)
		return true, nil
	})
	return view, err
}

// MarkSubmitted records a successful widget submit.
func (s *Service) MarkSubmitted(ctx context.Context, id string) (View, error) {
	var view View
	err := s.mutate(ctx, id, func(sess *Session, now time.Time) (bool, error) {
		s.widget.MarkSubmitted(sess, now)
		view = s.widget.View(*sess, now)
		return true, nil
	})
	return view, err
}

// End runs the end hooks and deletes the session.
func (s *Service) End(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, id); err != nil {
			s.logger.Warn("session end hook failed", "session_id", id, "error", err)
		}
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*Session, time.Time) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	changed, err := fn(&sess, s.now().UTC())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}
