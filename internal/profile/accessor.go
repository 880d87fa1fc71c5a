package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

// AccessorConfig tunes an Accessor.
type AccessorConfig struct {
	// Debounce is how long keystroke updates are coalesced before persisting.
	Debounce time.Duration
	// PersistTimeout bounds a single background store write.
	PersistTimeout time.Duration
	// IdleTTL is how long a clean mirror entry may go unused before it is
	// dropped. Dirty entries are never dropped.
	IdleTTL time.Duration
	Logger  *logging.Logger
	Now     func() time.Time
}

// DefaultIdleTTL bounds the mirror when AccessorConfig.IdleTTL is unset.
const DefaultIdleTTL = 30 * time.Minute

type entry struct {
	profile   ContactProfile
	version   uint64
	persisted uint64
	lastUsed  time.Time
	timer     *time.Timer
	// writeMu serialises store writes so an older snapshot never lands last.
	writeMu sync.Mutex
}

func (e *entry) dirty() bool {
	return e.version != e.persisted
}

// Accessor is the single source of truth for contact profiles. It mirrors
// each session's profile in memory, hydrates it from the Store once, and
// persists changes through a debounce window. Explicit submit and cancel
// flush immediately.
type Accessor struct {
	store          Store
	debounce       time.Duration
	persistTimeout time.Duration
	idleTTL        time.Duration
	logger         *logging.Logger
	now            func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
	pending   sync.WaitGroup
	closed    bool
}

// ErrClosed is returned by mutating calls after Close.
var ErrClosed = errors.New("profile: accessor closed")

// NewAccessor wraps a store.
func NewAccessor(store Store, cfg AccessorConfig) *Accessor {
	if store == nil {
		panic("profile: store required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Accessor{
		store:          store,
		debounce:       cfg.Debounce,
		persistTimeout: cfg.PersistTimeout,
		idleTTL:        cfg.IdleTTL,
		logger:         cfg.Logger,
		now:            cfg.Now,
		entries:        make(map[string]*entry),
	}
}

// Hydrate loads the session's profile into the mirror if it is not there yet
// and returns it. Missing, corrupt or unreadable stored profiles yield an
// empty profile; corrupt ones are also removed from the store.
func (a *Accessor) Hydrate(ctx context.Context, sessionID string) ContactProfile {
	if p, ok := a.cached(sessionID); ok {
		return p
	}
	loaded := a.load(ctx, sessionID)

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	// A concurrent caller may have hydrated or written while we were loading.
	if e, ok := a.entries[sessionID]; ok {
		e.lastUsed = now
		return e.profile
	}
	a.sweepLocked(now)
	a.entries[sessionID] = &entry{profile: loaded, lastUsed: now}
	return loaded
}

// Get returns the current profile. Unlike Hydrate it does not add a mirror
// entry for a session that has none, so reads never grow the mirror.
func (a *Accessor) Get(ctx context.Context, sessionID string) ContactProfile {
	if p, ok := a.cached(sessionID); ok {
		return p
	}
	return a.load(ctx, sessionID)
}

func (a *Accessor) cached(sessionID string) (ContactProfile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[sessionID]
	if !ok {
		return ContactProfile{}, false
	}
	e.lastUsed = a.now()
	return e.profile, true
}

func (a *Accessor) load(ctx context.Context, sessionID string) ContactProfile {
	loaded, err := a.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return loaded
	case errors.Is(err, ErrNotFound):
	case errors.Is(err, ErrCorrupt):
		a.logger.Warn("profile: resetting corrupt stored profile", "session_id", sessionID, "error", err)
		if delErr := a.store.Delete(ctx, sessionID); delErr != nil {
			a.logger.Warn("profile: failed to delete corrupt profile", "session_id", sessionID, "error", delErr)
		}
	default:
		a.logger.Error("profile: store read failed, starting empty", "session_id", sessionID, "error", err)
	}
	return ContactProfile{}
}

// sweepLocked drops clean entries idle for longer than idleTTL. It scans at
// most once per half TTL.
func (a *Accessor) sweepLocked(now time.Time) {
	if now.Sub(a.lastSweep) < a.idleTTL/2 {
		return
	}
	a.lastSweep = now
	for id, e := range a.entries {
		if !e.dirty() && now.Sub(e.lastUsed) >= a.idleTTL {
			delete(a.entries, id)
		}
	}
}

// Update applies a keystroke-level patch and schedules a debounced persist.
func (a *Accessor) Update(ctx context.Context, sessionID string, patch Patch) (ContactProfile, error) {
	a.Hydrate(ctx, sessionID)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ContactProfile{}, ErrClosed
	}
	e := a.entries[sessionID]
	if e == nil {
		e = &entry{}
		a.entries[sessionID] = e
	}
	now := a.now()
	e.lastUsed = now
	if patch.Empty() {
		return e.profile, nil
	}
	e.profile = patch.Apply(e.profile)
	e.profile.UpdatedAt = now.UTC()
	e.version++
	a.scheduleLocked(sessionID, e)
	return e.profile, nil
}

// Outcome marks how a form dialog ended.
type Outcome int

const (
	// Submitted marks an explicit submit.
	Submitted Outcome = iota
	// Cancelled marks a "maybe later" dismissal that still captured the lead.
	Cancelled
)

// Record applies the final form values, stamps the outcome and persists
// immediately.
func (a *Accessor) Record(ctx context.Context, sessionID string, patch Patch, outcome Outcome) (ContactProfile, error) {
	a.Hydrate(ctx, sessionID)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ContactProfile{}, ErrClosed
	}
	e := a.entries[sessionID]
	if e == nil {
		e = &entry{}
		a.entries[sessionID] = e
	}
	e.lastUsed = a.now()
	now := e.lastUsed.UTC()
	e.profile = patch.Apply(e.profile)
	e.profile.UpdatedAt = now
	switch outcome {
	case Submitted:
		e.profile.SubmittedAt = &now
	case Cancelled:
		e.profile.CancelledAt = &now
	}
	e.version++
	a.stopTimerLocked(e)
	p := e.profile
	a.mu.Unlock()

	return p, a.persist(ctx, sessionID)
}

// Flush persists any pending change for the session right away.
func (a *Accessor) Flush(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	if e, ok := a.entries[sessionID]; ok {
		a.stopTimerLocked(e)
	}
	a.mu.Unlock()
	return a.persist(ctx, sessionID)
}

// Reset forgets the profile in memory and in the store.
func (a *Accessor) Reset(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	e, ok := a.entries[sessionID]
	if ok {
		a.stopTimerLocked(e)
		delete(a.entries, sessionID)
	}
	a.mu.Unlock()
	if ok {
		// Wait out an in-flight write so it cannot land after the delete.
		e.writeMu.Lock()
		defer e.writeMu.Unlock()
	}
	return a.store.Delete(ctx, sessionID)
}

// Evict flushes and drops the session's mirror, e.g. when the session ends.
// When the flush fails the entry is kept so the change can still be written
// by a later flush or Close.
func (a *Accessor) Evict(ctx context.Context, sessionID string) error {
	if err := a.Flush(ctx, sessionID); err != nil {
		return err
	}
	a.mu.Lock()
	if e, ok := a.entries[sessionID]; ok && !e.dirty() {
		delete(a.entries, sessionID)
	}
	a.mu.Unlock()
	return nil
}

// Close stops all timers, waits for in-flight writes and flushes every dirty
// profile. Later updates fail with ErrClosed.
func (a *Accessor) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	ids := make([]string, 0, len(a.entries))
	for id, e := range a.entries {
		a.stopTimerLocked(e)
		ids = append(ids, id)
	}
	a.mu.Unlock()

	a.pending.Wait()

	var errs []error
	for _, id := range ids {
		if err := a.persist(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Accessor) scheduleLocked(sessionID string, e *entry) {
	a.stopTimerLocked(e)
	a.pending.Add(1)
	e.timer = time.AfterFunc(a.debounce, func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.persistTimeout)
		defer cancel()
		if err := a.persist(ctx, sessionID); err != nil {
			a.logger.Error("profile: debounced persist failed", "session_id", sessionID, "error", err)
		}
	})
}

func (a *Accessor) stopTimerLocked(e *entry) {
	if e.timer == nil {
		return
	}
	if e.timer.Stop() {
		a.pending.Done()
	}
	e.timer = nil
}

func (a *Accessor) persist(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	e, ok := a.entries[sessionID]
	a.mu.Unlock()
	if !ok {
		return nil
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	a.mu.Lock()
	if a.entries[sessionID] != e || !e.dirty() {
		a.mu.Unlock()
		return nil
	}
	snapshot := e.profile
	version := e.version
	a.mu.Unlock()

	if err := a.store.Put(ctx, sessionID, snapshot); err != nil {
		return err
	}

	a.mu.Lock()
	if version > e.persisted {
		e.persisted = version
	}
	a.mu.Unlock()
	return nil
}
