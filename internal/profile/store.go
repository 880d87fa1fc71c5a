package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when no profile is stored for a session
	ErrNotFound = errors.New("profile: not found")

	// ErrCorrupt is returned when a stored profile cannot be decoded
	ErrCorrupt = errors.New("profile: stored profile is corrupt")
)

// Store persists one serialized profile per visitor session.
type Store interface {
	Get(ctx context.Context, sessionID string) (ContactProfile, error)
	Put(ctx context.Context, sessionID string, p ContactProfile) error
	Delete(ctx context.Context, sessionID string) error
}

func decode(data []byte) (ContactProfile, error) {
	var p ContactProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return ContactProfile{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return p, nil
}

// MemoryStore keeps serialized profiles in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get decodes the stored profile.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (ContactProfile, error) {
	s.mu.RLock()
	raw, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ContactProfile{}, ErrNotFound
	}
	return decode(raw)
}

// Put serializes and stores the profile.
func (s *MemoryStore) Put(ctx context.Context, sessionID string, p ContactProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	s.mu.Lock()
	s.data[sessionID] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the stored profile.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.data, sessionID)
	s.mu.Unlock()
	return nil
}

// PutRaw stores bytes verbatim; used to seed legacy or damaged entries.
func (s *MemoryStore) PutRaw(sessionID string, raw []byte) {
	s.mu.Lock()
	s.data[sessionID] = append([]byte(nil), raw...)
	s.mu.Unlock()
}

var _ Store = (*MemoryStore)(nil)
