package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the append-only lead log.
type Repository interface {
	Append(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error)
}

// InMemoryRepository keeps the lead log in process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads []*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Append stores a copy of lead, assigning an id and timestamp when missing.
func (r *InMemoryRepository) Append(ctx context.Context, lead *Lead) error {
	prepare(lead)
	stored := *lead
	stored.Outcomes = append([]ChannelOutcome(nil), lead.Outcomes...)

	r.mu.Lock()
	r.leads = append(r.leads, &stored)
	r.mu.Unlock()
	return nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.leads {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrLeadNotFound
}

// List returns the newest leads first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	r.mu.RLock()
	matched := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if filter.Interaction != "" && l.Event.Interaction != filter.Interaction {
			continue
		}
		cp := *l
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []*Lead{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func prepare(lead *Lead) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
}
