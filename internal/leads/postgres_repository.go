package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores the lead log in the relational database.
type PostgresRepository struct {
	pool pgQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q pgQuerier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

const leadColumns = `id, session_id, interaction, name, phone, email, service, query, location,
		product_id, product, status, outcomes, submitted_at, created_at`

// Append inserts a new row.
func (r *PostgresRepository) Append(ctx context.Context, lead *Lead) error {
	prepare(lead)
	outcomes, err := json.Marshal(lead.Outcomes)
	if err != nil {
		return fmt.Errorf("leads: encode outcomes: %w", err)
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	ev := lead.Event
	if _, err := r.pool.Exec(ctx, query,
		lead.ID,
		ev.SessionID,
		ev.Interaction,
		ev.Name,
		ev.Phone,
		ev.Email,
		ev.Service,
		ev.Query,
		ev.Location,
		ev.ProductID,
		ev.Product,
		lead.Status,
		outcomes,
		ev.SubmittedAt,
		lead.CreatedAt,
	); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches one lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns the newest leads first. An empty interaction matches all.
func (r *PostgresRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE ($1 = '' OR interaction = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Interaction, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var (
		lead        Lead
		outcomes    []byte
		submittedAt time.Time
	)
	ev := &lead.Event
	if err := row.Scan(
		&lead.ID,
		&ev.SessionID,
		&ev.Interaction,
		&ev.Name,
		&ev.Phone,
		&ev.Email,
		&ev.Service,
		&ev.Query,
		&ev.Location,
		&ev.ProductID,
		&ev.Product,
		&lead.Status,
		&outcomes,
		&submittedAt,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	ev.SubmittedAt = submittedAt
	if len(outcomes) > 0 {
		if err := json.Unmarshal(outcomes, &lead.Outcomes); err != nil {
			return nil, fmt.Errorf("decode outcomes: %w", err)
		}
	}
	return &lead, nil
}
