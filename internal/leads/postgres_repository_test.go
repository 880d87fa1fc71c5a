package leads

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

var leadRowColumns = []string{
	"id", "session_id", "interaction", "name", "phone", "email", "service", "query", "location",
	"product_id", "product", "status", "outcomes", "submitted_at", "created_at",
}

func TestPostgresRepository_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	lead := &Lead{
		ID: "lead-1",
		Event: Event{
			SessionID: "s1", Interaction: InteractionFormSubmit, Name: "Ravi", Phone: "9876543210",
			Service: "Bamboo Flooring", SubmittedAt: at,
		},
		Status:    StatusSent,
		Outcomes:  []ChannelOutcome{{Channel: ChannelEmail, OK: true}},
		CreatedAt: at,
	}

	mock.ExpectExec("INSERT INTO leads").
		WithArgs("lead-1", "s1", InteractionFormSubmit, "Ravi", "9876543210", "", "Bamboo Flooring", "", "",
			0, "", StatusSent, []byte(`[{"channel":"email","ok":true}]`), at, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Append(context.Background(), lead); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("lead-1").
		WillReturnRows(pgxmock.NewRows(leadRowColumns).AddRow(
			"lead-1", "s1", InteractionProductInterest, "Ravi", "9876543210", "", "", "", "",
			1, "Bamboo Solutions (₹599/piece)", StatusPartial,
			[]byte(`[{"channel":"email","ok":false,"error":"boom"}]`), at, at,
		))
	lead, err := repo.GetByID(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.Event.ProductID != 1 || lead.Status != StatusPartial {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if o, ok := lead.Outcome(ChannelEmail); !ok || o.OK || o.Error != "boom" {
		t.Fatalf("unexpected email outcome: %+v", o)
	}

	mock.ExpectQuery("FROM leads WHERE id").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithQuerier(mock)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM leads").WithArgs(InteractionFormCancel, 10, 0).
		WillReturnRows(pgxmock.NewRows(leadRowColumns).
			AddRow("a", "s1", InteractionFormCancel, "Ravi", "1", "", "", "", "", 0, "", StatusSent, []byte(`[]`), at, at.Add(time.Minute)).
			AddRow("b", "s2", InteractionFormCancel, "Asha", "2", "", "", "", "", 0, "", StatusSent, []byte(`[]`), at, at))

	leads, err := repo.List(context.Background(), ListLeadsFilter{Limit: 10, Interaction: InteractionFormCancel})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leads) != 2 || leads[0].ID != "a" || leads[1].Event.Name != "Asha" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
