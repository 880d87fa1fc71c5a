package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockEmailSender struct {
	sent []EmailMessage
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

var ist = time.FixedZone("IST", 5*3600+1800)

func TestService_NotifyLead(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, ServiceConfig{
		InboxEmail: "owner@hpsconstructions.in",
		TemplateID: "d-abc",
		Location:   ist,
	}, nil, nil)

	err := svc.NotifyLead(context.Background(), LeadEmail{
		Name:            "Ravi",
		Phone:           "9876543210",
		Service:         "Bamboo Flooring",
		InteractionType: "form_submit",
		SubmittedAt:     time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.TemplateID != "d-abc" || msg.To != "owner@hpsconstructions.in" {
		t.Fatalf("unexpected message %+v", msg)
	}
	want := map[string]any{
		"from_name":       "Ravi",
		"phone_number":    "9876543210",
		"service_needed":  "Bamboo Flooring",
		"user_query":      "—",
		"submission_time": "Saturday, 1 June 2024 at 3:30 pm",
	}
	for k, v := range want {
		if msg.TemplateData[k] != v {
			t.Errorf("%s: got %v, want %v", k, msg.TemplateData[k], v)
		}
	}
	if !strings.Contains(msg.Body, "Name: Ravi") {
		t.Errorf("fallback body not rendered: %q", msg.Body)
	}
	if !strings.Contains(msg.Subject, "Bamboo Flooring") {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
}

func TestService_NotifyLead_NoInbox(t *testing.T) {
	svc := NewService(&mockEmailSender{}, ServiceConfig{}, nil, nil)
	err := svc.NotifyLead(context.Background(), LeadEmail{Name: "Ravi"})
	if !errors.Is(err, ErrNoInbox) {
		t.Fatalf("expected ErrNoInbox, got %v", err)
	}
}

func TestService_NotifyLead_SenderError(t *testing.T) {
	sender := &mockEmailSender{err: errors.New("quota exceeded")}
	svc := NewService(sender, ServiceConfig{InboxEmail: "owner@hpsconstructions.in"}, nil, nil)
	if err := svc.NotifyLead(context.Background(), LeadEmail{Name: "Ravi"}); err == nil {
		t.Fatal("expected sender error to propagate")
	}
}
