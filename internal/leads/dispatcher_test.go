package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/whatsapp"
)

type failingRepo struct{}

func (failingRepo) Append(context.Context, *Lead) error { return errors.New("db down") }

func (failingRepo) GetByID(context.Context, string) (*Lead, error) { return nil, ErrLeadNotFound }

func (failingRepo) List(context.Context, ListLeadsFilter) ([]*Lead, error) { return nil, nil }

type failingProfiles struct{}

func (failingProfiles) Record(context.Context, string, profile.Patch, profile.Outcome) (profile.ContactProfile, error) {
	return profile.ContactProfile{}, profile.ErrClosed
}

func testComposer() *whatsapp.Composer {
	return whatsapp.NewComposer("919565550142", "919555633827", "HPS Constructions", time.UTC, nil)
}

func TestDispatch_DetachedFromCallerCancellation(t *testing.T) {
	email := &fakeEmail{}
	d := NewDispatcher(DispatcherConfig{Email: email, WhatsApp: testComposer()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := d.Dispatch(ctx, Request{Event: Event{Interaction: InteractionFormSubmit, Name: "Ravi", Phone: "9876543210"}, WhatsApp: true})

	assert.Equal(t, StatusSent, res.Status)
	assert.NoError(t, email.ctxErr)
	assert.NotNil(t, res.WhatsApp)
}

func TestDispatch_ChannelFailuresAreIndependent(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	rel := &fakeRelay{err: errors.New("relay down")}
	d := NewDispatcher(DispatcherConfig{
		Email:    email,
		WhatsApp: testComposer(),
		Relay:    rel,
		Profiles: failingProfiles{},
		Repo:     failingRepo{},
	})

	patch := profile.Patch{}
	res := d.Dispatch(context.Background(), Request{
		Event:    Event{SessionID: "s1", Interaction: InteractionFormSubmit, Name: "Ravi", Phone: "9876543210"},
		WhatsApp: true,
		Patch:    &patch,
	})

	assert.Equal(t, StatusPartial, res.Status)
	assert.Empty(t, res.LeadID)
	require.NotNil(t, res.WhatsApp)
	assert.Equal(t, 1, rel.calls())

	byChannel := map[string]ChannelOutcome{}
	for _, o := range res.Outcomes {
		byChannel[o.Channel] = o
	}
	assert.False(t, byChannel[ChannelEmail].OK)
	assert.True(t, byChannel[ChannelWhatsApp].OK)
	assert.False(t, byChannel[ChannelRelay].OK)
	assert.False(t, byChannel[ChannelProfile].OK)
}

func TestDispatch_NoEmailSenderWithoutWhatsAppFails(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Repo: NewInMemoryRepository()})

	res := d.Dispatch(context.Background(), Request{Event: Event{Interaction: InteractionCallbackRequest}})

	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Email.Error, "not configured")
	assert.NotEmpty(t, res.LeadID)
}

func TestDispatch_StampsSubmissionTime(t *testing.T) {
	email := &fakeEmail{}
	d := NewDispatcher(DispatcherConfig{Email: email})
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return at }

	d.Dispatch(context.Background(), Request{Event: Event{Interaction: InteractionFormSubmit}})

	require.Equal(t, 1, email.calls())
	assert.True(t, at.Equal(email.sent[0].SubmittedAt))
}
