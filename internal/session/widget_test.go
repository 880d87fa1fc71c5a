package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestWidget_AutoOpensOnceAfterDelay(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)

	v := w.View(s, at(3900*time.Millisecond))
	assert.False(t, v.ModalOpen)
	assert.False(t, v.FloatingVisible)
	require.NotNil(t, v.NextChangeAt)
	assert.Equal(t, at(4*time.Second), *v.NextChangeAt)

	v = w.View(s, at(4*time.Second))
	assert.True(t, v.ModalOpen)
	assert.True(t, v.Welcome)

	require.NoError(t, w.Apply(&s, EventClose, at(10*time.Second)))
	v = w.View(s, at(100*time.Second))
	assert.False(t, v.ModalOpen, "auto-open fires once per session")
	assert.True(t, v.FloatingVisible)
}

func TestWidget_FloatingPromptAfterManualClose(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	require.NoError(t, w.Apply(&s, EventClose, at(10*time.Second)))

	v := w.View(s, at(12*time.Second))
	assert.False(t, v.FloatingVisible)
	require.NotNil(t, v.NextChangeAt)
	assert.Equal(t, at(13*time.Second), *v.NextChangeAt)

	v = w.View(s, at(13*time.Second))
	assert.True(t, v.FloatingVisible)
	assert.Nil(t, v.NextChangeAt)
}

func TestWidget_SubmitClosesThenFloatingReturns(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	w.MarkSubmitted(&s, at(25*time.Second))

	v := w.View(s, at(27900*time.Millisecond))
	assert.True(t, v.ModalOpen, "modal stays open to show the toast")

	v = w.View(s, at(28*time.Second))
	assert.False(t, v.ModalOpen)
	assert.False(t, v.FloatingVisible)
	require.NotNil(t, v.NextChangeAt)
	assert.Equal(t, at(36*time.Second), *v.NextChangeAt)

	v = w.View(s, at(36*time.Second))
	assert.True(t, v.FloatingVisible)
}

func TestWidget_FloatingClickReopens(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	require.NoError(t, w.Apply(&s, EventClose, at(5*time.Second)))
	require.NoError(t, w.Apply(&s, EventOpen, at(20*time.Second)))

	v := w.View(s, at(21*time.Second))
	assert.True(t, v.ModalOpen)
	assert.False(t, v.FloatingVisible)
}

func TestWidget_ManualOpenBeforeTimerCountsAsAutoOpen(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	require.NoError(t, w.Apply(&s, EventOpen, at(time.Second)))
	require.NoError(t, w.Apply(&s, EventClose, at(2*time.Second)))

	v := w.View(s, at(4*time.Second))
	assert.False(t, v.ModalOpen)
}

func TestWidget_FocusReopenDisabledByDefault(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	require.NoError(t, w.Apply(&s, EventClose, at(10*time.Second)))
	require.NoError(t, w.Apply(&s, EventFocus, at(11*time.Second)))

	v := w.View(s, at(20*time.Second))
	assert.False(t, v.ModalOpen)
	assert.True(t, v.FloatingVisible)
}

func TestWidget_FocusReopenWhenEnabled(t *testing.T) {
	timing := DefaultTiming()
	timing.ReopenOnFocus = true
	w := NewWidget(timing)
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	require.NoError(t, w.Apply(&s, EventClose, at(10*time.Second)))
	require.NoError(t, w.Apply(&s, EventFocus, at(11*time.Second)))

	v := w.View(s, at(12*time.Second))
	assert.False(t, v.ModalOpen)
	v = w.View(s, at(12500*time.Millisecond))
	assert.True(t, v.ModalOpen)
}

func TestWidget_UnknownEvent(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	assert.ErrorIs(t, w.Apply(&s, "wiggle", t0), ErrUnknownEvent)
}

func TestWidget_FloatingClickAfterSubmitReopensAndStaysOpen(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	w.MarkSubmitted(&s, at(10*time.Second))

	v := w.View(s, at(30*time.Second))
	require.False(t, v.ModalOpen)
	require.True(t, v.FloatingVisible)

	require.NoError(t, w.Apply(&s, EventOpen, at(40*time.Second)))
	v = w.View(s, at(40*time.Second))
	assert.True(t, v.ModalOpen)
	assert.False(t, v.FloatingVisible)
	assert.Nil(t, v.NextChangeAt)

	v = w.View(s, at(10*time.Minute))
	assert.True(t, v.ModalOpen, "reopened modal stays open until the visitor closes it")
}

func TestWidget_FocusReopenAfterSubmitStaysOpen(t *testing.T) {
	timing := DefaultTiming()
	timing.ReopenOnFocus = true
	w := NewWidget(timing)
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	w.MarkSubmitted(&s, at(10*time.Second))
	require.NoError(t, w.Apply(&s, EventFocus, at(30*time.Second)))

	v := w.View(s, at(time.Minute))
	assert.True(t, v.ModalOpen)
}

func TestWidget_ManualCloseCancelsPendingSubmitClose(t *testing.T) {
	w := NewWidget(DefaultTiming())
	s := New("s1", t0)
	w.Advance(&s, at(4*time.Second))
	w.MarkSubmitted(&s, at(10*time.Second))
	require.NoError(t, w.Apply(&s, EventClose, at(11*time.Second)))
	require.NoError(t, w.Apply(&s, EventOpen, at(12*time.Second)))

	v := w.View(s, at(20*time.Second))
	assert.True(t, v.ModalOpen)
	assert.Nil(t, s.SubmitCloseAt)
}
