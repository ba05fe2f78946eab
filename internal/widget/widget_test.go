package widget

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	"github.com/wolfman30/clinic-booking-widget/internal/presenter"
	"github.com/wolfman30/clinic-booking-widget/internal/prompt"
	"github.com/wolfman30/clinic-booking-widget/internal/snapshot"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

var doctors = []string{"dr-smith", "dr-jones"}

func openService(t *testing.T, blobs snapshot.BlobStore) *booking.Service {
	t.Helper()
	loc := time.FixedZone("clinic", 0)
	store := booking.NewStore(blobs, "appointments", logging.Discard())
	return booking.Open(context.Background(), store, logging.Discard(),
		booking.WithClock(func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, loc) }),
		booking.WithLocation(loc),
	)
}

func TestSubmitValidatesForm(t *testing.T) {
	w := New(openService(t, snapshot.NewMemoryStore()), &prompt.Scripted{}, doctors, logging.Discard())

	assert.ErrorIs(t, w.Submit(Form{Doctor: "dr-smith", Date: "2025-03-10"}), ErrMissingField)
	assert.ErrorIs(t, w.Submit(Form{PatientName: "Alice", Doctor: "dr-who", Date: "2025-03-10"}), ErrUnknownDoctor)
	assert.ErrorIs(t, w.Submit(Form{PatientName: "Alice", Doctor: "dr-smith", Date: "tomorrow"}), booking.ErrInvalidDate)

	_, err := w.SelectSlot(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoForm)

	require.NoError(t, w.Submit(Form{PatientName: " Alice ", Doctor: "dr-smith", Date: "2025-03-10"}))
	assert.Len(t, w.Board().Buttons(), 11)
}

func TestBookAndCancelKeepsProjectionsInSync(t *testing.T) {
	ui := &prompt.Scripted{Answers: []bool{true, true}}
	w := New(openService(t, snapshot.NewMemoryStore()), ui, doctors, logging.Discard())
	ctx := context.Background()

	require.NoError(t, w.Submit(Form{PatientName: "Alice", Doctor: "dr-smith", Date: "2025-03-10"}))
	appt, err := w.SelectSlot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "0910", appt.AppointmentID)
	assert.Equal(t, "Alice", appt.PatientName)

	btn, _ := w.Board().Button(1)
	assert.Equal(t, presenter.StateSelected, btn.State)
	require.Len(t, w.List().Entries(), 1)

	_, err = w.SelectSlot(ctx, 1)
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)
	_, err = w.SelectSlot(ctx, 5)
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable, "blocked slot")
	_, err = w.SelectSlot(ctx, 42)
	assert.ErrorIs(t, err, ErrNoSuchSlot)

	_, err = w.Cancel(ctx, " 0910 ")
	require.NoError(t, err)
	btn, _ = w.Board().Button(1)
	assert.Equal(t, presenter.StateAvailable, btn.State)
	assert.Empty(t, w.List().Entries())

	assert.Equal(t, []string{
		"Appointment successfully confirmed: 0910",
		"Appointment ID: 0910 cancelled",
	}, ui.Messages)
}

func TestNewRendersListFromPersistedMap(t *testing.T) {
	ctx := context.Background()
	blobs := snapshot.NewMemoryStore()
	require.NoError(t, blobs.Set(ctx, "appointments", `{
		"dr-jones-2025-03-12-2:00-2:50 PM":{"patientName":"Bob","doctor":"dr-jones","date":"2025-03-12","timeSlot":"2:00-2:50 PM","appointmentId":"0212"},
		"dr-smith-2025-02-01-9:00-9:50 AM":{"patientName":"Old","doctor":"dr-smith","date":"2025-02-01","timeSlot":"9:00-9:50 AM","appointmentId":"091"},
		"dr-smith-2025-03-10-9:00-9:50 AM":{"patientName":"Alice","doctor":"dr-smith","date":"2025-03-10","timeSlot":"9:00-9:50 AM","appointmentId":"0910"}
	}`))

	w := New(openService(t, blobs), &prompt.Scripted{}, doctors, logging.Discard())
	entries := w.List().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "0212", entries[0].ID, "map order, not chronological")
	assert.Equal(t, "0910", entries[1].ID)
}

type lines struct{ queue []string }

func (l *lines) Ask(string) (string, error) {
	if len(l.queue) == 0 {
		return "", io.EOF
	}
	next := l.queue[0]
	l.queue = l.queue[1:]
	return next, nil
}

func TestRunScriptedSession(t *testing.T) {
	var out bytes.Buffer
	ui := &prompt.Scripted{Answers: []bool{true, false}}
	w := New(openService(t, snapshot.NewMemoryStore()), ui, doctors, logging.Discard())

	in := &lines{queue: []string{
		"book", "Alice", "dr-smith", "2025-03-10",
		"pick 2",
		"cancel 1010",
		"cancel 9999",
		"pick x",
		"bogus",
		"list",
		"quit",
		"list",
	}}
	require.NoError(t, w.Run(context.Background(), in, &out))

	assert.Equal(t, []string{
		"Confirm appointment on 2025-03-10 at 10:00-10:50 AM with dr-smith?",
		"Cancel appointment ID: 1010?",
	}, ui.Questions)
	assert.Equal(t, []string{
		"Appointment successfully confirmed: 1010",
		"Appointment ID not found",
		"usage: pick <slot number>",
	}, ui.Messages)
	assert.Contains(t, out.String(), "Slots for dr-smith on 2025-03-10:")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	// rendered once after the pick and again for "list"; the declined cancel keeps it
	assert.Equal(t, 2, strings.Count(out.String(), "ID: 1010, Date: 2025-03-10, Time: 10:00-10:50 AM, Doctor: dr-smith"))
	assert.Equal(t, []string{"list"}, in.queue, "quit stops reading")
}

func TestRunStopsAtEOF(t *testing.T) {
	w := New(openService(t, snapshot.NewMemoryStore()), &prompt.Scripted{}, doctors, logging.Discard())
	assert.NoError(t, w.Run(context.Background(), &lines{}, io.Discard))
}

type blockingAsker struct{ release chan struct{} }

func (b *blockingAsker) Ask(string) (string, error) {
	<-b.release
	return "", io.EOF
}

func TestRunReturnsWhenCancelledWhileWaiting(t *testing.T) {
	w := New(openService(t, snapshot.NewMemoryStore()), &prompt.Scripted{}, doctors, logging.Discard())
	in := &blockingAsker{release: make(chan struct{})}
	t.Cleanup(func() { close(in.release) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, in, io.Discard) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFormAbandonedOnCancel(t *testing.T) {
	w := New(openService(t, snapshot.NewMemoryStore()), &prompt.Scripted{}, doctors, logging.Discard())
	in := &blockingAsker{release: make(chan struct{})}
	t.Cleanup(func() { close(in.release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.runForm(ctx, in, io.Discard)

	_, _, showing := w.Board().Showing()
	assert.False(t, showing)
}

func TestSweepKeepsListInStepWithCollidingIDs(t *testing.T) {
	ctx := context.Background()
	svc := openService(t, snapshot.NewMemoryStore())
	w := New(svc, &prompt.Scripted{}, doctors, logging.Discard())

	_, err := svc.ConfirmBooking(ctx, booking.Approve{}, booking.Request{PatientName: "Xena", Doctor: "dr-smith", Date: "2025-04-10", TimeSlot: "9:00-9:50 AM"})
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(ctx, booking.Approve{}, booking.Request{PatientName: "Yves", Doctor: "dr-jones", Date: "2025-03-10", TimeSlot: "9:00-9:50 AM"})
	require.NoError(t, err)

	removed := svc.SweepExpired(ctx, time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC))
	require.Len(t, removed, 1)

	entries := w.List().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, presenter.Entry{ID: "0910", Date: "2025-04-10", TimeSlot: "9:00-9:50 AM", Doctor: "dr-smith"}, entries[0])
}
