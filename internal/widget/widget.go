// Package widget is the event-driven controller behind the booking screen:
// form submission shows the slot board, a slot pick books it, and an id
// typed into the cancel box cancels it.
package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	"github.com/wolfman30/clinic-booking-widget/internal/presenter"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

var (
	ErrMissingField  = errors.New("widget: required field missing")
	ErrUnknownDoctor = errors.New("widget: unknown doctor")
	ErrNoForm        = errors.New("widget: submit the form first")
	ErrNoSuchSlot    = errors.New("widget: no such slot")
)

// Form is the submitted selection form.
type Form struct {
	PatientName string
	Doctor      string
	Date        string
}

// Widget ties the booking service to its two on-screen projections.
type Widget struct {
	svc     *booking.Service
	ui      booking.Interaction
	list    *presenter.List
	board   *presenter.Board
	doctors []string
	logger  *logging.Logger

	form      Form
	submitted bool
}

// New wires the list and board to svc and renders the list from the
// already swept booking map.
func New(svc *booking.Service, ui booking.Interaction, doctors []string, logger *logging.Logger) *Widget {
	if svc == nil {
		panic("widget: booking service required")
	}
	if ui == nil {
		panic("widget: interaction required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	w := &Widget{
		svc:     svc,
		ui:      ui,
		list:    presenter.NewList(),
		board:   presenter.NewBoard(),
		doctors: doctors,
		logger:  logger,
	}
	w.list.Rebuild(svc.Appointments())
	svc.AddListener(w.list)
	svc.AddListener(w.board)
	return w
}

func (w *Widget) List() *presenter.List   { return w.list }
func (w *Widget) Board() *presenter.Board { return w.board }
func (w *Widget) Doctors() []string       { return append([]string(nil), w.doctors...) }

// Submit validates the form and rebuilds the slot board for its doctor and
// date.
func (w *Widget) Submit(form Form) error {
	form.PatientName = strings.TrimSpace(form.PatientName)
	form.Doctor = strings.TrimSpace(form.Doctor)
	form.Date = strings.TrimSpace(form.Date)

	switch {
	case form.PatientName == "":
		return fmt.Errorf("%w: patient name", ErrMissingField)
	case form.Doctor == "":
		return fmt.Errorf("%w: doctor", ErrMissingField)
	case form.Date == "":
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	if len(w.doctors) > 0 && !slices.Contains(w.doctors, form.Doctor) {
		return fmt.Errorf("%w: %q", ErrUnknownDoctor, form.Doctor)
	}
	if _, err := time.Parse(booking.DateLayout, form.Date); err != nil {
		return fmt.Errorf("%w: %q", booking.ErrInvalidDate, form.Date)
	}

	w.form = form
	w.submitted = true
	w.board.Show(form.Doctor, form.Date, w.svc.Availability(form.Doctor, form.Date))
	w.logger.Debug("slot board shown", "doctor", form.Doctor, "date", form.Date)
	return nil
}

// SelectSlot books the n-th slot on the board (1-based) for the submitted
// patient. Unselectable slots are refused without prompting.
func (w *Widget) SelectSlot(ctx context.Context, n int) (booking.Appointment, error) {
	if !w.submitted {
		return booking.Appointment{}, ErrNoForm
	}
	btn, ok := w.board.Button(n)
	if !ok {
		return booking.Appointment{}, fmt.Errorf("%w: %d", ErrNoSuchSlot, n)
	}
	if !btn.Selectable() {
		return booking.Appointment{}, fmt.Errorf("%w: %s", booking.ErrSlotUnavailable, btn.Label)
	}
	return w.svc.ConfirmBooking(ctx, w.ui, booking.Request{
		PatientName: w.form.PatientName,
		Doctor:      w.form.Doctor,
		Date:        w.form.Date,
		TimeSlot:    btn.Label,
	})
}

// Cancel cancels the appointment with id.
func (w *Widget) Cancel(ctx context.Context, id string) (booking.Appointment, error) {
	return w.svc.CancelBooking(ctx, w.ui, strings.TrimSpace(id))
}
