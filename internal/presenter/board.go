package presenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	"github.com/wolfman30/clinic-booking-widget/internal/slots"
)

// SlotState is the display state of one slot affordance.
type SlotState string

const (
	StateAvailable   SlotState = "available"
	StateUnavailable SlotState = "unavailable"
	StateSelected    SlotState = "selected"
)

// SlotButton is one rendered slot.
type SlotButton struct {
	Label string    `json:"time_slot"`
	State SlotState `json:"state"`
}

// Selectable reports whether the button accepts a click.
func (b SlotButton) Selectable() bool {
	return b.State == StateAvailable
}

// Board is the slot grid for the doctor and date last submitted on the form.
// Each Show rebuilds it from scratch.
type Board struct {
	mu      sync.Mutex
	doctor  string
	date    string
	buttons []SlotButton
}

func NewBoard() *Board {
	return &Board{}
}

// Show replaces the board with freshly classified slots.
func (b *Board) Show(doctor, date string, classified []slots.Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doctor, b.date = doctor, date
	b.buttons = make([]SlotButton, 0, len(classified))
	for _, s := range classified {
		state := StateAvailable
		if !s.Available {
			state = StateUnavailable
		}
		b.buttons = append(b.buttons, SlotButton{Label: s.Label, State: state})
	}
}

// Buttons returns a copy of the current buttons.
func (b *Board) Buttons() []SlotButton {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SlotButton(nil), b.buttons...)
}

// Button returns the n-th button, counting from 1 as shown on screen.
func (b *Board) Button(n int) (SlotButton, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 1 || n > len(b.buttons) {
		return SlotButton{}, false
	}
	return b.buttons[n-1], true
}

// Showing reports the doctor and date on display; ok is false before the
// first Show.
func (b *Board) Showing() (doctor, date string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doctor, b.date, b.buttons != nil
}

func (b *Board) setState(doctor, date, label string, state SlotState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if doctor != b.doctor || date != b.date {
		return
	}
	for i := range b.buttons {
		if b.buttons[i].Label == label {
			b.buttons[i].State = state
			return
		}
	}
}

// Render writes a numbered slot list.
func (b *Board) Render(w io.Writer) error {
	doctor, date, ok := b.Showing()
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Slots for %s on %s:\n", doctor, date); err != nil {
		return err
	}
	for i, btn := range b.Buttons() {
		if _, err := fmt.Fprintf(w, "  [%2d] %-15s %s\n", i+1, btn.Label, btn.State); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) AppointmentBooked(a booking.Appointment) {
	b.setState(a.Doctor, a.Date, a.TimeSlot, StateSelected)
}

func (b *Board) AppointmentCancelled(a booking.Appointment) {
	b.setState(a.Doctor, a.Date, a.TimeSlot, StateAvailable)
}
