// Package presenter keeps the human-readable projections of the booking map:
// the appointment list and the slot board for the current form selection.
package presenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
)

// Entry is one rendered line of the appointment list.
type Entry struct {
	ID       string `json:"appointment_id"`
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Doctor   string `json:"doctor"`
}

func (e Entry) String() string {
	return fmt.Sprintf("ID: %s, Date: %s, Time: %s, Doctor: %s", e.ID, e.Date, e.TimeSlot, e.Doctor)
}

func entryFor(a booking.Appointment) Entry {
	return Entry{ID: a.AppointmentID, Date: a.Date, TimeSlot: a.TimeSlot, Doctor: a.Doctor}
}

// List mirrors the booking map one entry per appointment. It is updated
// incrementally through the booking.Listener hooks.
type List struct {
	mu      sync.Mutex
	entries []Entry
}

func NewList() *List {
	return &List{}
}

// Rebuild replaces the list with apps in the given order.
func (l *List) Rebuild(apps []booking.Appointment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
	for _, a := range apps {
		l.entries = append(l.entries, entryFor(a))
	}
}

// Append adds one entry at the end.
func (l *List) Append(a booking.Appointment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entryFor(a))
}

// Remove drops the first entry showing id and reports whether one was found.
func (l *List) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAppointment drops the entry for a, matching every shown field, and
// reports whether one was found.
func (l *List) RemoveAppointment(a booking.Appointment) bool {
	want := entryFor(a)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e == want {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the current entries.
func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Render writes one line per entry.
func (l *List) Render(w io.Writer) error {
	entries := l.Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No appointments booked.")
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) AppointmentBooked(a booking.Appointment) {
	l.Append(a)
}

func (l *List) AppointmentCancelled(a booking.Appointment) {
	l.RemoveAppointment(a)
}
