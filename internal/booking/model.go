// Package booking owns the booking map, its persisted snapshot and the
// confirm, cancel and expiry operations that mutate it.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/clinic-booking-widget/internal/slots"
)

// DateLayout is the calendar date format used in keys and snapshots.
const DateLayout = "2006-01-02"

var (
	ErrNotFound        = errors.New("booking: appointment id not found")
	ErrDeclined        = errors.New("booking: declined by user")
	ErrSlotUnavailable = errors.New("booking: slot unavailable")
	ErrInvalidDate     = errors.New("booking: invalid date")
	ErrUnknownSlot     = errors.New("booking: unknown slot")
)

// Appointment is the persisted booking record. JSON names match the
// snapshot format written by earlier versions of the widget.
type Appointment struct {
	PatientName   string `json:"patientName"`
	Doctor        string `json:"doctor"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	AppointmentID string `json:"appointmentId"`
}

// Key returns the composite doctor-date-slot key of the appointment.
func (a Appointment) Key() string {
	return Key(a.Doctor, a.Date, a.TimeSlot)
}

// Key joins doctor, date and slot with "-".
func Key(doctor, date, slot string) string {
	return doctor + "-" + date + "-" + slot
}

// AppointmentID derives the display id: the slot's start hour padded to two
// digits followed by the unpadded day of month. Two bookings on the same day
// and hour share an id.
func AppointmentID(date, slot string) (string, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	hour, err := slots.StartHour(slot)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownSlot, err)
	}
	if len(hour) < 2 {
		hour = strings.Repeat("0", 2-len(hour)) + hour
	}
	return hour + strconv.Itoa(day.Day()), nil
}

// EndsAt parses the appointment's date and slot end time as wall-clock time
// in loc.
func (a Appointment) EndsAt(loc *time.Location) (time.Time, error) {
	end, err := slots.EndTime(a.TimeSlot)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation(DateLayout+" 3:04 PM", a.Date+" "+end, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking: parse end time: %w", err)
	}
	return ts, nil
}
