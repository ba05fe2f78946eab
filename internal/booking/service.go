package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-booking-widget/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-widget/internal/slots"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

var bookingTracer = otel.Tracer("clinic.internal.booking")

// Request carries the form fields plus the chosen slot.
type Request struct {
	PatientName string `json:"patient_name"`
	Doctor      string `json:"doctor"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
}

// Service is the single owner of the booking map. Every operation holds the
// lock from start to finish, so mutations never interleave.
type Service struct {
	mu        sync.Mutex
	store     *Store
	bookings  *Map
	listeners []Listener
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	now       func() time.Time
	loc       *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone used to read appointment wall-clock times.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMetrics attaches booking counters.
func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithListener registers a projection to keep in step with the map.
func WithListener(l Listener) Option {
	return func(s *Service) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Open loads the persisted map, sweeps appointments that have already ended
// and returns a ready service. Load failures degrade to an empty map.
func Open(ctx context.Context, store *Store, logger *logging.Logger, opts ...Option) *Service {
	if store == nil {
		panic("booking: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	bookings, err := store.Load(ctx)
	if err != nil {
		s.metrics.ObserveSnapshotFailure("load")
	}
	s.bookings = bookings

	s.SweepExpired(ctx, s.now())
	return s
}

// AddListener registers a projection after construction.
func (s *Service) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Availability classifies the day's slots for doctor and date.
func (s *Service) Availability(doctor, date string) []slots.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slots.Classify(s.bookings, doctor, date)
}

// Appointments returns the current entries in map order.
func (s *Service) Appointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings.Appointments()
}

// Snapshot returns a copy of the booking map.
func (s *Service) Snapshot() *Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings.Clone()
}

// ConfirmBooking asks ui for confirmation, then records the appointment,
// persists the map and notifies listeners.
func (s *Service) ConfirmBooking(ctx context.Context, ui Interaction, req Request) (Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.confirm")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.doctor", req.Doctor),
		attribute.String("clinic.date", req.Date),
		attribute.String("clinic.time_slot", req.TimeSlot),
	)

	if ui == nil {
		ui = Decline{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.checkBookable(req)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("rejected")
		return Appointment{}, err
	}

	question := fmt.Sprintf("Confirm appointment on %s at %s with %s?", req.Date, req.TimeSlot, req.Doctor)
	if !ui.Confirm(question) {
		s.metrics.ObserveBooking("declined")
		return Appointment{}, ErrDeclined
	}

	appt := Appointment{
		PatientName:   req.PatientName,
		Doctor:        req.Doctor,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		AppointmentID: id,
	}
	s.bookings.Put(appt)
	s.persist(ctx, "confirm")

	s.logger.Info("booking confirmed",
		"doctor", appt.Doctor,
		"date", appt.Date,
		"slot", appt.TimeSlot,
		"appointment_id", appt.AppointmentID,
	)
	s.metrics.ObserveBooking("confirmed")
	ui.Notify("Appointment successfully confirmed: " + appt.AppointmentID)
	for _, l := range s.listeners {
		l.AppointmentBooked(appt)
	}
	return appt, nil
}

func (s *Service) checkBookable(req Request) (string, error) {
	if !slots.IsKnown(req.TimeSlot) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, req.TimeSlot)
	}
	id, err := AppointmentID(req.Date, req.TimeSlot)
	if err != nil {
		return "", err
	}
	if req.TimeSlot == slots.BlockedSlot {
		return "", fmt.Errorf("%w: %s is blocked", ErrSlotUnavailable, req.TimeSlot)
	}
	if s.bookings.IsBooked(req.Doctor, req.Date, req.TimeSlot) {
		return "", fmt.Errorf("%w: %s already booked", ErrSlotUnavailable, Key(req.Doctor, req.Date, req.TimeSlot))
	}
	return id, nil
}

// CancelBooking finds the first appointment with id, asks ui for
// confirmation, then removes it, persists the map and notifies listeners.
func (s *Service) CancelBooking(ctx context.Context, ui Interaction, id string) (Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	if ui == nil {
		ui = Decline{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key, appt, ok := s.bookings.FindByID(id)
	if !ok {
		s.metrics.ObserveCancellation("not_found")
		ui.Notify("Appointment ID not found")
		return Appointment{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	if !ui.Confirm(fmt.Sprintf("Cancel appointment ID: %s?", id)) {
		s.metrics.ObserveCancellation("declined")
		return Appointment{}, ErrDeclined
	}

	s.bookings.Delete(key)
	s.persist(ctx, "cancel")

	s.logger.Info("booking cancelled",
		"doctor", appt.Doctor,
		"date", appt.Date,
		"slot", appt.TimeSlot,
		"appointment_id", appt.AppointmentID,
	)
	s.metrics.ObserveCancellation("cancelled")
	ui.Notify(fmt.Sprintf("Appointment ID: %s cancelled", id))
	for _, l := range s.listeners {
		l.AppointmentCancelled(appt)
	}
	return appt, nil
}

// SweepExpired removes every appointment whose slot ended strictly before
// now and persists the map whether or not anything was removed. Entries
// whose end time cannot be parsed are kept. It returns the removed records.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) []Appointment {
	ctx, span := bookingTracer.Start(ctx, "booking.sweep")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []Appointment
	for _, key := range s.bookings.Keys() {
		appt, _ := s.bookings.Get(key)
		endsAt, err := appt.EndsAt(s.loc)
		if err != nil {
			s.logger.Debug("sweep skipped unparseable appointment", "key", key, "error", err)
			continue
		}
		if endsAt.Before(now) {
			s.bookings.Delete(key)
			removed = append(removed, appt)
		}
	}
	s.persist(ctx, "sweep")

	span.SetAttributes(attribute.Int("clinic.swept", len(removed)))
	s.metrics.ObserveSwept(len(removed))
	if len(removed) > 0 {
		s.logger.Info("expired bookings swept", "removed", len(removed), "remaining", s.bookings.Len())
	}
	for _, appt := range removed {
		for _, l := range s.listeners {
			l.AppointmentCancelled(appt)
		}
	}
	return removed
}

// persist writes the map through to the snapshot. A failed write is logged
// and counted; the in-memory map stays authoritative and the next successful
// save carries the full state.
func (s *Service) persist(ctx context.Context, op string) {
	s.metrics.SetActive(s.bookings.Len())
	if err := s.store.Save(ctx, s.bookings); err != nil {
		s.metrics.ObserveSnapshotFailure("save")
		s.logger.Error("failed to persist bookings", "op", op, "error", err)
	}
}
