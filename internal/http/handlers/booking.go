package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	"github.com/wolfman30/clinic-booking-widget/internal/slots"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

// BookingHandler serves the booking widget over JSON.
type BookingHandler struct {
	svc     *booking.Service
	doctors []string
	logger  *logging.Logger
}

// NewBookingHandler creates a handler. An empty doctors list accepts any doctor.
func NewBookingHandler(svc *booking.Service, doctors []string, logger *logging.Logger) *BookingHandler {
	if svc == nil {
		panic("handlers: booking service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{svc: svc, doctors: doctors, logger: logger}
}

// AppointmentResponse is the wire form of an appointment.
type AppointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
	Doctor        string `json:"doctor"`
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
}

func toResponse(a booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		AppointmentID: a.AppointmentID,
		PatientName:   a.PatientName,
		Doctor:        a.Doctor,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
	}
}

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	PatientName string `json:"patient_name"`
	Doctor      string `json:"doctor"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	Confirm     bool   `json:"confirm"`
}

// MutationResponse reports the outcome of a booking or cancellation.
type MutationResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Message     string              `json:"message"`
}

// SlotsResponse is the classified schedule for one doctor and date.
type SlotsResponse struct {
	Doctor string       `json:"doctor"`
	Date   string       `json:"date"`
	Slots  []slots.Slot `json:"slots"`
}

// ListAppointmentsResponse lists appointments in booking map order.
type ListAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

// HealthCheck handles GET /health.
func (h *BookingHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListDoctors handles GET /doctors.
func (h *BookingHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors := h.doctors
	if doctors == nil {
		doctors = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"doctors": doctors})
}

// Slots handles GET /slots?doctor=&date=.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	doctor := strings.TrimSpace(r.URL.Query().Get("doctor"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if msg := h.validateSelection(doctor, date); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, SlotsResponse{
		Doctor: doctor,
		Date:   date,
		Slots:  h.svc.Availability(doctor, date),
	})
}

// ListAppointments handles GET /appointments.
func (h *BookingHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	apps := h.svc.Appointments()
	resp := ListAppointmentsResponse{
		Appointments: make([]AppointmentResponse, 0, len(apps)),
		Count:        len(apps),
	}
	for _, a := range apps {
		resp.Appointments = append(resp.Appointments, toResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateAppointment handles POST /appointments. confirm=false declines and
// answers 204 without touching state.
func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.Date = strings.TrimSpace(req.Date)
	if req.PatientName == "" {
		jsonError(w, "patient_name is required", http.StatusBadRequest)
		return
	}
	if msg := h.validateSelection(req.Doctor, req.Date); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	ui := &requestInteraction{confirmed: req.Confirm}
	appt, err := h.svc.ConfirmBooking(r.Context(), ui, booking.Request{
		PatientName: req.PatientName,
		Doctor:      req.Doctor,
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
	})
	if err != nil {
		h.writeBookingError(w, err, ui)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Appointment: toResponse(appt), Message: ui.message()})
}

// CancelAppointment handles DELETE /appointments/{appointmentID}?confirm=true.
func (h *BookingHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "appointmentID"))
	if id == "" {
		jsonError(w, "missing appointment id", http.StatusBadRequest)
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	ui := &requestInteraction{confirmed: confirmed}
	appt, err := h.svc.CancelBooking(r.Context(), ui, id)
	if err != nil {
		h.writeBookingError(w, err, ui)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Appointment: toResponse(appt), Message: ui.message()})
}

func (h *BookingHandler) validateSelection(doctor, date string) string {
	if doctor == "" || date == "" {
		return "doctor and date are required"
	}
	if len(h.doctors) > 0 && !slices.Contains(h.doctors, doctor) {
		return "unknown doctor"
	}
	if _, err := time.Parse(booking.DateLayout, date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	return ""
}

func (h *BookingHandler) writeBookingError(w http.ResponseWriter, err error, ui *requestInteraction) {
	switch {
	case errors.Is(err, booking.ErrDeclined):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, booking.ErrNotFound):
		jsonError(w, ui.message(), http.StatusNotFound)
	case errors.Is(err, booking.ErrSlotUnavailable):
		jsonError(w, "time slot unavailable", http.StatusConflict)
	case errors.Is(err, booking.ErrUnknownSlot), errors.Is(err, booking.ErrInvalidDate):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("booking request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
