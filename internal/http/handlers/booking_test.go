package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	"github.com/wolfman30/clinic-booking-widget/internal/snapshot"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *booking.Service) {
	t.Helper()
	loc := time.FixedZone("clinic", 0)
	store := booking.NewStore(snapshot.NewMemoryStore(), "appointments", logging.Discard())
	svc := booking.Open(context.Background(), store, logging.Discard(),
		booking.WithClock(func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, loc) }),
		booking.WithLocation(loc),
	)
	h := NewBookingHandler(svc, []string{"dr-smith", "dr-jones"}, logging.Discard())

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/doctors", h.ListDoctors)
	r.Get("/slots", h.Slots)
	r.Get("/appointments", h.ListAppointments)
	r.Post("/appointments", h.CreateAppointment)
	r.Delete("/appointments/{appointmentID}", h.CancelAppointment)
	return r, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const aliceBody = `{"patient_name":"Alice","doctor":"dr-smith","date":"2025-03-10","time_slot":"9:00-9:50 AM","confirm":true}`

func TestHealthAndDoctors(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/doctors", "")
	assert.JSONEq(t, `{"doctors":["dr-smith","dr-jones"]}`, rec.Body.String())
}

func TestSlotsValidatesAndClassifies(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/slots?doctor=dr-smith", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/slots?doctor=dr-who&date=2025-03-10", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/slots?doctor=dr-smith&date=10-03-2025", "").Code)

	rec := do(t, r, http.MethodGet, "/slots?doctor=dr-smith&date=2025-03-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 11)
	assert.True(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[4].Available)
	assert.True(t, resp.Slots[4].Blocked)
}

func TestCreateAndCancelAppointment(t *testing.T) {
	r, svc := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/appointments", aliceBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "0910", created.Appointment.AppointmentID)
	assert.Equal(t, "Appointment successfully confirmed: 0910", created.Message)

	rec = do(t, r, http.MethodPost, "/appointments", aliceBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodGet, "/appointments", "")
	var list ListAppointmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = do(t, r, http.MethodDelete, "/appointments/0910", "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "missing confirm declines")
	assert.Equal(t, 1, svc.Snapshot().Len())

	rec = do(t, r, http.MethodDelete, "/appointments/0910?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, "Alice", cancelled.Appointment.PatientName)
	assert.Equal(t, "Appointment ID: 0910 cancelled", cancelled.Message)
	assert.Equal(t, 0, svc.Snapshot().Len())
}

func TestCancelUnknownAppointment(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodDelete, "/appointments/9999?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Appointment ID not found"}`, rec.Body.String())
}

func TestCreateAppointmentErrors(t *testing.T) {
	r, svc := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing name", `{"doctor":"dr-smith","date":"2025-03-10","time_slot":"9:00-9:50 AM","confirm":true}`, http.StatusBadRequest},
		{"unknown doctor", `{"patient_name":"A","doctor":"dr-who","date":"2025-03-10","time_slot":"9:00-9:50 AM","confirm":true}`, http.StatusBadRequest},
		{"blocked slot", `{"patient_name":"A","doctor":"dr-smith","date":"2025-03-10","time_slot":"1:00-1:50 PM","confirm":true}`, http.StatusConflict},
		{"unknown slot", `{"patient_name":"A","doctor":"dr-smith","date":"2025-03-10","time_slot":"8:00-8:50 PM","confirm":true}`, http.StatusUnprocessableEntity},
		{"declined", `{"patient_name":"A","doctor":"dr-smith","date":"2025-03-10","time_slot":"9:00-9:50 AM","confirm":false}`, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/appointments", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 0, svc.Snapshot().Len())
}

func TestRequestInteraction(t *testing.T) {
	ui := &requestInteraction{confirmed: true}
	assert.True(t, ui.Confirm("anything"))
	assert.Equal(t, "", ui.message())
	ui.Notify("first")
	ui.Notify("second")
	assert.Equal(t, "second", ui.message())
}

func TestListDoctorsWithoutConfiguredDoctors(t *testing.T) {
	_, svc := newTestRouter(t)
	h := NewBookingHandler(svc, nil, logging.Discard())

	rec := httptest.NewRecorder()
	h.ListDoctors(rec, httptest.NewRequest(http.MethodGet, "/doctors", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"doctors":[]}`, rec.Body.String())
}
