package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestInteraction answers the booking confirmation gate from the
// request's confirm flag and collects the acknowledgements for the response.
type requestInteraction struct {
	confirmed bool
	messages  []string
}

func (r *requestInteraction) Confirm(string) bool {
	return r.confirmed
}

func (r *requestInteraction) Notify(message string) {
	r.messages = append(r.messages, message)
}

func (r *requestInteraction) message() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
