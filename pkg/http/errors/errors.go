package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents the standardized failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// RespondError writes a failure envelope with an explicit message.
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondStatus writes a failure envelope with the standard message for status.
func RespondStatus(w http.ResponseWriter, status int) {
	RespondError(w, status, MessageFor(status))
}

// RespondBadRequest writes a 400 envelope
func RespondBadRequest(w http.ResponseWriter) {
	RespondStatus(w, http.StatusBadRequest)
}

// RespondNotFound writes a 404 envelope
func RespondNotFound(w http.ResponseWriter) {
	RespondStatus(w, http.StatusNotFound)
}

// RespondMethodNotAllowed writes a 405 envelope
func RespondMethodNotAllowed(w http.ResponseWriter) {
	RespondStatus(w, http.StatusMethodNotAllowed)
}

// RespondUnprocessable writes a 422 envelope
func RespondUnprocessable(w http.ResponseWriter) {
	RespondStatus(w, http.StatusUnprocessableEntity)
}

// RespondInternalError writes a 500 envelope
func RespondInternalError(w http.ResponseWriter) {
	RespondStatus(w, http.StatusInternalServerError)
}
