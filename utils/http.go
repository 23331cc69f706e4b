package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with the given body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteBadRequest writes a 400 Bad Request response with error details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     "bad_request",
		Message:   message,
		Details:   details,
		Timestamp: Timestamp(),
	})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteJSON(w, http.StatusNotFound, ErrorResponse{
		Error:     "not_found",
		Message:   message,
		Timestamp: Timestamp(),
	})
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:     "internal_error",
		Message:   message,
		Timestamp: Timestamp(),
	})
}

// WriteError writes an error response with an explicit error key
func WriteError(w http.ResponseWriter, status int, errorKey, message string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Error:     errorKey,
		Message:   message,
		Details:   details,
		Timestamp: Timestamp(),
	})
}

// Timestamp returns the current UTC time in RFC3339 format
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
