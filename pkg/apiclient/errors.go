package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// genericFailure is the fallback message when the backend sends no usable
// error payload.
const genericFailure = "request failed"

// ErrMalformedResponse marks payloads that failed boundary validation.
var ErrMalformedResponse = errors.New("malformed backend response")

// APIError is a non-2xx backend response surfaced to the caller.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Backend-provided message, or "request failed"
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// newAPIError extracts the backend's error message from a failed response
// body. The backend sends {"error": "..."}; some endpoints use "message".
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := genericFailure
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			message = payload.Error
		case payload.Message != "":
			message = payload.Message
		}
	}
	return &APIError{Status: status, Message: message}
}
