package ragapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// unknownError is shown when a failed response carries no error field.
const unknownError = "Unknown error"

// APIError is a completed call whose status signals failure.
type APIError struct {
	Op         string
	StatusCode int
	Message    string // Server-supplied error field
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return unknownError
	}
	return e.Message
}

// TransportError is a call that could not complete, or whose body could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError is a call that exceeded the client's request deadline.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

// newAPIError builds an APIError from a failed response body.
func newAPIError(op string, status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	// Non-JSON error bodies fall back to the generic label.
	_ = json.Unmarshal(body, &payload)
	return &APIError{Op: op, StatusCode: status, Message: payload.Error}
}
