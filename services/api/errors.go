package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized is in the chain of every 401 answer and of an expired session.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx answer from the reservation API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // server "message", empty when the body carried none
	Details    string // server "error" or flattened validation "errors"
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, msg, e.Details)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type errorPayload struct {
	Message string              `json:"message"`
	Error   json.RawMessage     `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// newError builds an *Error from a response body. Bodies that are not the
// usual {"message","error"} object are kept verbatim as Details.
func newError(method, path string, status int, body []byte) *Error {
	apiErr := &Error{Method: method, Path: path, StatusCode: status}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Details = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Message = payload.Message

	if len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil {
			apiErr.Details = s
		} else {
			apiErr.Details = string(payload.Error)
		}
	}

	if apiErr.Details == "" && len(payload.Errors) > 0 {
		fields := make([]string, 0, len(payload.Errors))
		for field := range payload.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, strings.Join(payload.Errors[field], " "))
		}
		apiErr.Details = strings.Join(parts, "; ")
	}
	return apiErr
}
