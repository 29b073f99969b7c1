// Package httperr maps application failures to JSON error responses.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Error is an error that knows its HTTP status and client-facing message.
// Message and Fields are safe to show to the client; Cause is not.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation builds a 400 with one message per offending field.
func Validation(err error) *Error {
	fields := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for k, v := range verrs {
			if v != nil {
				fields[k] = v.Error()
			}
		}
	}
	return &Error{Status: http.StatusBadRequest, Message: "validation failed", Fields: fields, Cause: err}
}

// BadRequest is a 400 with a single message, used for unreadable bodies.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized never says why.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "unauthorized"}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Conflict is reported as 400 to match the registration contract.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Cause: cause}
}

type body struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Write renders err. Anything that is not an *Error becomes a generic 500.
func Write(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	WriteJSON(w, e.Status, body{Message: e.Message, Errors: e.Fields})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
