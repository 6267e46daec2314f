// Package response defines the tagged result envelope returned by all
// domain operations. Operations never leak Go errors across their boundary;
// faults are folded into an ERROR result carrying human-readable messages.
package response

import (
	"fmt"
	"net/http"
)

// Status tags the outcome of a domain operation.
type Status string

const (
	StatusOK           Status = "OK"
	StatusError        Status = "ERROR"
	StatusNotFound     Status = "NOT_FOUND"
	StatusUnauthorized Status = "UNAUTHORIZED"
)

// Message carries a single human-readable error description.
type Message struct {
	Message string `json:"message"`
}

// Response is the tagged envelope for an operation returning a T payload.
// Status is always set; Payload is meaningful only when Status is OK,
// and Errors only otherwise.
type Response[T any] struct {
	Status  Status    `json:"status"`
	Payload T         `json:"response,omitzero"`
	Errors  []Message `json:"errors,omitempty"`
}

// OK wraps a payload in a successful response.
func OK[T any](payload T) Response[T] {
	return Response[T]{Status: StatusOK, Payload: payload}
}

// Error creates an ERROR response from one or more messages.
func Error[T any](messages ...string) Response[T] {
	return tagged[T](StatusError, messages)
}

// Errorf creates an ERROR response with a single formatted message.
func Errorf[T any](format string, args ...any) Response[T] {
	return Error[T](fmt.Sprintf(format, args...))
}

// NotFound creates a NOT_FOUND response from one or more messages.
func NotFound[T any](messages ...string) Response[T] {
	return tagged[T](StatusNotFound, messages)
}

// Unauthorized creates an UNAUTHORIZED response from one or more messages.
func Unauthorized[T any](messages ...string) Response[T] {
	return tagged[T](StatusUnauthorized, messages)
}

// Propagate carries a non-OK status and its messages into a response of a
// different payload type. Used when a gate operation fails and the caller
// returns a differently-typed envelope.
func Propagate[T, U any](from Response[U]) Response[T] {
	return Response[T]{Status: from.Status, Errors: from.Errors}
}

// OK reports whether the response carries a successful payload.
func (r Response[T]) OK() bool {
	return r.Status == StatusOK
}

// Messages flattens the error entries into plain strings.
func (r Response[T]) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// HTTPStatus maps a result status to the HTTP status code used when the
// envelope is served directly.
func HTTPStatus(s Status) int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusNotFound:
		return http.StatusNotFound
	case StatusUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}

func tagged[T any](status Status, messages []string) Response[T] {
	errs := make([]Message, len(messages))
	for i, m := range messages {
		errs[i] = Message{Message: m}
	}
	return Response[T]{Status: status, Errors: errs}
}
