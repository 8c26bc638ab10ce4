package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNoPayload is returned when a request body is empty or not a JSON object
var ErrNoPayload = errors.New("no payload provided")

// MissingFieldError reports the first required field absent from a payload
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidFieldError reports a present required field whose value cannot be used
type InvalidFieldError struct {
	Field string
	Cause error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for field %s", e.Field)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err should be answered with 400
func IsValidationError(err error) bool {
	var missing *MissingFieldError
	var invalid *InvalidFieldError
	return errors.Is(err, ErrNoPayload) || errors.As(err, &missing) || errors.As(err, &invalid)
}

// FailureKind classifies why one candidate attempt failed
type FailureKind string

const (
	FailureStatus      FailureKind = "status"      // upstream answered with a non-200
	FailureEmpty       FailureKind = "empty"       // 200 with no usable choice
	FailureMalformed   FailureKind = "malformed"   // 200 with an undecodable body
	FailureTimeout     FailureKind = "timeout"     // deadline hit before a response
	FailureUnreachable FailureKind = "unreachable" // connection could not be made
	FailureCircuitOpen FailureKind = "circuit_open"
	FailureOther       FailureKind = "other"
)

// AttemptFailure records one soft failure inside the fallback chain
type AttemptFailure struct {
	Model      string
	Kind       FailureKind
	StatusCode int
	Err        error
}

// Summary is safe to return to clients: no bodies, headers or credentials
func (f AttemptFailure) Summary() string {
	switch f.Kind {
	case FailureStatus:
		return fmt.Sprintf("%s: upstream status %d", f.Model, f.StatusCode)
	case FailureEmpty:
		return fmt.Sprintf("%s: empty response", f.Model)
	case FailureMalformed:
		return fmt.Sprintf("%s: malformed response", f.Model)
	case FailureTimeout:
		return fmt.Sprintf("%s: timed out", f.Model)
	case FailureUnreachable:
		return fmt.Sprintf("%s: unreachable", f.Model)
	case FailureCircuitOpen:
		return fmt.Sprintf("%s: circuit open", f.Model)
	default:
		return fmt.Sprintf("%s: request failed", f.Model)
	}
}

// ExhaustedError is returned once every candidate model has soft-failed
type ExhaustedError struct {
	Failures []AttemptFailure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Summary())
	}
	return fmt.Sprintf("all %d candidate models failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Last returns the final failure of the chain
func (e *ExhaustedError) Last() (AttemptFailure, bool) {
	if len(e.Failures) == 0 {
		return AttemptFailure{}, false
	}
	return e.Failures[len(e.Failures)-1], true
}

// Kind is FailureTimeout or FailureUnreachable when every attempt failed for
// that reason, FailureOther otherwise.
func (e *ExhaustedError) Kind() FailureKind {
	if len(e.Failures) == 0 {
		return FailureOther
	}
	kind := e.Failures[0].Kind
	for _, f := range e.Failures[1:] {
		if f.Kind != kind {
			return FailureOther
		}
	}
	if kind == FailureTimeout || kind == FailureUnreachable {
		return kind
	}
	return FailureOther
}

// UpstreamStatusError is returned by providers on a non-200 answer
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// ErrEmptyCompletion is returned when a 200 response carries no usable text
var ErrEmptyCompletion = errors.New("completion response has no choices")

// ErrMalformedCompletion is returned when a 200 response cannot be decoded
var ErrMalformedCompletion = errors.New("completion response is malformed")

// RenderError wraps any chart rendering failure
type RenderError struct {
	Reason string
	Cause  error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chart rendering failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("chart rendering failed: %s", e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// PersistenceError wraps store failures during save or listing
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("prediction store %s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// classifyFailure maps a provider error onto an AttemptFailure
func classifyFailure(model string, err error) AttemptFailure {
	failure := AttemptFailure{Model: model, Kind: FailureOther, Err: err}

	var statusErr *UpstreamStatusError
	var netErr net.Error
	var opErr *net.OpError

	switch {
	case errors.As(err, &statusErr):
		failure.Kind = FailureStatus
		failure.StatusCode = statusErr.StatusCode
	case errors.Is(err, ErrEmptyCompletion):
		failure.Kind = FailureEmpty
	case errors.Is(err, ErrMalformedCompletion):
		failure.Kind = FailureMalformed
	case errors.Is(err, ErrCircuitOpen):
		failure.Kind = FailureCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		failure.Kind = FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		failure.Kind = FailureTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial":
		failure.Kind = FailureUnreachable
	}

	return failure
}
