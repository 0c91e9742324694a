package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels for session-level failures.
var (
	// ErrAuthExpired means a previously valid session was rejected mid-use.
	// Recovering requires a full re-authentication, not a retry.
	ErrAuthExpired = errors.New("session expired")

	// ErrNotAuthenticated means an operation that needs a session was
	// attempted without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSuperseded means a submission finished after a newer one was
	// issued; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer submission")
)

// FieldViolations maps a field name to the constraint it violated. It is
// resolved locally and never reaches the network.
type FieldViolations map[string]string

func (v FieldViolations) Error() string {
	fields := make([]string, 0, len(v))
	for name := range v {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, name := range fields {
		parts = append(parts, name+": "+v[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// AuthError is a rejected login or signup. The user can correct the
// credentials and retry.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Detail
}

// ValidationError is a non-auth 4xx from the backend, carrying its detail
// message.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "request rejected: " + e.Detail
}

// TransportError is a network failure, timeout or unclassified server
// failure. Retryable only by explicit resubmission.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ScoringError means the backend accepted the request but could not produce
// a result. The detail is surfaced verbatim.
type ScoringError struct {
	Detail string
}

func (e *ScoringError) Error() string {
	return "scoring failed: " + e.Detail
}
