package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthorizationRequired is returned before any store call when no user id is supplied.
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrProjectRequired       = errors.New("project is required to add an expense")
	ErrProjectNotFound       = errors.New("project not found")
)

// ValidationError carries one message per rejected field, keyed by the domain field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RemoteError wraps any store-reported failure. The underlying driver error stays reachable
// through errors.As.
type RemoteError struct {
	Op   string
	Err  error
	code string
}

// NewRemoteError wraps err for op, recording the SQLSTATE code when the driver reported one.
func NewRemoteError(op, code string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err, code: code}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Code is the SQLSTATE reported by the store, or "" for connectivity failures.
func (e *RemoteError) Code() string { return e.code }

const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNumericOutOfRange   = "22003"
)
