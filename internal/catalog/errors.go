package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog client failures.
type ErrorKind int

const (
	ErrRequest ErrorKind = iota
	ErrStatus
	ErrDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRequest:
		return "Request"
	case ErrStatus:
		return "Status"
	case ErrDecode:
		return "Decode"
	default:
		return "Unknown"
	}
}

var ErrNotFound = errors.New("not found")

// Error is returned by every Client call that fails.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%s] %s (HTTP %d): %v", e.Kind, e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
