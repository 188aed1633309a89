package feed

import (
	"errors"
	"fmt"
)

// Kind labels why a feed request failed.
type Kind string

const (
	KindFetchFailed  Kind = "fetch-failed"
	KindDecodeFailed Kind = "decode-failed"
	KindNotFound     Kind = "not-found"
)

// Error is returned by every feed source. Callers decide on fallbacks based on
// Kind, e.g. offering the offline capture loader after a fetch failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a feed *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// NewError builds a labeled feed error.
func NewError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}
