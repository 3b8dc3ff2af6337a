package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// money goes over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindReference
	KindNotFound
	KindConstraint
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReference:
		return "reference"
	case KindNotFound:
		return "not found"
	case KindConstraint:
		return "constraint violation"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error carries a kind, the operation it happened in and a message that is
// safe to show to API clients. Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrReference   = &Error{Kind: KindReference}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConstraint  = &Error{Kind: KindConstraint}
	ErrUnavailable = &Error{Kind: KindUnavailable}
)

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Kind != KindInternal {
			return e.Kind.String()
		}
	}
	return "internal server error"
}

// WithOp decorates err with the operation it surfaced from, keeping its kind and message.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" && e == err {
			return &Error{Kind: e.Kind, Op: op, Message: e.Message, Err: e.Err}
		}
		return &Error{Kind: e.Kind, Op: op, Message: e.Message, Err: err}
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}
