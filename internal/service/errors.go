package service

import (
	"errors"

	"github.com/finflow/finflow-server/internal/calendar"
	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/operator/actions"
	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a domain failure. Message is safe to show to the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, or fallback for internal errors.
func MessageOf(err error, fallback string) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) && serviceErr.Kind != KindInternal {
		return serviceErr.Message
	}
	return fallback
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

func invalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// classify turns errors from the layers below into domain errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var serviceErr *Error
	switch {
	case errors.As(err, &serviceErr):
		return err
	case errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidRange):
		return &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	case errors.Is(err, actions.ErrTransactionNotFound),
		errors.Is(err, actions.ErrCategoryNotFound):
		return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, sqlconfig.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: "not found", Err: err}
	case errors.Is(err, sqlconfig.ErrConflict):
		return &Error{Kind: KindConflict, Message: "conflicting change", Err: err}
	default:
		return &Error{Kind: KindInternal, Message: "internal error", Err: err}
	}
}
