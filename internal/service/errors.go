package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
	ErrTransient  = errors.New("transient")  // 503
)

// Error is a domain failure with a message safe to show to API clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound error with msg and
// leaves any other error untouched.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newErr(ErrNotFound, "%s", msg)
	}
	return err
}

// txErr passes domain errors through and marks anything else coming out of
// a transaction as a transient failure.
func txErr(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
