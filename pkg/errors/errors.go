// Package errors contains the error helpers used throughout foldersync.
//
// Errors are wrapped with WithContext as they propagate up the stack, so that
// the final message reads like a trace of what was being attempted. The
// original error can be recovered with RootCause, Is, or As.
package errors

import (
	goErrors "errors"
	"fmt"
)

// New returns an error with the formatted message.
func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Is is a shortcut for the standard library's errors.Is.
func Is(err, target error) bool {
	return goErrors.Is(err, target)
}

// As is a shortcut for the standard library's errors.As.
func As(err error, target interface{}) bool {
	return goErrors.As(err, target)
}

type contextError struct {
	context string
	err     error
}

// WithContext annotates err with a short description of the operation that
// failed. It returns nil if err is nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, err: err}
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err contextError) Unwrap() error {
	return err.err
}

// RootCause returns the innermost error that was wrapped with WithContext.
// Errors wrapped by other means are returned as is.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(contextError)
		if !ok {
			return err
		}
		err = ctxErr.err
	}
}

// FriendlyError is an error whose message is meant to be shown directly to
// the user, without any of the wrapped context.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError with the formatted message.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{msg: fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message that should be printed to the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}
