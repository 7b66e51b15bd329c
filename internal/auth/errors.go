// Package auth owns sign-up, sign-in and sign-out, the identity provider
// behind them, and the in-process record of who is currently signed in.
package auth

import "fmt"

// Code classifies an auth failure for the caller.
type Code string

const (
	CodeInvalidInput       Code = "invalid_input"
	CodeEmailTaken         Code = "email_taken"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeProfileWriteFailed Code = "profile_write_failed"
	CodeProviderFailure    Code = "provider_failure"
)

// Error is the structured failure every auth operation returns.
// Message is safe to show to the user; Err holds the underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}
