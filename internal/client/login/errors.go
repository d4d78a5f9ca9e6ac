package login

import "errors"

var (
	ErrInvalidPhone              = errors.New("invalid phone number")
	ErrUserNotFound              = errors.New("user not found")
	ErrUnauthorized              = errors.New("role not allowed in console")
	ErrChallengeInitiationFailed = errors.New("failed to send verification code")
	ErrIncompleteCode            = errors.New("incomplete verification code")
	ErrNoPendingChallenge        = errors.New("no pending verification")
	ErrInvalidCode               = errors.New("invalid verification code")
	ErrExchangeFailed            = errors.New("token exchange failed")
	// ErrStaleResponse is returned when a network result arrives after the
	// flow has moved on; the result is dropped.
	ErrStaleResponse = errors.New("stale response")
)

// ServerMessager is implemented by errors that carry a message written by
// the API server for the operator.
type ServerMessager interface {
	ServerMessage() string
}
