// Package verify abstracts the phone-verification provider used to prove
// that an operator controls a mobile number, together with the bot-check
// widget the provider requires before it sends a code.
package verify

import (
	"context"
	"errors"
)

var (
	// ErrCodeRejected means the provider did not accept the entered code.
	ErrCodeRejected = errors.New("verification code rejected")
	// ErrChallengeInvalidated is returned by a challenge that was superseded.
	ErrChallengeInvalidated = errors.New("challenge invalidated")
)

// Result identifies the provider account that confirmed a challenge.
type Result struct {
	UserID      string
	PhoneNumber string
}

// Challenge is a pending verification for one phone number.
type Challenge interface {
	Confirm(ctx context.Context, code string) (Result, error)
	// Invalidate makes every later Confirm fail with ErrChallengeInvalidated.
	Invalidate()
}

// Provider sends verification codes.
type Provider interface {
	InitiateChallenge(ctx context.Context, phoneE164, botToken string) (Challenge, error)
}
