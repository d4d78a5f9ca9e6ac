package login

import (
	"errors"
	"strings"
	"time"
)

// DefaultNoticeTTL is how long a notice stays on screen.
const DefaultNoticeTTL = 5 * time.Second

const (
	MsgInvalidPhone    = "Please enter a valid 10-digit mobile number"
	MsgUserNotFound    = "User not found in system"
	MsgUnauthorized    = "You are not authorized to access admin panel"
	MsgSendFailed      = "Failed to send OTP"
	MsgIncompleteCode  = "Please enter complete 6-digit OTP"
	MsgNoPending       = "Please request OTP first"
	MsgInvalidCode     = "Invalid OTP. Please try again."
	MsgOTPSent         = "OTP sent successfully!"
	MsgLoginSuccessful = "Login successful!"
	MsgAlreadySignedIn = "Already signed in"
	msgSomethingWrong  = "Something went wrong"
)

// MessageFor returns the operator-facing text for a flow error. It is
// empty for nil and for stale responses, which are never shown.
func MessageFor(err error) string {
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return ""
	}

	server := serverMessage(err)

	switch {
	case errors.Is(err, ErrInvalidPhone):
		return MsgInvalidPhone
	case errors.Is(err, ErrUserNotFound):
		return orDefault(server, MsgUserNotFound)
	case errors.Is(err, ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, ErrChallengeInitiationFailed):
		return orDefault(causeText(err, ErrChallengeInitiationFailed), MsgSendFailed)
	case errors.Is(err, ErrIncompleteCode):
		return MsgIncompleteCode
	case errors.Is(err, ErrNoPendingChallenge):
		return MsgNoPending
	case errors.Is(err, ErrInvalidCode):
		return MsgInvalidCode
	case errors.Is(err, ErrExchangeFailed):
		return orDefault(server, MsgInvalidCode)
	}

	return orDefault(server, msgSomethingWrong)
}

func serverMessage(err error) string {
	var sm ServerMessager
	if errors.As(err, &sm) {
		return strings.TrimSpace(sm.ServerMessage())
	}
	return ""
}

// causeText strips the sentinel prefix added by wrap.
func causeText(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(msg, prefix))
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Level tells the console how to style a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a message shown until ExpiresAt.
type Notice struct {
	Text      string
	Level     Level
	ExpiresAt time.Time
}

// Visible reports whether the notice should still be shown at now.
func (n Notice) Visible(now time.Time) bool {
	return n.Text != "" && now.Before(n.ExpiresAt)
}
