// Package login implements the phone + one-time-code sign-in used by the
// console: role pre-check, code delivery through the verification provider,
// code confirmation and exchange of the provider identity for an API token.
package login

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/guard"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
	"github.com/dmitrijs2005/vendorconsole/internal/common"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
)

// DefaultCountryCode is prefixed to the ten-digit national number.
const DefaultCountryCode = "+91"

const phoneDigits = 10

// Phase is the step the flow is in.
type Phase int

const (
	PhaseEnterPhone Phase = iota
	PhaseEnterOTP
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseEnterPhone:
		return "enter-phone"
	case PhaseEnterOTP:
		return "enter-otp"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RoleLookup asks the API which console user, if any, owns a mobile number.
// A nil principal with a nil error means no such user.
type RoleLookup interface {
	CheckUserRole(ctx context.Context, mobile string) (*models.Principal, error)
}

// TokenExchanger trades a confirmed provider identity for an API token.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, mobile, providerUserID string) (string, models.Principal, error)
}

// TokenSink keeps the API token across restarts.
type TokenSink interface {
	Save(ctx context.Context, token, mobile string) error
}

// SessionStore holds the signed-in principal.
type SessionStore interface {
	Get() (*models.Principal, bool)
	Set(p models.Principal)
}

// BotCheck is the widget the provider requires before sending a code.
type BotCheck interface {
	Acquire() *verify.Instance
	Reset()
}

// Deps are the collaborators of a Flow.
type Deps struct {
	Lookup    RoleLookup
	Exchanger TokenExchanger
	Tokens    TokenSink
	Sessions  SessionStore
	Provider  verify.Provider
	BotCheck  BotCheck
}

// Options tune a Flow. Zero values pick the defaults.
type Options struct {
	CountryCode string
	NoticeTTL   time.Duration
	Logger      logging.Logger
	Now         func() time.Time
}

// Flow is the sign-in state machine. It is safe for concurrent use: every
// transition bumps a version, and a network result that comes back after
// a newer transition is discarded with ErrStaleResponse.
type Flow struct {
	deps        Deps
	countryCode string
	noticeTTL   time.Duration
	log         logging.Logger
	now         func() time.Time

	code CodeInput

	mu        sync.Mutex
	version   uint64
	phase     Phase
	phone     string
	challenge verify.Challenge
	principal *models.Principal
	notice    Notice
}

func NewFlow(deps Deps, opts Options) *Flow {
	f := &Flow{
		deps:        deps,
		countryCode: opts.CountryCode,
		noticeTTL:   opts.NoticeTTL,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if f.countryCode == "" {
		f.countryCode = DefaultCountryCode
	}
	if f.noticeTTL <= 0 {
		f.noticeTTL = DefaultNoticeTTL
	}
	if f.log == nil {
		f.log = logging.Nop{}
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Code is the six-cell code input bound to this flow.
func (f *Flow) Code() *CodeInput { return &f.code }

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Phone is the number the pending code was sent to.
func (f *Flow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// Principal is the signed-in user once the flow is authenticated.
func (f *Flow) Principal() (models.Principal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.principal == nil {
		return models.Principal{}, false
	}
	return *f.principal, true
}

// Landing is the route to open after sign-in. It is the login route until
// the flow is authenticated, and for roles without a console home.
func (f *Flow) Landing() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseAuthenticated || f.principal == nil {
		return guard.LoginPath
	}
	return guard.Home(f.principal.Role)
}

// Resume reports where to go when the login screen opens while a principal
// is already in the session. Every existing session is sent to the admin
// home; the guard forwards other roles from there.
func (f *Flow) Resume() (string, bool) {
	if _, ok := f.deps.Sessions.Get(); ok {
		return guard.AdminHomePath, true
	}
	return "", false
}

// Notice returns the message to display, if it has not yet expired.
func (f *Flow) Notice() (Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.notice.Visible(f.now()) {
		return Notice{}, false
	}
	return f.notice, true
}

// SubmitPhone checks the number with the API and, for console roles, asks
// the provider to send a code. Any pending code is abandoned first.
func (f *Flow) SubmitPhone(ctx context.Context, phone string) error {
	if !common.IsDigits(phone, phoneDigits) {
		return f.fail(ErrInvalidPhone)
	}

	f.mu.Lock()
	v := f.advanceLocked()
	f.dropChallengeLocked()
	f.phase = PhaseEnterPhone
	f.phone = ""
	f.principal = nil
	f.notice = Notice{}
	f.mu.Unlock()

	log := f.log.With("phone", logging.Fingerprint(phone))

	user, err := f.deps.Lookup.CheckUserRole(ctx, phone)

	f.mu.Lock()
	if f.version != v {
		f.mu.Unlock()
		return ErrStaleResponse
	}
	f.mu.Unlock()

	if err != nil {
		log.Warn(ctx, "role lookup failed", "error", err)
		return f.fail(fmt.Errorf("%w: %w", ErrUserNotFound, err))
	}
	if user == nil {
		log.Info(ctx, "no console user for number")
		return f.fail(ErrUserNotFound)
	}
	if !user.Role.Recognized() {
		log.Info(ctx, "number belongs to a non-console role", "role", string(user.Role))
		return f.fail(ErrUnauthorized)
	}

	return f.initiate(ctx, v, phone, log)
}

// Resend asks the provider for a fresh code for the same number. The
// previous challenge is invalidated before the new one is requested.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseEnterOTP || f.phone == "" {
		f.mu.Unlock()
		return f.fail(ErrNoPendingChallenge)
	}
	v := f.advanceLocked()
	f.dropChallengeLocked()
	phone := f.phone
	f.mu.Unlock()

	f.code.Clear()

	return f.initiate(ctx, v, phone, f.log.With("phone", logging.Fingerprint(phone)))
}

// ChangeNumber abandons the pending code and returns to phone entry.
func (f *Flow) ChangeNumber() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.advanceLocked()
	f.dropChallengeLocked()
	f.phase = PhaseEnterPhone
	f.phone = ""
	f.notice = Notice{}
	f.code.Clear()
}

// SubmitOTP confirms code with the provider, exchanges the confirmed
// identity for an API token and stores the session. An empty code submits
// the contents of the code input.
func (f *Flow) SubmitOTP(ctx context.Context, code string) error {
	if code == "" {
		code = f.code.Value()
	}
	if !common.IsDigits(code, CodeLength) {
		return f.fail(ErrIncompleteCode)
	}

	f.mu.Lock()
	ch := f.challenge
	if ch == nil {
		f.mu.Unlock()
		return f.fail(ErrNoPendingChallenge)
	}
	v := f.version
	phone := f.phone
	f.notice = Notice{}
	f.mu.Unlock()

	log := f.log.With("phone", logging.Fingerprint(phone))

	res, err := ch.Confirm(ctx, code)
	if f.stale(v) {
		return ErrStaleResponse
	}
	if err != nil {
		log.Warn(ctx, "code confirmation failed", "error", err)
		f.code.Clear()
		return f.fail(fmt.Errorf("%w: %w", ErrInvalidCode, err))
	}

	token, principal, err := f.deps.Exchanger.ExchangeToken(ctx, phone, res.UserID)
	if f.stale(v) {
		return ErrStaleResponse
	}
	if err != nil {
		log.Warn(ctx, "token exchange failed", "error", err)
		f.code.Clear()
		return f.fail(fmt.Errorf("%w: %w", ErrExchangeFailed, err))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.version != v {
		return ErrStaleResponse
	}

	if err := f.deps.Tokens.Save(ctx, token, phone); err != nil {
		log.Error(ctx, "token could not be stored", "error", err)
		f.code.Clear()
		err = fmt.Errorf("%w: store token: %w", ErrExchangeFailed, err)
		f.setNoticeLocked(MessageFor(err), LevelError)
		return err
	}
	f.deps.Sessions.Set(principal)

	f.advanceLocked()
	f.challenge = nil
	f.principal = &principal
	f.phase = PhaseAuthenticated
	f.code.Clear()
	f.setNoticeLocked(MsgLoginSuccessful, LevelInfo)

	log.Info(ctx, "signed in", "user", string(principal.ID), "role", string(principal.Role))
	return nil
}

// initiate runs the bot check and asks the provider to send a code. On
// failure the widget is reset and the phase is left as it was.
func (f *Flow) initiate(ctx context.Context, v uint64, phone string, log logging.Logger) error {
	inst := f.deps.BotCheck.Acquire()

	var ch verify.Challenge
	token, err := inst.Token(ctx)
	if err == nil {
		ch, err = f.deps.Provider.InitiateChallenge(ctx, f.countryCode+phone, token)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.version != v {
		if ch != nil {
			ch.Invalidate()
		}
		return ErrStaleResponse
	}

	if err != nil {
		log.Warn(ctx, "code delivery failed", "widget", inst.ID, "error", err)
		f.deps.BotCheck.Reset()
		err = fmt.Errorf("%w: %w", ErrChallengeInitiationFailed, err)
		f.setNoticeLocked(MessageFor(err), LevelError)
		return err
	}

	f.challenge = ch
	f.phone = phone
	f.phase = PhaseEnterOTP
	f.setNoticeLocked(MsgOTPSent, LevelInfo)

	log.Info(ctx, "code sent", "widget", inst.ID)
	return nil
}

func (f *Flow) advanceLocked() uint64 {
	f.version++
	return f.version
}

func (f *Flow) dropChallengeLocked() {
	if f.challenge != nil {
		f.challenge.Invalidate()
		f.challenge = nil
	}
}

func (f *Flow) stale(v uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version != v
}

func (f *Flow) setNoticeLocked(text string, level Level) {
	f.notice = Notice{Text: text, Level: level, ExpiresAt: f.now().Add(f.noticeTTL)}
}

// fail records err as the current notice and returns it.
func (f *Flow) fail(err error) error {
	if errors.Is(err, ErrStaleResponse) {
		return err
	}
	f.mu.Lock()
	f.setNoticeLocked(MessageFor(err), LevelError)
	f.mu.Unlock()
	return err
}
