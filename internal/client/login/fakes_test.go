package login

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
)

type fakeLookup struct {
	users    map[string]*models.Principal
	err      error
	calls    int
	onLookup func()
}

func (l *fakeLookup) CheckUserRole(_ context.Context, mobile string) (*models.Principal, error) {
	l.calls++
	if l.onLookup != nil {
		l.onLookup()
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.users[mobile], nil
}

type fakeExchanger struct {
	token      string
	principal  models.Principal
	err        error
	gotMobile  string
	gotUID     string
	calls      int
	onExchange func()
}

func (e *fakeExchanger) ExchangeToken(_ context.Context, mobile, uid string) (string, models.Principal, error) {
	e.calls++
	e.gotMobile, e.gotUID = mobile, uid
	if e.onExchange != nil {
		e.onExchange()
	}
	if e.err != nil {
		return "", models.Principal{}, e.err
	}
	return e.token, e.principal, nil
}

type fakeSink struct {
	token, mobile string
	err           error
}

func (s *fakeSink) Save(_ context.Context, token, mobile string) error {
	if s.err != nil {
		return s.err
	}
	s.token, s.mobile = token, mobile
	return nil
}

type fakeChallenge struct {
	mu          sync.Mutex
	accept      string
	uid         string
	invalidated bool
	confirms    int
}

func (c *fakeChallenge) Confirm(_ context.Context, code string) (verify.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirms++
	if c.invalidated {
		return verify.Result{}, verify.ErrChallengeInvalidated
	}
	if code != c.accept {
		return verify.Result{}, verify.ErrCodeRejected
	}
	return verify.Result{UserID: c.uid}, nil
}

func (c *fakeChallenge) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = true
}

func (c *fakeChallenge) Invalidated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

type fakeProvider struct {
	err        error
	accept     string
	phones     []string
	tokens     []string
	challenges []*fakeChallenge
}

func (p *fakeProvider) InitiateChallenge(_ context.Context, phone, token string) (verify.Challenge, error) {
	p.phones = append(p.phones, phone)
	p.tokens = append(p.tokens, token)
	if p.err != nil {
		return nil, p.err
	}
	ch := &fakeChallenge{accept: p.accept, uid: "uid-1"}
	p.challenges = append(p.challenges, ch)
	return ch, nil
}

type serverErr string

func (e serverErr) Error() string         { return "api: " + string(e) }
func (e serverErr) ServerMessage() string { return string(e) }

var errBoom = errors.New("boom")
