package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/guard"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/client/session"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminPhone  = "9000000001"
	superPhone  = "9000000002"
	vendorPhone = "9876543210"
)

type harness struct {
	flow      *Flow
	lookup    *fakeLookup
	exchanger *fakeExchanger
	sink      *fakeSink
	sessions  *session.Store
	provider  *fakeProvider
	widget    *verify.Widget
	now       time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		lookup: &fakeLookup{users: map[string]*models.Principal{
			adminPhone:  {ID: "a1", Name: "Asha", Mobile: adminPhone, Role: models.RoleAdmin},
			superPhone:  {ID: "s1", Name: "Sam", Mobile: superPhone, Role: models.RoleSuperAdmin},
			vendorPhone: {ID: "v1", Name: "Vik", Mobile: vendorPhone, Role: "vendor"},
		}},
		exchanger: &fakeExchanger{
			token:     "t1",
			principal: models.Principal{ID: "a1", Name: "Asha", Mobile: adminPhone, Role: models.RoleAdmin},
		},
		sink:     &fakeSink{},
		sessions: session.NewStore(session.NewMemoryStorage()),
		provider: &fakeProvider{accept: "123456"},
		widget:   verify.NewWidget(verify.StaticTokenSource("bot")),
		now:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	h.flow = NewFlow(Deps{
		Lookup:    h.lookup,
		Exchanger: h.exchanger,
		Tokens:    h.sink,
		Sessions:  h.sessions,
		Provider:  h.provider,
		BotCheck:  h.widget,
	}, Options{Now: func() time.Time { return h.now }})
	return h
}

func TestFlow_HappyPathAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))
	assert.Equal(t, PhaseEnterOTP, h.flow.Phase())
	assert.Equal(t, []string{"+919000000001"}, h.provider.phones)
	assert.Equal(t, []string{"bot"}, h.provider.tokens)

	n, ok := h.flow.Notice()
	require.True(t, ok)
	assert.Equal(t, MsgOTPSent, n.Text)

	require.NoError(t, h.flow.SubmitOTP(ctx, "123456"))
	assert.Equal(t, PhaseAuthenticated, h.flow.Phase())
	assert.Equal(t, guard.AdminHomePath, h.flow.Landing())

	assert.Equal(t, adminPhone, h.exchanger.gotMobile)
	assert.Equal(t, "uid-1", h.exchanger.gotUID)
	assert.Equal(t, "t1", h.sink.token)
	assert.Equal(t, adminPhone, h.sink.mobile)

	p, ok := h.sessions.Get()
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, p.Role)

	got, ok := h.flow.Principal()
	require.True(t, ok)
	assert.Equal(t, "Asha", got.Name)

	n, ok = h.flow.Notice()
	require.True(t, ok)
	assert.Equal(t, MsgLoginSuccessful, n.Text)
}

func TestFlow_SuperAdminLanding(t *testing.T) {
	h := newHarness(t)
	h.exchanger.principal = models.Principal{ID: "s1", Role: models.RoleSuperAdmin}
	ctx := context.Background()

	require.NoError(t, h.flow.SubmitPhone(ctx, superPhone))
	require.NoError(t, h.flow.SubmitOTP(ctx, "123456"))
	assert.Equal(t, guard.SuperAdminHomePath, h.flow.Landing())
}

func TestFlow_UnknownRoleFromExchangeLandsOnLogin(t *testing.T) {
	h := newHarness(t)
	h.exchanger.principal = models.Principal{ID: "x", Role: "vendor"}
	ctx := context.Background()

	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))
	require.NoError(t, h.flow.SubmitOTP(ctx, "123456"))
	assert.Equal(t, guard.LoginPath, h.flow.Landing())
}

func TestFlow_VendorIsNotChallenged(t *testing.T) {
	h := newHarness(t)

	err := h.flow.SubmitPhone(context.Background(), vendorPhone)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, MsgUnauthorized, MessageFor(err))
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
	assert.Empty(t, h.provider.phones)
}

func TestFlow_InvalidPhoneSkipsLookup(t *testing.T) {
	for _, phone := range []string{"", "12345", "98765432101", "98765abcde", "+919876543"} {
		t.Run(phone, func(t *testing.T) {
			h := newHarness(t)
			err := h.flow.SubmitPhone(context.Background(), phone)
			assert.ErrorIs(t, err, ErrInvalidPhone)
			assert.Equal(t, 0, h.lookup.calls)
			assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
		})
	}
}

func TestFlow_UserNotFound(t *testing.T) {
	h := newHarness(t)

	err := h.flow.SubmitPhone(context.Background(), "9111111111")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, MsgUserNotFound, MessageFor(err))
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
	assert.Empty(t, h.provider.phones)
}

func TestFlow_LookupErrorUsesServerMessage(t *testing.T) {
	h := newHarness(t)
	h.lookup.err = serverErr("Mobile number is blocked")

	err := h.flow.SubmitPhone(context.Background(), adminPhone)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "Mobile number is blocked", MessageFor(err))
}

func TestFlow_InitiationFailureResetsWidget(t *testing.T) {
	h := newHarness(t)
	h.provider.err = errors.New("Too many requests")
	before := h.widget.Acquire()

	err := h.flow.SubmitPhone(context.Background(), adminPhone)
	assert.ErrorIs(t, err, ErrChallengeInitiationFailed)
	assert.Equal(t, "Too many requests", MessageFor(err))
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())

	after := h.widget.Acquire()
	assert.NotEqual(t, before.ID, after.ID)
}

func TestFlow_MissingBotTokenFailsInitiation(t *testing.T) {
	h := newHarness(t)
	h.flow.deps.BotCheck = verify.NewWidget(verify.StaticTokenSource(""))

	err := h.flow.SubmitPhone(context.Background(), adminPhone)
	assert.ErrorIs(t, err, ErrChallengeInitiationFailed)
	assert.ErrorIs(t, err, verify.ErrNoBotToken)
	assert.Empty(t, h.provider.phones)
}

func TestFlow_IncompleteCodeSkipsConfirm(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))

	err := h.flow.SubmitOTP(ctx, "1234")
	assert.ErrorIs(t, err, ErrIncompleteCode)
	assert.Equal(t, MsgIncompleteCode, MessageFor(err))
	assert.Equal(t, 0, h.provider.challenges[0].confirms)
}

func TestFlow_SubmitOTPWithoutChallenge(t *testing.T) {
	h := newHarness(t)

	err := h.flow.SubmitOTP(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
	assert.Equal(t, MsgNoPending, MessageFor(err))
}

func TestFlow_InvalidCodeKeepsChallenge(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))

	h.flow.Code().Paste("654321")
	err := h.flow.SubmitOTP(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, MsgInvalidCode, MessageFor(err))
	assert.Equal(t, PhaseEnterOTP, h.flow.Phase())
	assert.Equal(t, "", h.flow.Code().Value())
	assert.Equal(t, 0, h.exchanger.calls)

	require.NoError(t, h.flow.SubmitOTP(ctx, "123456"))
	assert.Len(t, h.provider.challenges, 1)
	assert.Equal(t, 2, h.provider.challenges[0].confirms)
}

func TestFlow_ExchangeFailure(t *testing.T) {
	h := newHarness(t)
	h.exchanger.err = serverErr("Account suspended")
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))

	err := h.flow.SubmitOTP(ctx, "123456")
	assert.ErrorIs(t, err, ErrExchangeFailed)
	assert.Equal(t, "Account suspended", MessageFor(err))
	assert.Equal(t, PhaseEnterOTP, h.flow.Phase())

	_, ok := h.sessions.Get()
	assert.False(t, ok)
	assert.Empty(t, h.sink.token)
}

func TestFlow_TokenStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.sink.err = errBoom
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))

	err := h.flow.SubmitOTP(ctx, "123456")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, PhaseEnterOTP, h.flow.Phase())
	_, ok := h.sessions.Get()
	assert.False(t, ok)
}

func TestFlow_ResendInvalidatesPrevious(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))
	first := h.provider.challenges[0]

	h.flow.Code().Paste("12")
	require.NoError(t, h.flow.Resend(ctx))

	require.Len(t, h.provider.challenges, 2)
	assert.True(t, first.Invalidated())
	assert.False(t, h.provider.challenges[1].Invalidated())
	assert.Equal(t, []string{"+919000000001", "+919000000001"}, h.provider.phones)
	assert.Equal(t, "", h.flow.Code().Value())
	assert.Equal(t, PhaseEnterOTP, h.flow.Phase())

	require.NoError(t, h.flow.SubmitOTP(ctx, "123456"))
	assert.Equal(t, 0, first.confirms)
}

func TestFlow_ResendRequiresPendingCode(t *testing.T) {
	h := newHarness(t)
	err := h.flow.Resend(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
	assert.Empty(t, h.provider.phones)
}

func TestFlow_ChangeNumber(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))
	h.flow.Code().Paste("123")

	h.flow.ChangeNumber()
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
	assert.Equal(t, "", h.flow.Phone())
	assert.Equal(t, "", h.flow.Code().Value())
	assert.True(t, h.provider.challenges[0].Invalidated())

	err := h.flow.SubmitOTP(ctx, "123456")
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
}

func TestFlow_StaleLookupIsDropped(t *testing.T) {
	h := newHarness(t)
	h.lookup.onLookup = func() { h.flow.ChangeNumber() }

	err := h.flow.SubmitPhone(context.Background(), adminPhone)
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.Equal(t, "", MessageFor(err))
	assert.Empty(t, h.provider.phones)
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
}

func TestFlow_StaleExchangeIsDropped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.flow.SubmitPhone(ctx, adminPhone))
	h.exchanger.onExchange = func() { h.flow.ChangeNumber() }

	err := h.flow.SubmitOTP(ctx, "123456")
	assert.ErrorIs(t, err, ErrStaleResponse)
	_, ok := h.sessions.Get()
	assert.False(t, ok)
	assert.Empty(t, h.sink.token)
	assert.Equal(t, PhaseEnterPhone, h.flow.Phase())
}

func TestFlow_Resume(t *testing.T) {
	h := newHarness(t)

	_, ok := h.flow.Resume()
	assert.False(t, ok)

	h.sessions.Set(models.Principal{ID: "s1", Role: models.RoleSuperAdmin})
	to, ok := h.flow.Resume()
	require.True(t, ok)
	assert.Equal(t, guard.AdminHomePath, to)
}

func TestFlow_NoticeExpires(t *testing.T) {
	h := newHarness(t)

	_ = h.flow.SubmitPhone(context.Background(), "1")
	n, ok := h.flow.Notice()
	require.True(t, ok)
	assert.Equal(t, MsgInvalidPhone, n.Text)
	assert.Equal(t, LevelError, n.Level)

	h.now = h.now.Add(DefaultNoticeTTL)
	_, ok = h.flow.Notice()
	assert.False(t, ok)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "enter-phone", PhaseEnterPhone.String())
	assert.Equal(t, "enter-otp", PhaseEnterOTP.String())
	assert.Equal(t, "authenticated", PhaseAuthenticated.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}
