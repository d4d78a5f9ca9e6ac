package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/config"
	"github.com/dmitrijs2005/vendorconsole/internal/client/login"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/client/services"
	"github.com/dmitrijs2005/vendorconsole/internal/client/session"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
	"github.com/stretchr/testify/require"
)

const goodCode = "123456"

// fakeAPI implements client.Client for console tests.
type fakeAPI struct {
	mu sync.Mutex

	users map[string]*models.Principal

	vendors    []models.Vendor
	vendorsErr error
	customers  map[models.ID][]models.Customer
	counts     []models.VendorCustomerCount
	plans      []models.Plan
	subs       []models.Subscription
	stats      models.SubscriptionStats
	expiring   []models.Subscription

	pingErr error
	pings   int
}

func (f *fakeAPI) CheckUserRole(_ context.Context, mobile string) (*models.Principal, error) {
	return f.users[mobile], nil
}

func (f *fakeAPI) ExchangeToken(_ context.Context, mobile, _ string) (string, models.Principal, error) {
	p := f.users[mobile]
	if p == nil {
		return "", models.Principal{}, &client.APIError{StatusCode: 401, Message: "Authentication failed", Err: client.ErrUnauthorized}
	}
	return "tok-" + mobile, *p, nil
}

func (f *fakeAPI) ListVendors(context.Context, client.ListQuery) ([]models.Vendor, error) {
	return f.vendors, f.vendorsErr
}

func (f *fakeAPI) ListCustomers(_ context.Context, q client.ListQuery) ([]models.Customer, error) {
	if q.VendorID == "" {
		var all []models.Customer
		for _, cs := range f.customers {
			all = append(all, cs...)
		}
		return all, nil
	}
	var out []models.Customer
	for _, c := range f.customers[q.VendorID] {
		if q.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q.Search)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) CustomerCountByVendor(context.Context) ([]models.VendorCustomerCount, error) {
	return f.counts, nil
}

func (f *fakeAPI) ListPlans(context.Context) ([]models.Plan, error) { return f.plans, nil }

func (f *fakeAPI) ListSubscriptions(context.Context, client.ListQuery) ([]models.Subscription, error) {
	return f.subs, nil
}

func (f *fakeAPI) SubscriptionStats(context.Context) (models.SubscriptionStats, error) {
	return f.stats, nil
}

func (f *fakeAPI) ExpiringSubscriptions(context.Context, int) ([]models.Subscription, error) {
	return f.expiring, nil
}

func (f *fakeAPI) ExpiredToday(context.Context) ([]models.Subscription, error) { return nil, nil }

func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAPI) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

// fakeProvider accepts goodCode for every number.
type fakeProvider struct {
	sent []string
}

func (p *fakeProvider) InitiateChallenge(_ context.Context, phone, botToken string) (verify.Challenge, error) {
	if botToken == "" {
		return nil, verify.ErrNoBotToken
	}
	p.sent = append(p.sent, phone)
	return &fakeChallenge{phone: phone}, nil
}

type fakeChallenge struct {
	phone string
	dead  bool
}

func (c *fakeChallenge) Confirm(_ context.Context, code string) (verify.Result, error) {
	if c.dead {
		return verify.Result{}, verify.ErrChallengeInvalidated
	}
	if code != goodCode {
		return verify.Result{}, verify.ErrCodeRejected
	}
	return verify.Result{UserID: "uid-" + c.phone, PhoneNumber: c.phone}, nil
}

func (c *fakeChallenge) Invalidate() { c.dead = true }

func superAdmin() *models.Principal {
	return &models.Principal{ID: "1", Name: "Root", Mobile: "9876543210", Role: models.RoleSuperAdmin}
}

func admin() *models.Principal {
	return &models.Principal{ID: "2", Name: "Asha", Mobile: "9876543211", Role: models.RoleAdmin}
}

func testAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]*models.Principal{
			"9876543210": superAdmin(),
			"9876543211": admin(),
			"9876543212": {ID: "3", Name: "Vic", Role: models.Role("vendor")},
		},
		vendors: []models.Vendor{
			{ID: "v1", VendorName: "Acme Foods", Mobile: "9000000001", Email: "acme@example.com", Status: "Active",
				CreatedAt: models.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}},
			{ID: "v2", VendorName: "Blue Bakery", Mobile: "9000000002", Email: "blue@example.com", Status: "Inactive",
				CreatedAt: models.Date{Time: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}},
		},
		customers: map[models.ID][]models.Customer{
			"v1": {{ID: "c1", Name: "Ravi", CreatedBy: "v1"}, {ID: "c2", Name: "Meera", CreatedBy: "v1"}},
		},
		counts: []models.VendorCustomerCount{{CreatedBy: "v1", CustomerCount: 2}},
	}
}

type testApp struct {
	*App
	api      *fakeAPI
	provider *fakeProvider
	output   *bytes.Buffer
}

// newTestApp builds an App over fakes with input fed to its reader. User
// output from printlnFn and the tables both end up in output.
func newTestApp(t *testing.T, api *fakeAPI, input string) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	out := &bytes.Buffer{}
	capturePrintln(t, out)

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	tokens := services.NewTokenStore(db)
	sessions := session.NewStore(session.NewMemoryStorage())
	provider := &fakeProvider{}
	flow := login.NewFlow(login.Deps{
		Lookup:    api,
		Exchanger: api,
		Tokens:    tokens,
		Sessions:  sessions,
		Provider:  provider,
		BotCheck:  verify.NewWidget(verify.StaticTokenSource("bot-token")),
	}, login.Options{NoticeTTL: time.Hour})

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OnlineCheckInterval = time.Hour

	app := &App{
		config:   cfg,
		log:      logging.Nop{},
		flow:     flow,
		sessions: sessions,
		tokens:   tokens,
		console:  services.NewConsoleService(api, nil),
		api:      api,
		now:      func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) },
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}
	return &testApp{App: app, api: api, provider: provider, output: out}
}

func capturePrintln(t *testing.T, w *bytes.Buffer) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(w, a...) }
	t.Cleanup(func() { printlnFn = orig })
}

func (a *testApp) signIn(p *models.Principal) {
	a.sessions.Set(*p)
}
