package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	Vendors    []models.Vendor
	VendorsErr error

	// CustomersByVendor answers ListCustomers with a vendor filter;
	// Customers answers it without one.
	CustomersByVendor map[models.ID][]models.Customer
	CustomerErrs      map[models.ID]error
	Customers         []models.Customer
	CustomersErr      error

	Counts    []models.VendorCustomerCount
	CountsErr error

	Plans    []models.Plan
	PlansErr error

	Subs    []models.Subscription
	SubsErr error

	Stats    models.SubscriptionStats
	StatsErr error

	Expiring    []models.Subscription
	ExpiringErr error

	LastVendorQuery   client.ListQuery
	LastCustomerQuery client.ListQuery
	LastExpiringDays  int

	inFlight, maxInFlight int
	customerGate          chan struct{}
}

func (f *fakeClient) CheckUserRole(context.Context, string) (*models.Principal, error) {
	return nil, nil
}

func (f *fakeClient) ExchangeToken(context.Context, string, string) (string, models.Principal, error) {
	return "", models.Principal{}, nil
}

func (f *fakeClient) ListVendors(_ context.Context, q client.ListQuery) ([]models.Vendor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastVendorQuery = q
	return f.Vendors, f.VendorsErr
}

func (f *fakeClient) ListCustomers(_ context.Context, q client.ListQuery) ([]models.Customer, error) {
	f.mu.Lock()
	f.LastCustomerQuery = q
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate := f.customerGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--

	if q.VendorID == "" {
		return f.Customers, f.CustomersErr
	}
	if err := f.CustomerErrs[q.VendorID]; err != nil {
		return nil, err
	}
	return f.CustomersByVendor[q.VendorID], nil
}

func (f *fakeClient) CustomerCountByVendor(context.Context) ([]models.VendorCustomerCount, error) {
	return f.Counts, f.CountsErr
}

func (f *fakeClient) ListPlans(context.Context) ([]models.Plan, error) {
	return f.Plans, f.PlansErr
}

func (f *fakeClient) ListSubscriptions(context.Context, client.ListQuery) ([]models.Subscription, error) {
	return f.Subs, f.SubsErr
}

func (f *fakeClient) SubscriptionStats(context.Context) (models.SubscriptionStats, error) {
	return f.Stats, f.StatsErr
}

func (f *fakeClient) ExpiringSubscriptions(_ context.Context, days int) ([]models.Subscription, error) {
	f.mu.Lock()
	f.LastExpiringDays = days
	f.mu.Unlock()
	return f.Expiring, f.ExpiringErr
}

func (f *fakeClient) ExpiredToday(context.Context) ([]models.Subscription, error) {
	return nil, nil
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func date(y int, m time.Month, d int) models.Date {
	return models.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}
