package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// fanOutLimit bounds concurrent per-vendor requests.
	fanOutLimit = 4

	directoryPageSize = 100
	customerPageSize  = 50
	expiringWindow    = 7
)

type AdminDashboard struct {
	Vendors []models.Vendor
	Stats   VendorStats
}

type SuperDashboard struct {
	Vendors   []models.Vendor
	Stats     VendorStats
	Customers []models.Customer
	// Failed lists vendors whose customers could not be loaded.
	Failed []models.ID
}

// VendorCustomers pairs a vendor with its customer count.
type VendorCustomers struct {
	Vendor    models.Vendor
	Customers int
}

// SubscriptionRow is a subscription with its remaining days.
type SubscriptionRow struct {
	models.Subscription
	DaysLeft int
}

type AlertLevel string

const (
	AlertError   AlertLevel = "error"
	AlertWarning AlertLevel = "warning"
)

type Alert struct {
	Level        AlertLevel
	Message      string
	Subscription models.Subscription
}

type SubscriptionOverview struct {
	Plans         []models.Plan
	Subscriptions []SubscriptionRow
	Stats         models.SubscriptionStats
	Alerts        []Alert
}

// ConsoleService loads the read models of the console screens.
//
// Sections that fail to load are logged and left empty, the way each
// dashboard widget fails on its own. client.ErrUnauthorized is always
// returned so the caller can end the session.
type ConsoleService interface {
	AdminDashboard(ctx context.Context) (AdminDashboard, error)
	VendorDirectory(ctx context.Context) ([]models.Vendor, error)
	SuperDashboard(ctx context.Context) (SuperDashboard, error)
	CustomerDirectory(ctx context.Context) ([]VendorCustomers, error)
	Customers(ctx context.Context, vendorID models.ID, search string) ([]models.Customer, error)
	Subscriptions(ctx context.Context, now time.Time) (SubscriptionOverview, error)
	Analytics(ctx context.Context) (Analytics, error)
}

type consoleService struct {
	client client.Client
	log    logging.Logger
}

func NewConsoleService(c client.Client, log logging.Logger) ConsoleService {
	if log == nil {
		log = logging.Nop{}
	}
	return &consoleService{client: c, log: log}
}

func (s *consoleService) AdminDashboard(ctx context.Context) (AdminDashboard, error) {
	vendors, err := s.client.ListVendors(ctx, client.ListQuery{})
	if err != nil {
		return AdminDashboard{}, err
	}
	return AdminDashboard{Vendors: vendors, Stats: CountVendors(vendors)}, nil
}

func (s *consoleService) VendorDirectory(ctx context.Context) ([]models.Vendor, error) {
	return s.client.ListVendors(ctx, client.ListQuery{Page: 1, Size: directoryPageSize})
}

func (s *consoleService) SuperDashboard(ctx context.Context) (SuperDashboard, error) {
	vendors, err := s.client.ListVendors(ctx, client.ListQuery{})
	if err != nil {
		return SuperDashboard{}, err
	}
	d := SuperDashboard{Vendors: vendors, Stats: CountVendors(vendors)}

	perVendor := make([][]models.Customer, len(vendors))
	failed := make([]bool, len(vendors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, v := range vendors {
		key := v.Key()
		if key == "" {
			continue
		}
		i := i
		g.Go(func() error {
			cs, err := s.client.ListCustomers(gctx, client.ListQuery{VendorID: key})
			if err != nil {
				if errors.Is(err, client.ErrUnauthorized) {
					return err
				}
				s.log.Warn(gctx, "customers for vendor failed", "vendor", string(key), "error", err)
				failed[i] = true
				return nil
			}
			perVendor[i] = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SuperDashboard{}, err
	}

	for i, cs := range perVendor {
		d.Customers = append(d.Customers, cs...)
		if failed[i] {
			d.Failed = append(d.Failed, vendors[i].Key())
		}
	}
	return d, nil
}

func (s *consoleService) CustomerDirectory(ctx context.Context) ([]VendorCustomers, error) {
	vendors, err := s.client.ListVendors(ctx, client.ListQuery{Page: 1, Size: directoryPageSize})
	if err != nil {
		return nil, err
	}

	counts := map[models.ID]int{}
	rows, err := s.client.CustomerCountByVendor(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return nil, err
	case err != nil:
		s.log.Warn(ctx, "customer counts failed", "error", err)
	default:
		for _, r := range rows {
			counts[r.CreatedBy] = int(r.CustomerCount)
		}
	}

	out := make([]VendorCustomers, 0, len(vendors))
	for _, v := range vendors {
		n, ok := counts[v.ID]
		if !ok {
			n = counts[v.MongoID]
		}
		out = append(out, VendorCustomers{Vendor: v, Customers: n})
	}
	return out, nil
}

func (s *consoleService) Customers(ctx context.Context, vendorID models.ID, search string) ([]models.Customer, error) {
	if vendorID == "" {
		return nil, errors.New("no vendor selected")
	}
	return s.client.ListCustomers(ctx, client.ListQuery{
		VendorID: vendorID,
		Search:   search,
		Page:     1,
		Size:     customerPageSize,
	})
}

func (s *consoleService) Subscriptions(ctx context.Context, now time.Time) (SubscriptionOverview, error) {
	var (
		o        SubscriptionOverview
		subs     []models.Subscription
		expiring []models.Subscription
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		o.Plans, err = section(ctx, s, "plans", func() ([]models.Plan, error) {
			return s.client.ListPlans(ctx)
		})
		return err
	})
	g.Go(func() (err error) {
		subs, err = section(ctx, s, "subscriptions", func() ([]models.Subscription, error) {
			return s.client.ListSubscriptions(ctx, client.ListQuery{})
		})
		return err
	})
	g.Go(func() error {
		st, err := s.client.SubscriptionStats(ctx)
		if err != nil {
			return s.sectionFailed(ctx, "subscription stats", err)
		}
		o.Stats = st
		return nil
	})
	g.Go(func() (err error) {
		expiring, err = section(ctx, s, "expiring subscriptions", func() ([]models.Subscription, error) {
			return s.client.ExpiringSubscriptions(ctx, expiringWindow)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return SubscriptionOverview{}, err
	}

	for _, sub := range subs {
		o.Subscriptions = append(o.Subscriptions, SubscriptionRow{Subscription: sub, DaysLeft: DaysLeft(sub.EndDate.Time, now)})
	}
	o.Alerts = ExpiryAlerts(expiring, now)
	return o, nil
}

func (s *consoleService) Analytics(ctx context.Context) (Analytics, error) {
	var (
		vendors   []models.Vendor
		customers []models.Customer
		subs      []models.Subscription
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		vendors, err = section(ctx, s, "vendors", func() ([]models.Vendor, error) {
			return s.client.ListVendors(ctx, client.ListQuery{})
		})
		return err
	})
	g.Go(func() (err error) {
		customers, err = section(ctx, s, "customers", func() ([]models.Customer, error) {
			return s.client.ListCustomers(ctx, client.ListQuery{})
		})
		return err
	})
	g.Go(func() (err error) {
		subs, err = section(ctx, s, "subscriptions", func() ([]models.Subscription, error) {
			return s.client.ListSubscriptions(ctx, client.ListQuery{})
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return Analytics{}, err
	}

	return BuildAnalytics(vendors, customers, subs), nil
}

// section runs one independent fetch of a screen.
func section[T any](ctx context.Context, s *consoleService, name string, fetch func() ([]T, error)) ([]T, error) {
	items, err := fetch()
	if err != nil {
		return nil, s.sectionFailed(ctx, name, err)
	}
	return items, nil
}

func (s *consoleService) sectionFailed(ctx context.Context, name string, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	s.log.Warn(ctx, "section failed to load", "section", name, "error", err)
	return nil
}

// ExpiryAlerts builds the banner messages for subscriptions about to end.
func ExpiryAlerts(expiring []models.Subscription, now time.Time) []Alert {
	out := make([]Alert, 0, len(expiring))
	for _, sub := range expiring {
		days := DaysLeft(sub.EndDate.Time, now)
		a := Alert{Level: AlertWarning, Subscription: sub}
		switch {
		case days == 0:
			a.Level = AlertError
			a.Message = fmt.Sprintf("%s's subscription expires TODAY!", sub.VendorName())
		case days == 1:
			a.Message = fmt.Sprintf("%s's subscription expires in 1 day", sub.VendorName())
		default:
			a.Message = fmt.Sprintf("%s's subscription expires in %d days", sub.VendorName(), days)
		}
		out = append(out, a)
	}
	return out
}
