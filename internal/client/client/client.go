package client

import (
	"context"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

// ListQuery narrows list endpoints. Zero fields are not sent.
type ListQuery struct {
	Search   string
	Page     int
	Size     int
	VendorID models.ID
}

type Client interface {
	CheckUserRole(ctx context.Context, mobile string) (*models.Principal, error)
	ExchangeToken(ctx context.Context, mobile, providerUserID string) (string, models.Principal, error)

	ListVendors(ctx context.Context, q ListQuery) ([]models.Vendor, error)
	ListCustomers(ctx context.Context, q ListQuery) ([]models.Customer, error)
	CustomerCountByVendor(ctx context.Context) ([]models.VendorCustomerCount, error)

	ListPlans(ctx context.Context) ([]models.Plan, error)
	ListSubscriptions(ctx context.Context, q ListQuery) ([]models.Subscription, error)
	SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error)
	ExpiringSubscriptions(ctx context.Context, days int) ([]models.Subscription, error)
	ExpiredToday(ctx context.Context) ([]models.Subscription, error)

	Ping(ctx context.Context) error
}

// TokenSource supplies the bearer token for authorized calls. An empty
// token sends the request without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
