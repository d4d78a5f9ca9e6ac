package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/common"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
	"github.com/dmitrijs2005/vendorconsole/internal/netx"
	"github.com/google/uuid"
)

// DefaultBaseURL is the hosted API.
const DefaultBaseURL = "https://accountsoft.onrender.com"

const (
	pathCheckUserRole     = "/auth/check-user-role"
	pathExchangeToken     = "/auth/exchange-firebase-token"
	pathVendors           = "/api/vendors"
	pathCustomers         = "/api/customers"
	pathCustomerCounts    = "/api/customers/count-by-vendor"
	pathPlans             = "/subscriptions/plans"
	pathSubscriptions     = "/subscriptions"
	pathSubscriptionStats = "/subscriptions/stats"
	pathExpiring          = "/subscriptions/expiring"
	pathExpiredToday      = "/subscriptions/expired-today"
	pathHealth            = "/health"
)

const msgAuthenticationFailed = "Authentication failed"

// HTTPClient talks to the REST API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

type envelope[T any] struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// list decodes either a bare array or an object with a rows array.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	var arr []T
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var paged struct {
		Rows []T `json:"rows"`
	}
	if err := json.Unmarshal(b, &paged); err != nil {
		return err
	}
	*l = paged.Rows
	return nil
}

type serverMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) call(ctx context.Context, method, path string, q url.Values, body, out any, auth bool) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	reqID := uuid.NewString()
	h := http.Header{}
	h.Set(common.RequestIDHeaderName, reqID)

	if auth && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		if token != "" {
			h.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	start := time.Now()
	err := netx.DoJSON(ctx, c.hc, netx.Request{Method: method, URL: u, Header: h, Body: body}, out)
	err = c.mapError(ctx, err)

	c.log.Debug(ctx, "api call",
		"method", method,
		"path", path,
		"request_id", reqID,
		"elapsed", time.Since(start),
		"error", err,
	)
	return err
}

func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		var msg serverMessage
		_ = json.Unmarshal(se.Body, &msg)
		text := msg.Message
		if text == "" {
			text = msg.Error
		}
		return &APIError{StatusCode: se.StatusCode, Message: text, Err: sentinelFor(se.StatusCode)}
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func listQuery(q ListQuery) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.VendorID != "" {
		v.Set("vendorId", string(q.VendorID))
	}
	return v
}

func (c *HTTPClient) CheckUserRole(ctx context.Context, mobile string) (*models.Principal, error) {
	var out envelope[struct {
		User *models.Principal `json:"user"`
	}]
	err := c.call(ctx, http.MethodPost, pathCheckUserRole, nil, map[string]string{"mobile": mobile}, &out, false)
	if err != nil {
		return nil, err
	}
	return out.Data.User, nil
}

func (c *HTTPClient) ExchangeToken(ctx context.Context, mobile, providerUserID string) (string, models.Principal, error) {
	var out envelope[struct {
		Token string           `json:"token"`
		User  models.Principal `json:"user"`
	}]
	body := map[string]string{"mobile": mobile, "firebaseUid": providerUserID}
	if err := c.call(ctx, http.MethodPost, pathExchangeToken, nil, body, &out, false); err != nil {
		return "", models.Principal{}, err
	}

	if out.Success == nil || !*out.Success || out.Data.Token == "" {
		msg := out.Message
		if msg == "" {
			msg = msgAuthenticationFailed
		}
		return "", models.Principal{}, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return out.Data.Token, out.Data.User, nil
}

func (c *HTTPClient) ListVendors(ctx context.Context, q ListQuery) ([]models.Vendor, error) {
	var out envelope[list[models.Vendor]]
	if err := c.call(ctx, http.MethodGet, pathVendors, listQuery(q), nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ListCustomers(ctx context.Context, q ListQuery) ([]models.Customer, error) {
	var out envelope[list[models.Customer]]
	if err := c.call(ctx, http.MethodGet, pathCustomers, listQuery(q), nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) CustomerCountByVendor(ctx context.Context) ([]models.VendorCustomerCount, error) {
	var out envelope[list[models.VendorCustomerCount]]
	if err := c.call(ctx, http.MethodGet, pathCustomerCounts, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var out envelope[list[models.Plan]]
	if err := c.call(ctx, http.MethodGet, pathPlans, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ListSubscriptions(ctx context.Context, q ListQuery) ([]models.Subscription, error) {
	var out envelope[list[models.Subscription]]
	if err := c.call(ctx, http.MethodGet, pathSubscriptions, listQuery(q), nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error) {
	var out envelope[models.SubscriptionStats]
	if err := c.call(ctx, http.MethodGet, pathSubscriptionStats, nil, nil, &out, true); err != nil {
		return models.SubscriptionStats{}, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ExpiringSubscriptions(ctx context.Context, days int) ([]models.Subscription, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var out envelope[list[models.Subscription]]
	if err := c.call(ctx, http.MethodGet, pathExpiring, q, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) ExpiredToday(ctx context.Context) ([]models.Subscription, error) {
	var out envelope[list[models.Subscription]]
	if err := c.call(ctx, http.MethodGet, pathExpiredToday, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Ping checks that the API answers at all.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, pathHealth, nil, nil, nil, false)
}
