package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/vendorconsole/internal/logging"
	"github.com/dmitrijs2005/vendorconsole/internal/netx"
)

// DefaultIdentityBaseURL is the public Identity Toolkit endpoint.
const DefaultIdentityBaseURL = "https://identitytoolkit.googleapis.com"

var rejectedCodes = map[string]bool{
	"INVALID_CODE":         true,
	"SESSION_EXPIRED":      true,
	"INVALID_SESSION_INFO": true,
	"CODE_EXPIRED":         true,
}

// ProviderError carries the provider's own failure message.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("identity provider error (%d)", e.StatusCode)
}

// IdentityToolkit is a Provider backed by the Identity Toolkit REST API.
type IdentityToolkit struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	log     logging.Logger
}

func NewIdentityToolkit(baseURL, apiKey string, hc *http.Client, log logging.Logger) *IdentityToolkit {
	if baseURL == "" {
		baseURL = DefaultIdentityBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &IdentityToolkit{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      hc,
		log:     log,
	}
}

type sendCodeRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
}

type signInRequest struct {
	SessionInfo string `json:"sessionInfo"`
	Code        string `json:"code"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	PhoneNumber string `json:"phoneNumber"`
}

func (p *IdentityToolkit) endpoint(method string) string {
	q := url.Values{}
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}
	u := p.baseURL + "/v1/accounts:" + method
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (p *IdentityToolkit) InitiateChallenge(ctx context.Context, phoneE164, botToken string) (Challenge, error) {
	var out sendCodeResponse
	err := netx.DoJSON(ctx, p.hc, netx.Request{
		Method: http.MethodPost,
		URL:    p.endpoint("sendVerificationCode"),
		Body:   sendCodeRequest{PhoneNumber: phoneE164, RecaptchaToken: botToken},
	}, &out)
	if err != nil {
		err = providerError(err)
		p.log.Warn(ctx, "send verification code failed", "phone", logging.Fingerprint(phoneE164), "error", err)
		return nil, err
	}
	if out.SessionInfo == "" {
		return nil, &ProviderError{StatusCode: http.StatusOK, Message: "identity provider returned no session"}
	}

	p.log.Debug(ctx, "verification code sent", "phone", logging.Fingerprint(phoneE164))
	return &phoneChallenge{provider: p, sessionInfo: out.SessionInfo}, nil
}

type phoneChallenge struct {
	provider    *IdentityToolkit
	sessionInfo string
	invalid     atomic.Bool
}

func (c *phoneChallenge) Invalidate() {
	c.invalid.Store(true)
}

func (c *phoneChallenge) Confirm(ctx context.Context, code string) (Result, error) {
	if c.invalid.Load() {
		return Result{}, ErrChallengeInvalidated
	}

	var out signInResponse
	err := netx.DoJSON(ctx, c.provider.hc, netx.Request{
		Method: http.MethodPost,
		URL:    c.provider.endpoint("signInWithPhoneNumber"),
		Body:   signInRequest{SessionInfo: c.sessionInfo, Code: code},
	}, &out)
	if err != nil {
		return Result{}, providerError(err)
	}
	if c.invalid.Load() {
		return Result{}, ErrChallengeInvalidated
	}
	if out.LocalID == "" {
		return Result{}, &ProviderError{StatusCode: http.StatusOK, Message: "identity provider returned no user"}
	}

	return Result{UserID: out.LocalID, PhoneNumber: out.PhoneNumber}, nil
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// providerError turns a failed round trip into a ProviderError, or into
// ErrCodeRejected when the provider refused the code or session.
func providerError(err error) error {
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	var env errorEnvelope
	_ = json.Unmarshal(se.Body, &env)

	// Messages look like "INVALID_CODE" or "TOO_SHORT : detail".
	code, detail, _ := strings.Cut(env.Error.Message, ":")
	code = strings.TrimSpace(code)
	if rejectedCodes[code] {
		return fmt.Errorf("%w: %s", ErrCodeRejected, code)
	}

	msg := strings.TrimSpace(detail)
	if msg == "" {
		msg = code
	}
	return &ProviderError{StatusCode: se.StatusCode, Code: code, Message: msg}
}
