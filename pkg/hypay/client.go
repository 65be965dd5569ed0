package hypay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/pkg/config"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://pay.hyp.co.il/p/"
	responseBodyReadLimit int64 = 16 * 1024
)

var (
	errTerminalRequired = errors.New("hypay terminal id is required")
	errAPIKeyRequired   = errors.New("hypay api key is required")

	// The gateway reports failures inside an otherwise-200 form-encoded
	// body, as an Error=<code> pair.
	errorPairPattern = regexp.MustCompile(`(^|&)Error=`)
)

// GatewayError is a rejection the gateway reports inside an
// otherwise-successful response. Body holds the raw form-encoded text,
// Error=<code> pair included, for passthrough to the caller.
type GatewayError struct {
	Body string
}

func (e *GatewayError) Error() string {
	return "hypay rejected sign request: " + e.Body
}

// Client signs payment parameters against the Hypay APISign endpoint.
// The signed string is handed to the storefront, which redirects the
// shopper to the hosted payment page with it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	terminalID string
	apiKey     string
	passphrase string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured gateway base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Hypay client from merchant configuration.
func NewClient(cfg config.HypayConfig, opts ...Option) (*Client, error) {
	terminal := strings.TrimSpace(cfg.TerminalID)
	if terminal == "" {
		return nil, errTerminalRequired
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		terminalID: terminal,
		apiKey:     key,
		passphrase: strings.TrimSpace(cfg.Passphrase),
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// SignRequest carries the parameters forwarded to the signing endpoint.
// Amount is the order total; the remaining pairs (Info, UTF8, shopper
// details and so on) pass through untouched.
type SignRequest struct {
	Amount decimal.Decimal
	Params map[string]string
}

// Sign requests a signed parameter string for the hosted payment page.
// The response body is returned verbatim so the caller can append it to
// the redirect URL without re-encoding.
func (c *Client) Sign(ctx context.Context, req SignRequest) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "hypay client not configured")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "sign amount must be positive")
	}

	query := url.Values{}
	query.Set("action", "APISign")
	query.Set("What", "SIGN")
	query.Set("Masof", c.terminalID)
	query.Set("KEY", c.apiKey)
	query.Set("Sign", "True")
	query.Set("Amount", req.Amount.StringFixed(2))
	if c.passphrase != "" {
		query.Set("PassP", c.passphrase)
	}
	for key, value := range req.Params {
		key = strings.TrimSpace(key)
		if key == "" || reservedParam(key) {
			continue
		}
		query.Set(key, value)
	}

	endpoint := fmt.Sprintf("%s?%s", strings.TrimRight(c.baseURL, "?"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build hypay sign request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute hypay sign request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read hypay sign response")
	}
	signed := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, signed), "hypay sign request failed")
	}
	if signed == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "hypay sign response was empty")
	}
	if errorPairPattern.MatchString(signed) {
		return "", &GatewayError{Body: signed}
	}

	return signed, nil
}

// reservedParam keeps callers from overriding the merchant credentials.
func reservedParam(key string) bool {
	switch key {
	case "action", "What", "Masof", "KEY", "PassP", "Sign", "Amount":
		return true
	}
	return false
}
