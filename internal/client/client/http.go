package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/dmitrijs2005/itemgate/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	log     logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds every request; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient resolves every endpoint against baseURL and attaches the
// token from tokens, when non-empty, as a bearer Authorization header.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		base:   base,
		http:   http.DefaultClient,
		tokens: tokens,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) MfaStatus(ctx context.Context, email string) (*models.MfaStatus, error) {
	var out models.MfaStatus
	q := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, c.endpoint(q, "auth", "mfa-status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LoginPassword(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	in := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil, "auth", "login", "password"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LoginOTP(ctx context.Context, email, otp string) (*models.LoginResult, error) {
	var out models.LoginResult
	in := models.OtpCredentials{Email: email, OTP: otp}
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil, "auth", "login", "otp"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	in := models.Credentials{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, c.endpoint(nil, "auth", "register"), in, nil)
}

func (c *HTTPClient) RegisterMfaKey(ctx context.Context, email, readableKey string) (*models.MfaKeyResult, error) {
	var out models.MfaKeyResult
	in := models.MfaKeyRequest{Email: email, ReadableKey: readableKey}
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil, "auth", "mfa", "register-key"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListItems(ctx context.Context, page, limit int) (*models.ItemsPage, error) {
	var out models.ItemsPage
	q := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, c.endpoint(q, "items"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateItem(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	var out models.Item
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil, "items"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateItem(ctx context.Context, id string, in models.ItemInput) (*models.Item, error) {
	var out models.Item
	if err := c.do(ctx, http.MethodPut, c.endpoint(nil, "items", url.PathEscape(id)), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint(nil, "items", url.PathEscape(id)), nil, nil)
}

func (c *HTTPClient) endpoint(q url.Values, elem ...string) string {
	u := c.base.JoinPath(elem...)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends one request. The token is read right before sending, so a
// session replaced by the caller is already in effect.
func (c *HTTPClient) do(ctx context.Context, method, target string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn(ctx, "gateway request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
		var envelope struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
		c.log.Debug(ctx, "gateway error", "method", method, "url", target, "status", resp.StatusCode, "request_id", requestID)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
