package venmo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	errNilClient    = errors.New("venmo client is nil")
	errNotConnected = errors.New("client not connected - call Connect() first")
)

// Client is a Venmo API client bound to a single access token. Create it
// with [New], call [Client.Connect] once, then use it from any goroutine.
type Client struct {
	accessToken string
	options     *Options

	mu sync.Mutex
	rc atomic.Pointer[resty.Client]
}

// New creates a client for accessToken. A leading "Bearer " prefix is
// accepted and stripped. No network traffic happens until Connect.
func New(accessToken string, opts ...Option) *Client {
	options := newClientOptions()

	for _, opt := range opts {
		opt(options)
	}

	accessToken = strings.TrimSpace(accessToken)
	accessToken = strings.TrimSpace(strings.TrimPrefix(accessToken, "Bearer "))

	return &Client{
		accessToken: accessToken,
		options:     options,
	}
}

// Connect validates the options, builds the HTTP client and verifies the
// access token with a single account lookup. Calling it on an already
// connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c == nil {
		return errNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rc.Load() != nil {
		return nil
	}

	if c.options.baseURL == "" {
		return errors.New("base URL must be set")
	}

	if err := c.options.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if c.accessToken == "" {
		return &Error{Kind: KindAuth, Op: "connect", Message: "access token must be set"}
	}

	rc := resty.New().
		SetBaseURL(c.options.baseURL).
		SetTimeout(c.options.timeout).
		SetRetryCount(c.options.retryCount).
		SetRetryWaitTime(c.options.retryWaitTime).
		SetRetryMaxWaitTime(c.options.retryMaxWaitTime).
		AddRetryCondition(c.options.retryPolicy).
		SetLogger(c.options.requestLogger).
		SetHeaders(c.options.requestHeaders).
		SetHeader("User-Agent", c.options.userAgent).
		SetHeader("device-id", c.options.deviceID).
		SetAuthScheme("Bearer").
		SetAuthToken(c.accessToken)

	if _, err := c.fetchIdentity(ctx, rc, "connect"); err != nil {
		rc.GetClient().CloseIdleConnections()
		return fmt.Errorf("failed to verify Venmo credentials: %w", err)
	}

	c.rc.Store(rc)

	return nil
}

// Close releases idle connections. The client must be connected again
// before further use. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if rc := c.rc.Swap(nil); rc != nil {
		rc.GetClient().CloseIdleConnections()
	}

	return nil
}

func (c *Client) restyClient() (*resty.Client, error) {
	if c == nil {
		return nil, errNilClient
	}

	rc := c.rc.Load()
	if rc == nil {
		return nil, errNotConnected
	}

	return rc, nil
}

// execute performs one API call. target is either a path relative to the
// base URL or an absolute URL. out, when non-nil, receives the decoded body.
func (c *Client) execute(ctx context.Context, rc *resty.Client, op, method, target string, query url.Values, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, rc, op, method, target, query, body, out)
	observeRequest(op, err, time.Since(start))

	return err
}

func (c *Client) roundTrip(ctx context.Context, rc *resty.Client, op, method, target string, query url.Values, body, out any) error {
	req := rc.R().SetContext(ctx)

	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		c.options.requestLogger.Errorf("venmo %s: %s %s failed: %v", op, method, target, err)
		return &Error{Kind: KindNetwork, Op: op, Message: method + " " + target, Err: err}
	}

	status := resp.StatusCode()
	c.options.requestLogger.Debugf("venmo %s: %s %s -> %d in %v", op, method, target, status, resp.Time())

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		apiErr := responseError(op, status, resp.Body())
		c.options.requestLogger.Warnf("venmo %s: %s %s rejected: %s", op, method, target, apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{Kind: KindAPI, Op: op, StatusCode: status, Message: "malformed response body", Err: err}
	}

	return nil
}

// responseError maps a non-2xx response onto an error kind. Venmo reports
// some missing resources as 400 with a fixed message instead of 404.
func responseError(op string, status int, body []byte) *Error {
	message, code := remoteErrorDetail(body)

	kind := KindAPI
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuth
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest && message == "Resource not found.":
		kind = KindNotFound
	}

	return &Error{Kind: kind, Op: op, StatusCode: status, Code: code, Message: message}
}

func remoteErrorDetail(body []byte) (message, code string) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "(empty error body)", ""
	}

	var payload struct {
		Error  json.RawMessage `json:"error"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return raw, ""
	}

	if len(payload.Error) > 0 {
		var detail struct {
			Message string          `json:"message"`
			Code    json.RawMessage `json:"code"`
		}
		if json.Unmarshal(payload.Error, &detail) == nil && detail.Message != "" {
			return detail.Message, rawScalar(detail.Code)
		}

		var text string
		if json.Unmarshal(payload.Error, &text) == nil && text != "" {
			return text, ""
		}
	}

	if len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
		return payload.Errors[0].Message, ""
	}

	return raw, ""
}

// rawScalar renders a JSON string or number as plain text.
func rawScalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}

	return strings.Trim(s, `"`)
}
