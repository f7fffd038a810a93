package venmo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL    = "https://api.venmo.com/v1"
	DefaultGraphQLURL = "https://api.venmo.com/graphql"
	DefaultUserAgent  = "Venmo/10.47.0 (iPhone; iOS 17.4; Scale/3.00)"
)

type Option func(*Options)

type Options struct {
	baseURL          string
	graphQLURL       string
	deviceID         string
	userAgent        string
	timeout          time.Duration
	retryCount       int
	retryWaitTime    time.Duration
	retryMaxWaitTime time.Duration
	requestLogger    RequestLogger
	retryPolicy      func(*resty.Response, error) bool
	requestHeaders   map[string]string
}

func newClientOptions() *Options {
	return &Options{
		baseURL:          DefaultBaseURL,
		graphQLURL:       DefaultGraphQLURL,
		deviceID:         uuid.New().String(),
		userAgent:        DefaultUserAgent,
		timeout:          30 * time.Second,
		retryCount:       0,
		retryWaitTime:    500 * time.Millisecond,
		retryMaxWaitTime: 3 * time.Second,
		requestLogger:    &NoopLogger{},
		retryPolicy:      DefaultRetryPolicy,
		requestHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithGraphQLURL(graphQLURL string) Option {
	return func(o *Options) {
		o.graphQLURL = strings.TrimSpace(graphQLURL)
	}
}

// WithDeviceID sets the device-id header. Venmo ties tokens to the device
// they were issued on, so reuse the id from the login that produced the token.
func WithDeviceID(deviceID string) Option {
	return func(o *Options) {
		if deviceID = strings.TrimSpace(deviceID); deviceID != "" {
			o.deviceID = deviceID
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		if userAgent = strings.TrimSpace(userAgent); userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithRetryCount(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.retryCount = count
		}
	}
}

func WithRetryWaitTime(waitTime time.Duration) Option {
	return func(o *Options) {
		if waitTime >= 100*time.Millisecond {
			o.retryWaitTime = waitTime
		}
	}
}

func WithRetryMaxWaitTime(maxWaitTime time.Duration) Option {
	return func(o *Options) {
		if maxWaitTime >= 100*time.Millisecond {
			o.retryMaxWaitTime = maxWaitTime
		}
	}
}

func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

func WithRetryPolicy(policy func(*resty.Response, error) bool) Option {
	return func(o *Options) {
		if policy != nil {
			o.retryPolicy = policy
		}
	}
}

// WithRequestHeader adds a header to every request. Content-Type, Accept,
// Authorization, User-Agent and device-id are owned by the client and cannot
// be overridden here.
func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || isReservedHeader(header) {
			return
		}

		o.requestHeaders[header] = value
	}
}

func isReservedHeader(header string) bool {
	for _, reserved := range []string{"Content-Type", "Accept", "Authorization", "User-Agent", "device-id"} {
		if strings.EqualFold(header, reserved) {
			return true
		}
	}

	return false
}

func (o *Options) Validate() error {
	if o.baseURL == "" {
		return errors.New("base URL must be set")
	}

	if o.graphQLURL == "" {
		return errors.New("GraphQL URL must be set")
	}

	if o.deviceID == "" {
		return errors.New("deviceID must be set")
	}

	if o.timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if o.timeout > 5*time.Minute {
		return fmt.Errorf("timeout must not exceed %v", 5*time.Minute)
	}

	if o.retryCount < 0 {
		return errors.New("retryCount must be non-negative")
	}

	if o.retryCount > 100 {
		return errors.New("retryCount must not exceed 100")
	}

	if o.retryWaitTime < 100*time.Millisecond {
		return errors.New("retryWaitTime must be at least 100ms")
	}

	if o.retryWaitTime > time.Minute {
		return fmt.Errorf("retryWaitTime must not exceed %v", time.Minute)
	}

	if o.retryMaxWaitTime < 100*time.Millisecond {
		return errors.New("retryMaxWaitTime must be at least 100ms")
	}

	if o.retryMaxWaitTime > 5*time.Minute {
		return fmt.Errorf("retryMaxWaitTime must not exceed %v", 5*time.Minute)
	}

	if o.retryMaxWaitTime < o.retryWaitTime {
		return fmt.Errorf("retryMaxWaitTime (%v) must be greater than or equal to retryWaitTime (%v)", o.retryMaxWaitTime, o.retryWaitTime)
	}

	if o.requestLogger == nil {
		return errors.New("requestLogger must not be nil")
	}

	if o.retryPolicy == nil {
		return errors.New("retryPolicy must not be nil")
	}

	return nil
}
