// Package venmo provides an HTTP client for the unofficial Venmo API.
//
// The client wraps [github.com/go-resty/resty/v2] and maps every operation
// onto one authenticated request: account identity and balance, the
// transaction feed, wallet funding instruments, payments, money requests and
// user lookup.
//
// # Basic Usage
//
//	c := venmo.New(accessToken,
//	    venmo.WithDeviceID(deviceID),
//	)
//
//	if err := c.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	user, err := c.LookupUser(ctx, "some-handle")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tx, err := c.SendMoney(ctx, venmo.PaymentRequest{
//	    RecipientID: user.ID,
//	    Amount:      12.50,
//	    Note:        "lunch",
//	})
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to [New], or
// loaded from VENMO_* environment variables with [LoadConfig] and
// [NewFromConfig]. Invalid option values are silently ignored and the
// default is retained; all configuration is validated when [Client.Connect]
// is called. Connect also verifies the access token with one account lookup.
//
// # Errors
//
// Every operation returns [*Error] values. Use errors.Is with [ErrAuth],
// [ErrValidation], [ErrNotFound], [ErrAPI] and [ErrNetwork], or the IsXxx
// helpers, to branch on the kind:
//
//	if venmo.IsAuthError(err) {
//	    // token invalid or expired
//	}
//
// Validation errors are raised before any request is sent.
//
// # Retry Behaviour
//
// Retries are disabled by default. [WithRetryCount] enables them; the
// [DefaultRetryPolicy] then retries GET requests on HTTP 429, 5xx and
// transient connection errors. Payments are never retried.
//
// # Logging and Metrics
//
// Implement [RequestLogger] or wrap a zerolog logger with [NewZerologLogger]
// and supply it via [WithRequestLogger]. The default [NoopLogger] discards
// all output. Log lines carry the operation, method, path and status; the
// access token is never logged. Call counts and latencies are exported as
// Prometheus metrics under the venmo_client namespace.
package venmo
