package venmo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures returned by [Client] methods.
type ErrorKind int

const (
	// KindAPI is a failure reported by the Venmo service (non-2xx response or GraphQL error).
	KindAPI ErrorKind = iota + 1
	// KindAuth means the access token was rejected.
	KindAuth
	// KindValidation means the caller supplied malformed input. No request was sent.
	KindValidation
	// KindNotFound means the requested resource does not exist.
	KindNotFound
	// KindNetwork is a transport-level failure; no response was received.
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any [*Error] of the same kind.
var (
	ErrAPI        = errors.New("venmo api error")
	ErrAuth       = errors.New("venmo authentication error")
	ErrValidation = errors.New("venmo validation error")
	ErrNotFound   = errors.New("venmo resource not found")
	ErrNetwork    = errors.New("venmo network error")

	// ErrNoFundingSource is wrapped by SendMoney when no wallet instrument can cover the payment.
	ErrNoFundingSource = errors.New("no funding source available")
)

// Error is the error type returned by every [Client] operation.
type Error struct {
	Kind       ErrorKind
	Op         string // client operation, e.g. "get identity"
	StatusCode int    // HTTP status, 0 when no response was received
	Code       string // Venmo application error code, if any
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("venmo")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	switch {
	case e.StatusCode > 0 && e.Code != "":
		fmt.Fprintf(&b, " (HTTP %d, code %s)", e.StatusCode, e.Code)
	case e.StatusCode > 0:
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindAPI:
		return ErrAPI
	case KindAuth:
		return ErrAuth
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindNetwork:
		return ErrNetwork
	default:
		return nil
	}
}

func IsAuthError(err error) bool       { return errors.Is(err, ErrAuth) }
func IsValidationError(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFoundError(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsAPIError(err error) bool        { return errors.Is(err, ErrAPI) }
func IsNetworkError(err error) bool    { return errors.Is(err, ErrNetwork) }

func validationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}
