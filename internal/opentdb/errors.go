package opentdb

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	KindBadRequestURL ErrorKind = iota + 1
	KindNetwork
	KindEmptyResults
	KindDecoding
	KindNonZeroResponseCode
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequestURL:
		return "bad request url"
	case KindNetwork:
		return "network error"
	case KindEmptyResults:
		return "empty results"
	case KindDecoding:
		return "decoding error"
	case KindNonZeroResponseCode:
		return "non-zero response code"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A *FetchError matches the sentinel of its kind.
var (
	ErrBadRequestURL       = &FetchError{Kind: KindBadRequestURL}
	ErrNetwork             = &FetchError{Kind: KindNetwork}
	ErrEmptyResults        = &FetchError{Kind: KindEmptyResults}
	ErrDecoding            = &FetchError{Kind: KindDecoding}
	ErrNonZeroResponseCode = &FetchError{Kind: KindNonZeroResponseCode}
)

var errNotAbsolute = errors.New("base url must be absolute")

// Provider response codes.
const (
	CodeSuccess          = 0
	CodeNoResults        = 1
	CodeInvalidParameter = 2
	CodeTokenNotFound    = 3
	CodeTokenEmpty       = 4
	CodeRateLimit        = 5
)

// FetchError is the only error type returned by Client.Fetch.
type FetchError struct {
	Kind  ErrorKind
	Code  int   // provider response_code, set for KindNonZeroResponseCode
	Cause error // underlying error for KindNetwork and KindDecoding
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindBadRequestURL:
		return "could not build request URL"
	case KindEmptyResults:
		return "no questions were returned"
	case KindNonZeroResponseCode:
		return fmt.Sprintf("provider returned response_code %d (%s)", e.Code, describeCode(e.Code))
	case KindNetwork, KindDecoding:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
		}
	}
	return e.Kind.String()
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is matches any FetchError of the same kind, so the package sentinels work
// with errors.Is regardless of code or cause.
func (e *FetchError) Is(target error) bool {
	var t *FetchError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// ResponseCode extracts the provider code from err, if it carries one.
func ResponseCode(err error) (int, bool) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == KindNonZeroResponseCode {
		return fe.Code, true
	}
	return 0, false
}

func describeCode(code int) string {
	switch code {
	case CodeNoResults:
		return "not enough questions for the query"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeTokenNotFound:
		return "session token not found"
	case CodeTokenEmpty:
		return "session token exhausted"
	case CodeRateLimit:
		return "rate limit exceeded"
	default:
		return "unknown code"
	}
}

func badRequestURL() error {
	return &FetchError{Kind: KindBadRequestURL}
}

func networkError(cause error) error {
	return &FetchError{Kind: KindNetwork, Cause: cause}
}

func emptyResults() error {
	return &FetchError{Kind: KindEmptyResults}
}

func decodingError(cause error) error {
	return &FetchError{Kind: KindDecoding, Cause: cause}
}

func nonZeroResponseCode(code int) error {
	return &FetchError{Kind: KindNonZeroResponseCode, Code: code}
}
