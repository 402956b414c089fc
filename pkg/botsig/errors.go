package botsig

import "errors"

// Kind identifies why a signed request was rejected.
type Kind string

const (
	KindMissingHeaders Kind = "missing_headers"
	KindBadTimestamp   Kind = "bad_timestamp"
	KindStale          Kind = "stale"
	KindReplay         Kind = "replay"
	KindBadSignature   Kind = "bad_signature"
)

// Error is a verification failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return "botsig: " + string(e.Kind) + ": " + e.Message
}

// Is matches any *Error of the same Kind, so callers can use the package
// sentinels with errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrMissingHeaders = &Error{Kind: KindMissingHeaders, Message: "signature headers missing"}
	ErrBadTimestamp   = &Error{Kind: KindBadTimestamp, Message: "timestamp is not an integer"}
	ErrStale          = &Error{Kind: KindStale, Message: "timestamp outside freshness window"}
	ErrReplay         = &Error{Kind: KindReplay, Message: "nonce already used"}
	ErrBadSignature   = &Error{Kind: KindBadSignature, Message: "signature mismatch"}
)

// ErrEmptySecret is returned when a Signer or Verifier is built without a
// shared secret. It is a startup error, not a per-request one.
var ErrEmptySecret = errors.New("botsig: shared secret is empty")

// ErrBodyTooLarge is returned by VerifyRequest when the body exceeds
// MaxBodyBytes. Nothing is verified and no nonce is spent.
var ErrBodyTooLarge = errors.New("botsig: request body too large")

// KindOf returns the Kind carried by err, or "" when err is not a
// verification failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}
