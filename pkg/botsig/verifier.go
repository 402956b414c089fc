package botsig

import (
	"bytes"
	"context"
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultWindow is the maximum accepted clock skew between bot and API.
	DefaultWindow = 120 * time.Second

	// DefaultReplayTTL is how long a consumed (timestamp, nonce) pair is
	// remembered. It must be at least the window.
	DefaultReplayTTL = 180 * time.Second

	DefaultKeyPrefix = "botsig:replay:"

	// MaxBodyBytes caps the body VerifyRequest will buffer.
	MaxBodyBytes = 1 << 20
)

// ReplayStore remembers consumed nonces. SetNX must be atomic across every
// API instance sharing the store.
type ReplayStore interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

type Option func(*Verifier)

func WithWindow(d time.Duration) Option    { return func(v *Verifier) { v.window = d } }
func WithReplayTTL(d time.Duration) Option { return func(v *Verifier) { v.replayTTL = d } }
func WithKeyPrefix(p string) Option        { return func(v *Verifier) { v.prefix = p } }

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option { return func(v *Verifier) { v.now = now } }

// Verifier checks freshness, replay uniqueness and the HMAC of inbound
// signed requests.
type Verifier struct {
	secret    []byte
	replay    ReplayStore
	window    time.Duration
	replayTTL time.Duration
	prefix    string
	now       func() time.Time
}

func NewVerifier(secret []byte, replay ReplayStore, opts ...Option) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if replay == nil {
		return nil, errors.New("botsig: replay store is required")
	}

	v := &Verifier{
		secret:    secret,
		replay:    replay,
		window:    DefaultWindow,
		replayTTL: DefaultReplayTTL,
		prefix:    DefaultKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.window <= 0 {
		return nil, fmt.Errorf("botsig: window must be positive, got %s", v.window)
	}
	if v.replayTTL < v.window {
		return nil, fmt.Errorf("botsig: replay ttl %s shorter than window %s", v.replayTTL, v.window)
	}
	return v, nil
}

// Window returns the configured freshness window.
func (v *Verifier) Window() time.Duration { return v.window }

// Verify authenticates one request. The replay claim is taken before the
// signature is checked and is kept even when the signature then fails, so a
// nonce is spent by its first appearance.
func (v *Verifier) Verify(ctx context.Context, h Headers, method, path string, body []byte) error {
	if !h.complete() {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(h.Timestamp, 10, 64)
	if err != nil {
		return ErrBadTimestamp
	}

	// Bounds in whole seconds so an extreme ts cannot overflow.
	now, window := v.now().Unix(), int64(v.window/time.Second)
	if ts < now-window || ts > now+window {
		return newError(KindStale, fmt.Sprintf("timestamp %d outside %s of %d", ts, v.window, now))
	}

	fresh, err := v.replay.SetNX(ctx, v.prefix+h.Timestamp+":"+h.Nonce, "1", v.replayTTL)
	if err != nil {
		return fmt.Errorf("botsig: replay store: %w", err)
	}
	if !fresh {
		return ErrReplay
	}

	got, err := hex.DecodeString(h.Signature)
	if err != nil {
		return newError(KindBadSignature, "signature is not hex")
	}
	want := computeSignature(v.secret, CanonicalMessage(ts, method, path, body))
	if !hmac.Equal(got, want) {
		return ErrBadSignature
	}

	return nil
}

// VerifyRequest verifies r against its request URI and body. The body is
// buffered and restored so handlers can still read it.
func (v *Verifier) VerifyRequest(r *http.Request) error {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
		_ = r.Body.Close()
		if err != nil {
			return fmt.Errorf("botsig: read body: %w", err)
		}
		if len(body) > MaxBodyBytes {
			return ErrBodyTooLarge
		}
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	return v.Verify(r.Context(), HeadersFrom(r.Header), r.Method, r.URL.RequestURI(), body)
}
