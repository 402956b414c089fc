// Package botsig authenticates bot-to-API requests with an HMAC-SHA256
// signature over a canonical message, a timestamp and a single-use nonce.
package botsig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/cryptox"
)

// CanonicalMessage is "{ts}.{METHOD}.{path}.{sha256hex(body)}".
func CanonicalMessage(ts int64, method, path string, body []byte) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(ts, 10))
	b.WriteByte('.')
	b.WriteString(strings.ToUpper(method))
	b.WriteByte('.')
	b.WriteString(path)
	b.WriteByte('.')
	b.WriteString(cryptox.SHA256Hex(body))
	return b.String()
}

func computeSignature(secret []byte, msg string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

// Signer produces signature headers for outbound requests.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: secret, now: time.Now}, nil
}

// Sign stamps the current time and a fresh random nonce.
func (s *Signer) Sign(method, path string, body []byte) (Headers, error) {
	nonce, err := cryptox.GenerateHex(cryptox.NonceSize)
	if err != nil {
		return Headers{}, err
	}
	return s.SignAt(s.now().Unix(), nonce, method, path, body), nil
}

// SignAt is the deterministic core of Sign.
func (s *Signer) SignAt(ts int64, nonce, method, path string, body []byte) Headers {
	sig := computeSignature(s.secret, CanonicalMessage(ts, method, path, body))
	return Headers{
		Timestamp: strconv.FormatInt(ts, 10),
		Nonce:     nonce,
		Signature: hex.EncodeToString(sig),
	}
}
