package botsig

import "net/http"

const (
	HeaderTimestamp = "X-Bot-Timestamp"
	HeaderNonce     = "X-Bot-Nonce"
	HeaderSignature = "X-Bot-Signature"
)

// Headers are the three signature values carried by a signed request.
type Headers struct {
	Timestamp string
	Nonce     string
	Signature string
}

// HeadersFrom reads the signature headers from h.
func HeadersFrom(h http.Header) Headers {
	return Headers{
		Timestamp: h.Get(HeaderTimestamp),
		Nonce:     h.Get(HeaderNonce),
		Signature: h.Get(HeaderSignature),
	}
}

// Apply writes the signature headers onto h.
func (s Headers) Apply(h http.Header) {
	h.Set(HeaderTimestamp, s.Timestamp)
	h.Set(HeaderNonce, s.Nonce)
	h.Set(HeaderSignature, s.Signature)
}

func (s Headers) complete() bool {
	return s.Timestamp != "" && s.Nonce != "" && s.Signature != ""
}
