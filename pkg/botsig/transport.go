package botsig

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport signs every outbound request before handing it to Base.
type Transport struct {
	Signer *Signer

	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("botsig: read request body: %w", err)
		}
	}

	h, err := t.Signer.Sign(req.Method, req.URL.RequestURI(), body)
	if err != nil {
		return nil, err
	}

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.ContentLength = int64(len(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	h.Apply(out.Header)

	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
