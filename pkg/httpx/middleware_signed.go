package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

// RequestVerifier is satisfied by *botsig.Verifier.
type RequestVerifier interface {
	VerifyRequest(r *http.Request) error
}

// SignedRequestMiddleware rejects requests that do not carry a valid,
// fresh, unused bot signature. Every rejection kind is reported on the wire
// as 401 invalid_signature with the kind as detail.
func SignedRequestMiddleware(v RequestVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			err := v.VerifyRequest(r)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			if errors.Is(err, botsig.ErrBodyTooLarge) {
				log.Warn("signed request body too large")
				WriteError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body exceeds limit")
				return
			}

			kind := botsig.KindOf(err)
			if kind == "" {
				log.Error("signature verification unavailable", slog.Any("err", err))
				WriteError(w, http.StatusServiceUnavailable, "signature_unavailable", "unable to verify request signature")
				return
			}

			log.Warn("signed request rejected", slog.String("kind", string(kind)))
			WriteError(w, http.StatusUnauthorized, "invalid_signature", string(kind))
		})
	}
}
