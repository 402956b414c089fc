package httpx

import (
	"net/http"
	"slices"

	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

// RequireSubject only lets through callers whose token subject is one of
// allowed. It must run after AuthnMiddleware.
func RequireSubject(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := SubjectFrom(r.Context())
			if sub == "" || !slices.Contains(allowed, sub) {
				slogx.FromContext(r.Context()).Warn("subject not permitted", "sub", sub, "path", r.URL.Path)
				WriteError(w, http.StatusForbidden, "forbidden", "caller is not permitted to use this endpoint")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
