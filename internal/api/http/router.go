package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/aussiebroadwan/tasker/api/docs" // Swagger docs
	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/httpx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is a dependency whose liveness /readyz reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	signatures   httpx.RequestVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	replayStore Pinger

	// BotSubject is the user ID of the bot service account. Only it may
	// start and confirm links.
	BotSubject string

	TokenService *service.TokenService
	LinkService  *service.LinkService
	UserService  *service.UserService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	signatures httpx.RequestVerifier,
	buildVersion string,
	st store.Store,
	replayStore Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		signatures:   signatures,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		replayStore:  replayStore,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTokens()
	r.registerLinks()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tasker API
//	@version		0.1.0
//	@description	Token issuer, account linking and identity endpoints used by the tasker bot.
//	@description
//	@description	Every /api/link and /api/whoami request must carry X-Bot-Timestamp, X-Bot-Nonce and
//	@description	X-Bot-Signature headers: hex HMAC-SHA256 over "{ts}.{METHOD}.{path}.{sha256hex(body)}".
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/tasker
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				EdDSA JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTokens() {
	// POST /api/token - strict rate limit by IP (password attempts)
	r.Mux.Handle("POST /api/token",
		httpx.Chain(&TokenHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/token/refresh",
		httpx.Chain(&RefreshHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerLinks() {
	// Signature first so unsigned traffic never reaches token verification.
	botOnly := func(h http.Handler, limit httpx.Middleware) http.Handler {
		return httpx.Chain(h,
			httpx.SignedRequestMiddleware(r.signatures),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireSubject(r.BotSubject),
			limit,
		)
	}

	r.Mux.Handle("POST /api/link/start",
		botOnly(&LinkStartHandler{LinkService: r.LinkService}, httpx.RateLimitByUser(httpx.ModerateLimit)),
	)

	// Confirm is limited per external identity to slow down code guessing.
	r.Mux.Handle("POST /api/link/confirm",
		botOnly(&LinkConfirmHandler{LinkService: r.LinkService}, httpx.RateLimitByJSONField(httpx.StrictLimit, "external_id")),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /api/whoami",
		httpx.Chain(&WhoAmIHandler{UserService: r.UserService},
			httpx.SignedRequestMiddleware(r.signatures),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.replayStore),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
