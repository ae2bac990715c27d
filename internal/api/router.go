package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gatherhub/server/internal/api/handlers"
	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/config"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/users"
	"github.com/gatherhub/server/internal/metrics"
)

// RouterDeps carries everything the HTTP surface needs. Services are built by
// the caller so tests can wire in-memory repositories.
type RouterDeps struct {
	Config        *config.Config
	Logger        zerolog.Logger
	JWTManager    *auth.JWTManager
	EventsService *events.Service
	UsersService  *users.Service
	DB            handlers.Pinger
}

// NewRouter builds the full middleware chain and route table.
func NewRouter(deps RouterDeps) http.Handler {
	env := deps.Config.Environment

	eventsHandler := handlers.NewEventsHandler(deps.EventsService)
	authHandler := handlers.NewAuthHandler(deps.UsersService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireIdentity := middleware.RequireIdentity(deps.JWTManager, env)
	requireUser := middleware.RequireUser(deps.UsersService, env)
	writeTier := middleware.WithRateLimitTierHandler(middleware.TierWrite)

	// One limiter store shared by every route; the tier tag must be applied
	// before the limiter picks a bucket.
	limit := middleware.RateLimit(deps.Config.RateLimit)

	authed := func(h http.HandlerFunc) http.Handler {
		return limit(requireIdentity(requireUser(h)))
	}
	authedWrite := func(h http.HandlerFunc) http.Handler {
		return writeTier(limit(requireIdentity(requireUser(h))))
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/auth/register", writeTier(limit(requireIdentity(http.HandlerFunc(authHandler.Register)))))
	mux.Handle("GET /api/v1/auth/profile", authed(authHandler.Profile))

	mux.Handle("GET /api/v1/events", authed(eventsHandler.List))
	mux.Handle("POST /api/v1/events", authedWrite(eventsHandler.Create))
	mux.Handle("GET /api/v1/events/{id}", authed(eventsHandler.Get))
	mux.Handle("PUT /api/v1/events/{id}", authedWrite(eventsHandler.Update))
	mux.Handle("DELETE /api/v1/events/{id}", authedWrite(eventsHandler.Delete))
	mux.Handle("POST /api/v1/events/{id}/attend", authedWrite(eventsHandler.ToggleAttendance))

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Outermost first: logging wraps everything, then CORS and metrics. Rate
	// limiting is applied per-route so each route carries its tier.
	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.CORS(deps.Config.CORS, deps.Logger)(handler)
	handler = handlers.WithEnvironment(env)(handler)
	handler = middleware.RequestLogging(deps.Logger)(handler)

	return handler
}
