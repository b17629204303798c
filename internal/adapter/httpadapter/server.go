// Package httpadapter serves the JSON API and the operational endpoints.
package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
	"github.com/couchcryptid/smart-city-service/internal/service"
)

const requestTimeout = 30 * time.Second

// CityService is the application surface the handlers call.
type CityService interface {
	Predict(module string, fields domain.Fields) (domain.FormulaResult, error)
	FetchData(ctx context.Context, module string, q service.LocationQuery) (any, error)
	CityScore(ctx context.Context, cityName string) service.CityScore
	Heatmap(ctx context.Context, q service.LocationQuery) service.Heatmap
	PredictCity(ctx context.Context, q service.LocationQuery, useAPI bool) (service.CityPrediction, error)
	Alerts(cityName string) []domain.Alert
	Cities() []domain.City
}

// Options tune the HTTP edge. A zero RateLimitRPS disables limiting.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// Server exposes the API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and wraps it in an http.Server.
func NewServer(addr string, svc CityService, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(svc, ready, opts, logger, metrics),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: requestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter returns the full handler chain: CORS, then chi middleware,
// then the routes.
func NewRouter(svc CityService, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	h := &handlers{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(instrument(metrics))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), max(opts.RateLimitBurst, 1))))
		}
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/predict", h.predict)
		r.Route("/api", func(r chi.Router) {
			r.Get("/fetch_data", h.fetchData)
			r.Get("/city_score", h.cityScore)
			r.Get("/heatmap_data", h.heatmap)
			r.Get("/city/predict", h.predictCity)
			r.Get("/alerts", h.alerts)
			r.Get("/cities", h.cities)
		})
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(r)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
