package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/actuallystonmai/travel-recommender/internal/handler"
)

type Options struct {
	RequestTimeout    time.Duration
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

func Setup(h *handler.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{handler.SourceHeader},
		MaxAge:         300,
	}))

	// Routes
	r.Get("/", h.Root)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/health", h.Health)
		r.Get("/health_api", h.Health)
		r.Get("/stats", h.GetStats)

		r.Group(func(r chi.Router) {
			if !opts.RateLimitDisabled {
				r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
			}
			r.Post("/recommendations", h.PostRecommendations)
			r.Post("/recommendations_api", h.PostCatalogRecommendations)
		})
	})

	return r
}
