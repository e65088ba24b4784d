package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/health"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/middleware"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/auth"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/service"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "portfolio-reviews"

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Reviews        *service.ReviewService
	Moderation     *service.ModerationService
	Health         *health.Handler
	ValidateToken  middleware.TokenValidator
	Logger         *slog.Logger
	CORSOrigins    []string
	PprofCIDRs     []string
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	moderationHandler := NewModerationHandler(cfg.Moderation, cfg.Reviews, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.ValidateToken))
		r.Use(middleware.RequestLogger(cfg.Logger))
		r.Use(middleware.NoStore)

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", reviewHandler.SubmitReview)
			r.Get("/mine", reviewHandler.ListMyReviews)
			r.Get("/{id}", reviewHandler.GetReview)
			r.Delete("/{id}", reviewHandler.DeleteReview)
			r.Get("/{id}/comments", reviewHandler.ListComments)
			r.Post("/{id}/comments", reviewHandler.AddComment)
		})

		r.Route("/moderation/reviews", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleModerator))

			r.Get("/", moderationHandler.ListReviews)
			r.Post("/{id}/approve", moderationHandler.Approve)
			r.Post("/{id}/deny", moderationHandler.Deny)
			r.Post("/{id}/request-changes", moderationHandler.RequestChanges)
			r.Put("/{id}/featured", moderationHandler.SetFeatured)
			r.Delete("/{id}", moderationHandler.DeleteReview)
		})
	})

	return r
}
