package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkbookhq/inkbook-platform/internal/http/handlers"
	httpmiddleware "github.com/inkbookhq/inkbook-platform/internal/http/middleware"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	Availability *handlers.AvailabilityHandler
	Overlap      *handlers.OverlapHandler
	Bookings     *handlers.BookingHandler

	ArtistAuthSecret   string
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler

	// Requests per second allowed per client IP on write endpoints.
	// Zero disables rate limiting.
	WriteRateLimit float64
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		// Client-facing availability reads. No artist auth: clients
		// browse open dates before they have an account.
		if cfg.Availability != nil {
			public.Route("/artists/{artistID}/availability", func(r chi.Router) {
				r.Get("/dates", cfg.Availability.Dates)
				r.Get("/start-times", cfg.Availability.StartTimes)
			})
		}
	})

	// Artist endpoints: calendar writes and conflict checks.
	r.Group(func(artist chi.Router) {
		artist.Use(httpmiddleware.ArtistJWT(cfg.ArtistAuthSecret))
		if cfg.WriteRateLimit > 0 {
			artist.Use(httpmiddleware.RateLimit(cfg.WriteRateLimit, int(cfg.WriteRateLimit*2)))
		}
		if cfg.Overlap != nil {
			artist.Post("/artists/{artistID}/overlap-check", cfg.Overlap.Check)
		}
		if cfg.Bookings != nil {
			artist.Post("/artists/{artistID}/bookings", cfg.Bookings.Create)
			artist.Patch("/artists/{artistID}/sessions/{sessionID}", cfg.Bookings.Reschedule)
		}
	})

	return r
}
