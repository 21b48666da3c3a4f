package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Price    *PriceHandler
	Donation *DonationHandler
	Mode     *ModeHandler
	Health   *HealthHandler
	Limiter  *RateLimiter

	// AllowedOrigins for browser widgets; empty allows any origin.
	AllowedOrigins []string
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

func NewRouter(h Handlers, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if h.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer, RequestLogger(log))

	origins := h.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limit := func(group string) func(http.Handler) http.Handler {
		if h.Limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return h.Limiter.Middleware(group)
	}

	if h.Health != nil {
		r.Get("/health", h.Health.Check)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/chains", h.Price.GetChains)

	r.Route("/prices", func(r chi.Router) {
		r.Use(limit("prices"))
		r.Get("/", h.Price.GetBoard)
		r.Get("/{chain}", h.Price.GetPrice)
	})

	r.Route("/quotes/{chain}", func(r chi.Router) {
		r.Use(limit("quotes"))
		r.Get("/", h.Price.GetQuote)
		r.Get("/max", h.Price.GetMaxAmount)
	})

	if h.Donation != nil {
		r.Route("/donations", func(r chi.Router) {
			r.Use(limit("donations"))
			r.Get("/", h.Donation.Recent)
			r.Post("/", h.Donation.Create)
		})
	}

	if h.Mode != nil {
		r.Get("/mode", h.Mode.Current)
		r.Post("/mode/test", h.Mode.SwitchToTest)
		r.Post("/mode/live", h.Mode.SwitchToLive)
	}

	return r
}
