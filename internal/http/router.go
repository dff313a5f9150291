package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/campushq/portal/internal/config"
	"github.com/campushq/portal/internal/http/csrf"
	"github.com/campushq/portal/internal/http/ratelimit"
	"github.com/campushq/portal/internal/metrics"
	"github.com/campushq/portal/internal/session"
	"github.com/campushq/portal/internal/ui"
	"github.com/campushq/portal/internal/upstream"
)

// NewRouter wires every route of the portal front-end.
func NewRouter(cfg *config.Config, logger *zap.Logger, client *upstream.Client, gate *session.Gate, uiHandler *ui.Handler) http.Handler {
	r := chi.NewRouter()

	// Login endpoint: 5 requests per second, burst of 10
	loginRateLimiter := ratelimit.New(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := client.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware)
		r.Use(csrf.Middleware(cfg))

		r.With(loginRateLimiter.Middleware()).Get("/login", uiHandler.LoginPage)
		r.With(loginRateLimiter.Middleware()).Post("/login", uiHandler.Login)
		r.Post("/logout", uiHandler.Logout)

		r.Get("/", uiHandler.Main)
		r.Get("/enrollment", uiHandler.Enrollment)

		r.Get("/reservations", uiHandler.ReservationForm)
		r.Post("/reservations", uiHandler.SaveReservation)

		r.Get("/reservation-list", uiHandler.ReservationList)
		r.Get("/reservation-list/success", uiHandler.ReservationSuccess)
		r.Get("/reservation-list/{id}", uiHandler.ReservationView)
		r.Post("/reservation-list/{id}/accept", uiHandler.AcceptReservation)
		r.Get("/reservation-list/{id}/reject", uiHandler.RejectPrompt)
		r.Post("/reservation-list/{id}/reject", uiHandler.RejectReservation)
		r.Get("/reservation-list/{id}/room", uiHandler.RoomChange)
		r.Post("/reservation-list/{id}/room", uiHandler.AmendAndAccept)

		r.Get("/schedules", uiHandler.ScheduleList)
		r.Get("/schedules/{id}", uiHandler.ScheduleGrid)
		r.Get("/schedules/{id}/{index}", uiHandler.ScheduleDetails)
	})

	// The catch-all page still needs the session for its navbar, so it runs
	// behind the same gate.
	r.NotFound(gate.Middleware(csrf.Middleware(cfg)(http.HandlerFunc(uiHandler.NotFound))).ServeHTTP)

	return r
}
