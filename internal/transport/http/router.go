package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pelada-api/internal/application/auth"
	"github.com/pelada-api/internal/application/confirmation"
	"github.com/pelada-api/internal/application/game"
	"github.com/pelada-api/internal/application/player"
	"github.com/pelada-api/internal/application/report"
	"github.com/pelada-api/internal/application/schedule"
	"github.com/pelada-api/internal/config"
	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/transport/http/handler"
	appmiddleware "github.com/pelada-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Webhook-Secret"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	// The webhook takes gateway-forwarded traffic, allow a higher burst.
	webhookRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	playerSvc := player.NewService(deps.PlayerRepo)
	gameSvc := game.NewService(deps.GameRepo, deps.SessionRepo)
	scheduleSvc := schedule.NewService(deps.ConfigRepo, deps.SessionRepo, deps.SentRepo)
	confirmationSvc := confirmation.NewService(deps.ConfirmationRepo, deps.PlayerRepo, deps.SessionRepo, deps.Location)
	reportSvc := report.NewService(deps.ConfirmationRepo, deps.PlayerRepo, deps.SessionRepo, deps.S3Store)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	playerH := handler.NewPlayerHandler(playerSvc)
	gameH := handler.NewGameHandler(gameSvc)
	sessionH := handler.NewSessionHandler(gameSvc)
	configH := handler.NewConfigHandler(scheduleSvc)
	confirmationH := handler.NewConfirmationHandler(confirmationSvc, deps.WebhookSecret)
	reportH := handler.NewReportHandler(reportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(webhookRL.Limit).Post("/webhooks/whatsapp", confirmationH.Webhook)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/players", playerH.List)
			r.Post("/players", playerH.Create)
			r.Get("/players/{id}", playerH.Get)
			r.Put("/players/{id}", playerH.Update)
			r.Delete("/players/{id}", playerH.Delete)

			r.Get("/games", gameH.List)
			r.Post("/games", gameH.Create)
			r.Get("/games/{id}", gameH.Get)
			r.Put("/games/{id}", gameH.Update)
			r.Delete("/games/{id}", gameH.Delete)
			r.Get("/games/{id}/sessions", gameH.ListSessions)

			r.Post("/sessions", sessionH.Create)
			r.Get("/sessions/{id}", sessionH.Get)
			r.Put("/sessions/{id}", sessionH.Update)
			r.Post("/sessions/{id}/cancel", sessionH.Cancel)

			r.Get("/sessions/{id}/notification-config", configH.Get)
			r.Put("/sessions/{id}/notification-config", configH.Put)
			r.Get("/sessions/{id}/confirmations", confirmationH.List)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/sessions/{id}/confirmations/{playerID}/reset", confirmationH.Reset)
				r.Delete("/sessions/{id}/reminders/{number}", configH.ClearSent)
				r.Post("/sessions/{id}/report", reportH.Export)
			})
		})
	})

	return r
}
