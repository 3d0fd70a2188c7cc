package http

import (
	"log/slog"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Leave        LeaveHandler
	Team         TeamHandler
	User         UserHandler
	Profile      ProfileHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler
}

// NewRouter builds the API. rdb may be nil, which disables idempotent submission.
func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, rdb *redis.Client, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	verifier := jwtauth.Verifier(JWTService.JWTAuth())
	authRequired := middleware.AuthRequired(JWTService.JWTAuth())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.AuthPerSecond), cfg.RateLimit.AuthBurst))
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
				r.Post("/refresh", h.Auth.RefreshToken)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/login/google", h.Auth.LoginWithGoogle)
				r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Group(func(r chi.Router) {
				r.Use(verifier, authRequired)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			// Authenticated by the short-lived token in the query string
			r.Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(verifier, authRequired)
				r.Post("/stream-token", h.Notification.GetSSEToken)
			})
		})

		r.Get("/holidays", h.Dashboard.ListHolidays)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(verifier, authRequired)

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", h.Leave.ListTypes)
				r.Post("/", h.Leave.CreateType)
				r.Get("/{id}", h.Leave.GetType)
				r.Patch("/{id}", h.Leave.UpdateType)
				r.Delete("/{id}", h.Leave.DeleteType)
			})

			r.Route("/leave-balances", func(r chi.Router) {
				r.Get("/me", h.Leave.GetMySummary)
				r.Get("/me/detailed", h.Leave.GetMyBalances)
				r.Get("/user/{id}", h.Leave.GetUserBalances)
				r.Post("/", h.Leave.CreateBalance)
				r.Patch("/{id}", h.Leave.AdjustBalance)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.Idempotency(rdb)).Post("/", h.Leave.SubmitRequest)
				r.Get("/me", h.Leave.GetMyRequests)
				r.Get("/pending", h.Leave.ListPendingRequests)
				r.Get("/all", h.Leave.ListAllRequests)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Put("/{id}/status", h.Leave.SetRequestStatus)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.Team.List)
				r.Post("/", h.Team.Create)
				r.Get("/{id}", h.Team.Get)
				r.Patch("/{id}", h.Team.Update)
				r.Delete("/{id}", h.Team.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.Get("/stats", h.User.Stats)
				r.Get("/{id}", h.User.Get)
				r.Patch("/{id}/roles", h.User.UpdateRoles)
				r.Patch("/{id}/status", h.User.UpdateStatus)
				r.Patch("/{id}/team", h.User.UpdateTeam)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Post("/", h.Profile.Create)
				r.Get("/", h.Profile.List)
				r.Get("/me", h.Profile.GetMine)
				r.Get("/user/{userId}", h.Profile.GetByUser)
				r.Patch("/{id}", h.Profile.Update)
				r.Post("/{id}/performance", h.Profile.AddPerformanceReview)
				r.Get("/{id}/performance", h.Profile.ListPerformanceReviews)
			})

			r.Get("/activities/me", h.Profile.ListMyActivities)

			r.Route("/dashboard", func(r chi.Router) {
				r.With(middleware.RequireAnyRole(user.RoleHR, user.RoleAdmin, user.RoleManager)).Get("/", h.Dashboard.GetDashboard)
				r.Get("/me", h.Dashboard.GetEmployeeDashboard)
			})
		})
	})
	return r
}
