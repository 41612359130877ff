package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/synergysphere/auth-api/internal/application/account"
	"github.com/synergysphere/auth-api/internal/application/otp"
	"github.com/synergysphere/auth-api/internal/config"
	"github.com/synergysphere/auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/synergysphere/auth-api/internal/infrastructure/jwt"
	"github.com/synergysphere/auth-api/internal/infrastructure/mail"
	"github.com/synergysphere/auth-api/internal/transport/http/handler"
	appmiddleware "github.com/synergysphere/auth-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	OTPRepo     *dynamo.OTPRepo
	Mailer      mail.Sender
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(deps.OTPRepo, cfg.OTPTTL)
	accountDeps := account.ServiceDeps{
		UserRepo: deps.UserRepo,
		OTPSvc:   otpSvc,
		Mailer:   deps.Mailer,
	}
	if deps.JWTProvider != nil {
		accountDeps.Signer = deps.JWTProvider
	}
	accountSvc := account.NewService(accountDeps)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(accountSvc, deps.Mailer)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/health-check/{action}", healthH.Ping)

	r.Route("/api/auth", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/resend-verification", authH.ResendVerification)
		r.With(sensitiveRL.Limit).Post("/forgot-password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/reset-password", authH.ResetPassword)
		r.Get("/test-email", authH.TestEmail)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/me", authH.Me)
		})
	})

	return r
}
