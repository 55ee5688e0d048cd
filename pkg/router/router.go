package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/tendant/chi-demo/app"
	grievanceapi "github.com/tendant/grievance-portal/pkg/grievance/api"
	"github.com/tendant/grievance-portal/pkg/identity"
	"github.com/tendant/grievance-portal/pkg/metrics"
	verificationapi "github.com/tendant/grievance-portal/pkg/verification/api"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	// Listen address used by Run
	AppConfig app.AppConfig

	// Origins allowed to call the API from a browser
	AllowedOrigins []string

	VerificationHandle *verificationapi.Handle
	GrievanceHandle    *grievanceapi.Handle

	// Verifier authenticates bearer tokens on the protected group
	Verifier identity.Verifier

	// Optional: /metrics is not mounted when nil
	Metrics *metrics.Metrics
}

// CorsOptions returns the cross-origin policy for the given allow-list
func CorsOptions(allowedOrigins []string) *cors.Options {
	return &cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// New builds the portal server. The chi-demo app provides request ids,
// recovery, request logging and CORS; the portal adds request metrics and its routes.
func New(cfg Config) *app.App {
	server := app.NewApp(
		app.WithAppConfig(cfg.AppConfig),
		app.WithCors(CorsOptions(cfg.AllowedOrigins)),
		app.WithReqLogger(app.DefaultHttpLogger()),
	)
	server.R.Use(cfg.Metrics.Middleware)

	SetupRoutes(server.R, cfg)
	return server
}

// SetupRoutes mounts the portal routes on the provided router
func SetupRoutes(r chi.Router, cfg Config) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	// Public routes, reached from the emailed link and the invite form
	r.Post("/api/send-verification", cfg.VerificationHandle.SendVerification)
	r.Get("/api/verify", cfg.VerificationHandle.Verify)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(identity.Authenticator(cfg.Verifier))

		r.Get("/api/is-verified", cfg.GrievanceHandle.IsVerified)
		r.Post("/api/send-grievance", cfg.GrievanceHandle.SendGrievance)
		r.Get("/api/protected", identity.Protected)
	})
}
