package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pollenow/pollenow/internal/auth"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/location"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/pollen"
)

// Handlers groups the endpoint handlers mounted by the router.
type Handlers struct {
	Auth     *auth.Handler
	Location *location.Handler
	Pollen   *pollen.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg config.ServerConfig, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS must run before anything that can reject a preflight
	r.Use(CORS(cfg.AllowedOrigins))

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)
	r.Get("/hello", handleHello)

	if cfg.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh-token", h.Auth.RefreshToken)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password", h.Auth.ResetPassword)

		r.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/protected", h.Auth.Protected)

		r.Get("/location", h.Location.Get)
		r.Post("/location", h.Location.Save)
		r.Delete("/location", h.Location.Delete)

		r.Get("/pollen/forecast", h.Pollen.Forecast)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

// handleHello greets API clients
// @Summary      Hello
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /hello [get]
func handleHello(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"message": "Hello from pollenow!"}, http.StatusOK)
}
