package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, deps routeDeps) {
	// Public and throttled per client IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(deps.config.HTTP.AuthRateLimit, authRateWindow(deps.config), deps.log))

		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/token", authHandler.Token)
	})
}
