package wire

import (
	"fmt"
	"net/http"
	"time"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/authz"
	"yamdb/pkg/database"
	"yamdb/pkg/mailer"
	"yamdb/pkg/middleware"
	"yamdb/pkg/token"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// App holds the assembled HTTP application
type App struct {
	Router *chi.Mux
}

// routeDeps is what the per-area route files need besides their handler
type routeDeps struct {
	authz  *authz.Enforcer
	config *utils.Config
	log    *zap.Logger
}

// allow gates a route on the caller's role
func (d routeDeps) allow(object, action string) func(http.Handler) http.Handler {
	return middleware.Permission(d.authz, object, action, d.log)
}

// Wiring builds services, handlers and the router
func Wiring(db database.PgxIface, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	enforcer, err := authz.NewEnforcer(logger)
	if err != nil {
		return nil, fmt.Errorf("init permissions: %w", err)
	}

	tokens, err := token.NewManager(config.JWT.Secret, config.JWT.Issuer, config.JWT.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	mail := mailer.New(config.Email, logger)

	service := usecase.NewService(repo, config, mail, tokens, enforcer, logger)
	handler := adaptor.NewHandler(service, db, logger)

	deps := routeDeps{authz: enforcer, config: config, log: logger}
	router := setupRouter(handler, tokens, repo, deps)

	return &App{
		Router: router,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	tokens middleware.TokenValidator,
	repo *repository.Repository,
	deps routeDeps,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Logger(deps.log))
	r.Use(middleware.Recover(deps.log))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(deps.config.HTTP.CORSOrigins))

	r.Get("/health", handler.Health.Health)
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, repo.User, deps.log))

		wireAuth(r, handler.Auth, deps)
		wireUser(r, handler.User, deps)
		wireCatalog(r, handler.Category, handler.Genre, deps)
		wireTitle(r, handler.Title, handler.Review, handler.Comment, deps)
	})

	return r
}

func authRateWindow(config *utils.Config) time.Duration {
	return time.Duration(config.HTTP.AuthRateWindowSecs) * time.Second
}
