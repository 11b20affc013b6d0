package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rkrajat/fullstack-monorpo-starter/config"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/application"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/infrastructure/postgres"
	handlers "github.com/rkrajat/fullstack-monorpo-starter/internal/interface/http"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/router/modules"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
)

// Deps carries the process-lifetime components the composition root built.
// Modules receive what they need explicitly; there is no global container.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Tokens *helpers.TokenManager
	Pub    *helpers.RabbitPublisher
}

// InitModules wires repositories, services and handlers, and registers every
// feature module plus the root-level health and 404 routes.
func InitModules(reg *Registry, d Deps) {
	repo := postgres.NewUserRepository(d.Pool)
	svc := application.NewAuthService(repo, d.Logger)
	authHandler := handlers.NewAuthHandler(svc, d.Tokens, d.Logger, d.Pub, d.Cfg.AppName)

	reg.Add(modules.NewAuthModule(authHandler, d.Tokens, d.Redis))
	if d.Cfg.DebugMetricsEnabled {
		reg.Add(modules.NewDebugModule(d.Redis))
	}

	health := handlers.NewHealthHandler(d.Cfg.AppName)
	reg.Engine.GET("/health", health.Health)

	// Unmatched routes go through the same error taxonomy.
	reg.Engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("Route not found"))
	})
}
