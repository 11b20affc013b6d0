package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/rkrajat/fullstack-monorpo-starter/internal/interface/http"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/interface/middleware"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
)

// Auth endpoints get a fixed, stricter window than the global limiter.
const (
	authRateMax    = 10
	authRateWindow = 15 * time.Minute
)

// AuthModule wires the auth HTTP surface.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  *helpers.TokenManager
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, tokens *helpers.TokenManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, authRateMax, authRateWindow, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", limiter, middleware.ValidateBody[handlers.RegisterRequest](), m.Handler.Register)
	auth.POST("/login", limiter, middleware.ValidateBody[handlers.LoginRequest](), m.Handler.Login)

	protected := auth.Group("/")
	protected.Use(middleware.Auth(m.Tokens))
	{
		protected.GET("/me", m.Handler.Me)
	}
}
