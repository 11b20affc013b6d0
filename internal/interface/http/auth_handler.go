package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rkrajat/fullstack-monorpo-starter/internal/application"
	"github.com/rkrajat/fullstack-monorpo-starter/internal/interface/middleware"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/helpers"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/mailer"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Tokens  *helpers.TokenManager
	Logger  *logrus.Logger
	Pub     *helpers.RabbitPublisher // nil when mail pipeline is not configured
	AppName string
}

func NewAuthHandler(svc *application.AuthService, tokens *helpers.TokenManager, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName string) *AuthHandler {
	return &AuthHandler{Svc: svc, Tokens: tokens, Logger: logger, Pub: pub, AppName: appName}
}

// RegisterRequest is validated by the body middleware before the handler runs.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"firstName" binding:"required,min=1"`
	LastName  string `json:"lastName" binding:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string               `json:"token"`
	User  *application.Profile `json:"user"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	req := middleware.Body[RegisterRequest](c)

	profile, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		// Forward the service's classified error (a duplicate email surfaces
		// as 409, not a generic 500).
		_ = c.Error(err)
		return
	}

	token, _, err := h.Tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		_ = c.Error(apperr.Internal("Failed to register user").Wrap(err))
		return
	}

	h.enqueueWelcome(c, profile)
	response.JSON(c, http.StatusCreated, authResponse{Token: token, User: profile})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	req := middleware.Body[LoginRequest](c)

	profile, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, _, err := h.Tokens.Issue(profile.ID, profile.Email)
	if err != nil {
		_ = c.Error(apperr.Internal("Failed to log in").Wrap(err))
		return
	}

	response.JSON(c, http.StatusOK, authResponse{Token: token, User: profile})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		_ = c.Error(apperr.Unauthorized("Authorization header missing"))
		return
	}

	profile, err := h.Svc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// enqueueWelcome best-effort publishes the welcome email job. Registration
// never fails because of the mail pipeline.
func (h *AuthHandler) enqueueWelcome(c *gin.Context, profile *application.Profile) {
	if h.Pub == nil {
		return
	}
	job := mailer.WelcomeJob(profile.Email, profile.FirstName, h.AppName)
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		h.Logger.WithError(err).WithField("email", profile.Email).Warn("welcome email enqueue failed")
	}
}
