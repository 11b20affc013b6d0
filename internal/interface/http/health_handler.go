package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkrajat/fullstack-monorpo-starter/pkg/response"
)

type HealthHandler struct {
	AppName string
}

func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{AppName: appName}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status":  "ok",
		"message": h.AppName + " is running",
	})
}
