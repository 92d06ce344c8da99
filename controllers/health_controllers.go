package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

type HealthController struct {
	Store store.Store
}

func NewHealthController(s store.Store) *HealthController {
	return &HealthController{Store: s}
}

func (hc *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Healthz reports whether the database answers.
func (hc *HealthController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.Store.Ping(ctx); err != nil {
		utils.ErrorLogger.Errorf("health check: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
