package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// Stats is the admin overview.
func (dc *DashboardController) Stats(c *gin.Context) {
	stats, err := dc.Dashboard.Stats(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Overview is the caller's own summary.
func (dc *DashboardController) Overview(c *gin.Context) {
	overview, err := dc.Dashboard.Overview(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
