package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
)

type AnnouncementController struct {
	Announcements *services.AnnouncementService
}

func NewAnnouncementController(announcements *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{Announcements: announcements}
}

func (ac *AnnouncementController) List(c *gin.Context) {
	list, err := ac.Announcements.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AnnouncementController) Create(c *gin.Context) {
	var req services.AnnouncementInput
	if !bindJSON(c, &req) {
		return
	}

	announcement, err := ac.Announcements.Create(c.Request.Context(), middlewares.ActorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}
