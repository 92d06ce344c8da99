package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

type ComplaintController struct {
	Complaints *services.ComplaintService
}

func NewComplaintController(complaints *services.ComplaintService) *ComplaintController {
	return &ComplaintController{Complaints: complaints}
}

func (cc *ComplaintController) List(c *gin.Context) {
	list, err := cc.Complaints.List(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (cc *ComplaintController) Create(c *gin.Context) {
	var req services.ComplaintInput
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := cc.Complaints.Create(c.Request.Context(), middlewares.ActorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (cc *ComplaintController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.ComplaintStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := cc.Complaints.UpdateStatus(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}
