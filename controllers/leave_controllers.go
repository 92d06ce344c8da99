package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

type LeaveController struct {
	Leaves *services.LeaveService
}

func NewLeaveController(leaves *services.LeaveService) *LeaveController {
	return &LeaveController{Leaves: leaves}
}

func (lc *LeaveController) List(c *gin.Context) {
	list, err := lc.Leaves.List(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create ignores any "days" in the body.
func (lc *LeaveController) Create(c *gin.Context) {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Reason    string `json:"reason"`
		Student   string `json:"student"`
	}
	if !bindJSON(c, &req) {
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	leave, err := lc.Leaves.Create(c.Request.Context(), middlewares.ActorFrom(c), services.LeaveInput{
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Student:   req.Student,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (lc *LeaveController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.LeaveStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	leave, err := lc.Leaves.UpdateStatus(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, leave)
}
