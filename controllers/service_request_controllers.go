package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

type ServiceRequestController struct {
	Requests *services.ServiceRequestService
}

func NewServiceRequestController(requests *services.ServiceRequestService) *ServiceRequestController {
	return &ServiceRequestController{Requests: requests}
}

func (sc *ServiceRequestController) List(c *gin.Context) {
	list, err := sc.Requests.List(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *ServiceRequestController) Create(c *gin.Context) {
	var req services.ServiceRequestInput
	if !bindJSON(c, &req) {
		return
	}

	request, err := sc.Requests.Create(c.Request.Context(), middlewares.ActorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (sc *ServiceRequestController) Update(c *gin.Context) {
	var req struct {
		Status        models.ServiceStatus `json:"status"`
		ScheduledDate *string              `json:"scheduledDate"`
	}
	if !bindJSON(c, &req) {
		return
	}
	scheduled, err := parseOptionalDate("scheduledDate", req.ScheduledDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	request, err := sc.Requests.Update(c.Request.Context(), middlewares.ActorFrom(c), c.Param("id"), services.ServiceRequestUpdate{
		Status:        req.Status,
		ScheduledDate: scheduled,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
