package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

// respondServiceError maps service and store errors to HTTP responses.
// Unexpected errors are logged and answered with a generic message.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(c, http.StatusBadRequest, verr)
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrNotPaid):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthenticated):
		utils.RespondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondMessage(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindJSON decodes the body into req, answering 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondMessage(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
