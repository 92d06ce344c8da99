package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (uc *UserController) List(c *gin.Context) {
	users, err := uc.Users.List(c.Request.Context(), middlewares.ActorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) Create(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.Users.Create(c.Request.Context(), middlewares.ActorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Delete removes the user together with everything they own.
func (uc *UserController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := uc.Users.Delete(c.Request.Context(), middlewares.ActorFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("User %s and associated data deleted", id)
	utils.RespondJSON(c, http.StatusOK, "User and all associated data deleted successfully", nil)
}
