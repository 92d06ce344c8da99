package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	sess, err := ac.Auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", sess.User.Email, sess.User.Role)
	c.JSON(http.StatusCreated, sess)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	sess, err := ac.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user %s (role=%s)", sess.User.ID, sess.User.Role)
	c.JSON(http.StatusOK, sess)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.Request.Context(), c.GetString(middlewares.ContextToken)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "logged out", nil)
}

// Me returns the profile of the token's owner.
func (ac *AuthController) Me(c *gin.Context) {
	profile, err := ac.Auth.Profile(c.Request.Context(), c.GetString(middlewares.ContextUserID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
