package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope for errors and message-only replies. Resource
// payloads are written bare.
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	RespondMessage(c, code, err.Error())
}

func RespondMessage(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, JSONResponse{
		Status:  false,
		Message: message,
	})
}
