package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hostel-app/utils"
)

// PaymentSecurityHeaders keeps payment responses and receipts out of caches.
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// LogPaymentRequest logs who touched which payment and how it went.
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if c.Request.Method == "GET" && c.Param("id") == "" {
			return
		}
		status := c.Writer.Status()
		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"payment":  c.Param("id"),
			"user":     c.GetString(ContextUserID),
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   status,
			"duration": time.Since(start).String(),
		})
		if status >= 400 {
			entry.Warn("payment request failed")
			return
		}
		entry.Info("payment request")
	}
}
