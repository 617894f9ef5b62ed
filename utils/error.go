package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorEnvelope is the JSON error shape the public API returns on 4xx/5xx.
type ErrorEnvelope struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

// ErrorHandler is a middleware that catches panics and returns structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.JSON(http.StatusInternalServerError, ErrorEnvelope{
					Error: "internal server error",
					Path:  c.Request.URL.Path,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, message string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.Int("status", status), zap.String("path", c.Request.URL.Path))
	c.JSON(status, ErrorEnvelope{Error: message, Path: c.Request.URL.Path})
}
