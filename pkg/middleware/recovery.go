package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// Recovery converts panics into 500 responses.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error(c.Request.Context(), "Panic recovered",
					logger.F("error", err),
					logger.F("method", c.Request.Method),
					logger.F("path", c.Request.URL.Path))

				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": "internal server error",
					"error":   "unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
