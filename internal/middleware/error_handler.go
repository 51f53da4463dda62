package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/internal/dto"
	"github.com/arvindrh/cachelab/internal/logger"
)

// ErrorHandler returns a middleware that handles gin context errors. It
// provides centralized error handling and logging.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID := GetRequestID(c)

			logger.Logger().Error().
				Str("request_id", requestID).
				Str("error", err.Error()).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, dto.Failure(
					dto.ErrCodeInternal, "An unexpected error occurred", requestID,
				))
			}
		}
	}
}
