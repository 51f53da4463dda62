package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/internal/dto"
	"github.com/arvindrh/cachelab/internal/logger"
)

// Recovery returns a middleware that recovers from panics and returns a
// 500 error. It logs the panic details with the request ID for
// debugging.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)
				logger.Logger().Error().
					Str("request_id", requestID).
					Interface("panic", err).
					Msg("PANIC recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Failure(
					dto.ErrCodeInternal, "An unexpected error occurred", requestID,
				))
			}
		}()
		c.Next()
	}
}
