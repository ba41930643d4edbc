package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"mecahub-backend/internal/delivery/http/response"
	"mecahub-backend/pkg/apperror"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

const msgInternal = "Erreur interne du serveur"

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"request_id", response.RequestID(c),
					"path", c.FullPath(),
					"kind", appErr.Kind,
					"error", err,
				)
			}
			if appErr.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(ratelimit.RetrySeconds(appErr.RetryAfter)))
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("internal server error",
			"request_id", response.RequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, msgInternal, "")
	}
}
