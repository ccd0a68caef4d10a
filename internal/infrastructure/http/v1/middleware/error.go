package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ibeer/internal/core/apperror"
	"ibeer/internal/infrastructure/http/v1/dto"
	"ibeer/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		// Unknown error - log and return generic message
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{
				"request_id": c.GetString("request_id"),
			},
		})
	}
}
