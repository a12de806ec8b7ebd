package apperror

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MsgInternal is shown for every unclassified failure
const MsgInternal = "Something went wrong, try again later"

// Middleware renders the last error a handler attached with c.Error
func Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := As(err); ok {
			c.JSON(appErr.Status, gin.H{"msg": appErr.Message})
			return
		}

		logger.Error("Unhandled request error",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": MsgInternal})
	}
}
