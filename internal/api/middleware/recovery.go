package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/match-explainer/pkg/utils"
)

// Recovery turns a handler panic into a generic JSON 500
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				entry := logger.WithFields(logrus.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"panic":  recovered,
					"stack":  string(debug.Stack()),
				})
				if requestID, exists := c.Get(RequestIDKey); exists {
					entry = entry.WithField("request_id", requestID)
				}
				entry.Error("Recovered from panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Error: utils.MsgInternalError})
			}
		}()
		c.Next()
	}
}
