// internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/utils"
)

// Recovery turns panics into a 500 envelope. The stack is only returned to
// the client outside production.
func Recovery(logger *logrus.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.WithFields(logrus.Fields{
					"panic":      fmt.Sprint(r),
					"path":       c.Request.URL.Path,
					"request_id": c.GetString("request_id"),
				}).Error("Recovered from panic")

				var details interface{}
				if !production {
					details = gin.H{"panic": fmt.Sprint(r), "stack": stack}
				}
				utils.InternalErrorResponse(c, "", details)
				c.Abort()
			}
		}()
		c.Next()
	}
}
