// internal/handlers/errors.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

// HandleServiceError writes the envelope matching a service error. resource
// picks the not-found message ("product", "customer", ...).
func HandleServiceError(c *gin.Context, resource string, err error) {
	var fields *services.FieldErrors
	switch {
	case errors.As(err, &fields):
		utils.ValidationErrorResponse(c, "", fields.Fields)
	case errors.Is(err, services.ErrValidation):
		utils.ValidationErrorResponse(c, detail(err, services.ErrValidation), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, detail(err, services.ErrConflict))
	default:
		logrus.WithFields(logrus.Fields{
			"path":     c.Request.URL.Path,
			"resource": resource,
		}).WithError(err).Error("Request failed")
		utils.InternalErrorResponse(c, "", nil)
	}
}

// detail strips the sentinel prefix so the client sees the specific reason.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}
