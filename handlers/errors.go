package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"reservas/database"
	"reservas/models"
	"reservas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// validationFailed answers 422 with a field error map.
func validationFailed(c *gin.Context, field, message string) {
	getLogger(c).Warn("Validation failed", zap.String("field", field), zap.String("reason", message))
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  gin.H{field: []string{message}},
	})
}

// respondStoreError maps store errors to API answers.
func respondStoreError(c *gin.Context, err error) {
	var conflictErr *database.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		first := conflictErr.Conflicts[0]
		utils.JSONError(c, http.StatusConflict, "The resource is already booked in this time range.",
			fmt.Sprintf("Conflict with reservation by %s (%s - %s)", first.Requester, first.Start, first.End))
	case errors.Is(err, models.ErrInvalidWindow):
		validationFailed(c, "fecha_fin", "The end date must be after the start date.")
	case errors.Is(err, database.ErrInvalidInput):
		validationFailed(c, "fecha_inicio", err.Error())
	case errors.Is(err, database.ErrResourceUnavailable):
		validationFailed(c, "recurso_id", "The resource is not available for booking.")
	case errors.Is(err, database.ErrAlreadyCancelled):
		utils.JSONError(c, http.StatusUnprocessableEntity, "The reservation is already cancelled.", "")
	case errors.Is(err, database.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found.", err.Error())
	case errors.Is(err, database.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "This action is unauthorized.", "")
	case errors.Is(err, database.ErrEmailTaken):
		validationFailed(c, "email", "The email has already been taken.")
	default:
		getLogger(c).Error("Unexpected store error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server Error", err.Error())
	}
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusNotFound, "Not found.", "invalid "+name)
		return 0, false
	}
	return id, true
}
