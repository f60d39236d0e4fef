package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"langleague/internal/http-api/apperrors"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case apperrors.IsInvalidArgument(err):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
