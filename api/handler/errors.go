package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/mimic/models"
)

// asCloneError normalizes any error into a typed *models.CloneError.
func asCloneError(err error) *models.CloneError {
	if cloneErr, ok := err.(*models.CloneError); ok {
		return cloneErr
	}
	return models.NewCloneError(models.ErrCodeInternal, err.Error(), err)
}

// respondError maps a CloneError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	cloneErr := asCloneError(err)

	c.JSON(mapErrorToStatus(cloneErr), models.CloneResponse{
		Success: false,
		Error:   cloneErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.CloneError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited, models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeLLMAuthFailure, models.ErrCodeGeneration:
		return http.StatusBadGateway // 502 — upstream model fault, not ours
	default:
		return http.StatusInternalServerError // 500
	}
}
