package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/mimic/compress"
	"github.com/use-agent/mimic/models"
)

// Compress returns a handler for POST /api/v1/compress: reduce an analysis
// report to a character budget without touching the browser. The reduction
// is a pure function, so this endpoint is cheap and side-effect free.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CompressResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		reduced := compress.Reduce(req.Report, req.MaxChars)

		c.JSON(http.StatusOK, models.CompressResponse{
			Success:    true,
			Compressed: reduced,
			Chars:      len([]rune(reduced)),
		})
	}
}
