package handler

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/mimic/models"
	"github.com/use-agent/mimic/scraper"
)

// Scrape returns a handler for POST /api/v1/scrape: the full analysis
// pipeline (navigate, sample, screenshot, compile) without generation.
// Useful for inspecting what the model would see, or for callers that run
// their own generation step.
func Scrape(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.CloneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		scrapeStart := time.Now()
		result, err := sc.Scrape(c.Request.Context(), &req)
		scrapeMs := time.Since(scrapeStart).Milliseconds()

		if err != nil {
			cloneErr := asCloneError(err)
			c.JSON(mapErrorToStatus(cloneErr), models.ScrapeResponse{
				Success: false,
				Error:   cloneErr.ToDetail(),
				Timing: models.TimingInfo{
					TotalMs:  time.Since(totalStart).Milliseconds(),
					ScrapeMs: scrapeMs,
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{
			Success:      true,
			Report:       result.Report,
			Screenshot:   base64.StdEncoding.EncodeToString(result.Screenshot),
			StrategyUsed: result.Snapshot.StrategyUsed,
			Timing: models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				ScrapeMs: scrapeMs,
			},
		})
	}
}
