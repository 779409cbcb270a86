package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/mimic/config"
	"github.com/use-agent/mimic/content"
	"github.com/use-agent/mimic/llm"
	"github.com/use-agent/mimic/models"
	"github.com/use-agent/mimic/scraper"
)

// Clone returns a handler for POST /api/v1/clone.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Scraper.Scrape      → report + screenshot     (records scrape_ms)
//  3. LLM.GenerateClone   → standalone HTML          (records generation_ms)
//  4. Optional source Markdown rendition.
//  5. Fill Timing, return 200.
//
// When generation fails, the scrape artifacts (screenshot, strategy, report
// size) are still returned alongside the error: the expensive part of the
// pipeline already succeeded and the caller may retry generation alone.
func Clone(sc *scraper.Scraper, llmClient *llm.Client, sum *content.Summarizer, compCfg config.CompressorConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.CloneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CloneResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Scrape ───────────────────────────────────────────────
		scrapeStart := time.Now()
		result, err := sc.Scrape(c.Request.Context(), &req)
		scrapeMs := time.Since(scrapeStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				ScrapeMs: scrapeMs,
			})
			return
		}

		screenshotB64 := base64.StdEncoding.EncodeToString(result.Screenshot)

		// ── 3. Generate ─────────────────────────────────────────────
		maxContextChars := req.MaxContextChars
		if maxContextChars == 0 {
			maxContextChars = compCfg.MaxContextChars
		}

		genStart := time.Now()
		gen, err := llmClient.GenerateClone(c.Request.Context(), result.Report, screenshotB64, maxContextChars)
		generationMs := time.Since(genStart).Milliseconds()

		timing := models.TimingInfo{
			TotalMs:      time.Since(totalStart).Milliseconds(),
			ScrapeMs:     scrapeMs,
			GenerationMs: generationMs,
		}

		if err != nil {
			cloneErr := asCloneError(err)
			c.JSON(mapErrorToStatus(cloneErr), models.CloneResponse{
				Success:      false,
				StrategyUsed: result.Snapshot.StrategyUsed,
				ReportChars:  len(result.Report),
				Screenshot:   screenshotB64,
				Timing:       timing,
				Error:        cloneErr.ToDetail(),
			})
			return
		}

		// ── 4. Optional source Markdown ─────────────────────────────
		sourceMarkdown := ""
		if req.IncludeSource {
			md, sumErr := sum.Summarize(result.Snapshot.RawHTML, result.Snapshot.URL)
			if sumErr != nil {
				slog.Warn("source markdown rendition failed", "url", req.URL, "error", sumErr)
			} else {
				sourceMarkdown = md
			}
		}

		timing.TotalMs = time.Since(totalStart).Milliseconds()

		// ── 5. Respond ──────────────────────────────────────────────
		c.JSON(http.StatusOK, models.CloneResponse{
			Success:        true,
			HTML:           gen.HTML,
			StrategyUsed:   result.Snapshot.StrategyUsed,
			ReportChars:    len(result.Report),
			Screenshot:     screenshotB64,
			SourceMarkdown: sourceMarkdown,
			Timing:         timing,
		})
	}
}
