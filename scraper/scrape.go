package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/mimic/models"
	"github.com/ysmood/gson"
)

// ScrapeResult carries the artifacts of one scrape: the compiled report and
// the raw screenshot bytes, plus the snapshot for optional post-processing.
type ScrapeResult struct {
	Report     string
	Screenshot []byte
	Snapshot   *models.PageSnapshot
}

// Scrape is the top-level orchestrator for one clone request.
//
// Lifecycle:
//
//  1. Timeout guard      – hard deadline on the entire operation
//  2. Preflight          – best-effort reachability probe (fail fast on dead hosts)
//  3. Acquire page       – borrow a tab from the pool (or create one)
//  4. DEFER: cleanup     – about:blank + return to pool (leak prevention)
//  5. Stealth + viewport – must be installed before navigation
//  6. Hijack mount       – optional ad/tracker blocking (before navigation!)
//  7. Navigate           – tiered fallback state machine
//  8. Sample             – design record (degrades, never fails the request)
//  9. Screenshot         – full-page PNG (fatal on failure)
// 10. Text excerpt       – visible text (degrades to placeholder)
// 11. Compile            – fixed-order report
//
// Steps 8-10 only read from the loaded page; the page is not mutated after
// navigation, so the report and screenshot describe the same instant.
func (s *Scraper) Scrape(ctx context.Context, req *models.CloneRequest) (*ScrapeResult, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 || timeout > s.navCfg.MaxTimeout {
		timeout = s.navCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ── 2. Preflight probe ────────────────────────────────────────────
	// The tier ladder can burn over two minutes on a host that will never
	// answer; a dead DNS name or refused port is cheaper to find out now.
	if s.preflight != nil {
		if err := s.preflight.check(ctx, req.URL); err != nil {
			return nil, models.NewCloneError(models.ErrCodeNavigation,
				"target unreachable", err)
		}
	}

	// ── 3. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewCloneError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 4. CRITICAL DEFER: release on every exit path ─────────────────
	// Uses the ORIGINAL page reference (no request context) so cleanup
	// succeeds even after the request deadline. Release errors are only
	// logged; they must never mask the primary fault.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	// ── 5. Stealth injection + viewport ───────────────────────────────
	if req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.browserCfg.ViewportWidth,
		Height:            s.browserCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Warn("failed to set viewport", "error", err)
	}

	// ── 5b. Google Referer: some hosts serve bots a blank shell ──────
	if u, parseErr := url.Parse(req.URL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	// ── 6. Mount hijack router (ad/tracker domains only) ──────────────
	// Resource types are never blocked here: images, CSS, and fonts ARE
	// the design being cloned.
	if req.BlockAds {
		router := setupAdBlock(page)
		defer func() { _ = router.Stop() }()
	}

	// ── 7. Navigate via the tier state machine ────────────────────────
	snap, err := navigateWithFallback(ctx, req.URL, DefaultTiers(),
		func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
			return s.attemptNavigate(ctx, page, url, tier)
		})
	if err != nil {
		return nil, err
	}

	// ── 8. Design sampling (degrades, never aborts) ───────────────────
	var designSection string
	switch sample := s.sampleDesign(ctx, page); {
	case sample.Record != nil:
		designSection = FormatDesignRecord(sample.Record)
	default:
		designSection = sample.Err.Placeholder()
	}

	// ── 9. Screenshot (fatal: the clone is meaningless without it) ────
	shot, err := captureScreenshot(ctx, page)
	if err != nil {
		return nil, categorizeError(err, "failed to capture screenshot")
	}

	// ── 10. Text excerpt (degrades to placeholder) ────────────────────
	textExcerpt := extractTextExcerpt(ctx, page)

	// ── 11. Compile report ────────────────────────────────────────────
	report := CompileReport(snap, designSection, textExcerpt, len(shot))
	slog.Info("scrape complete",
		"url", req.URL,
		"tier", snap.StrategyUsed,
		"reportChars", len(report),
		"screenshotBytes", len(shot),
	)

	return &ScrapeResult{
		Report:     report,
		Screenshot: shot,
		Snapshot:   snap,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed CloneErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.CloneError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCloneError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCloneError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewCloneError(models.ErrCodeInternal, msg, err)
	}
}
