package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/mimic/models"
)

// WaitStrategy is the success condition of one navigation tier.
type WaitStrategy int

const (
	// WaitContentParsed waits for DOMContentLoaded.
	WaitContentParsed WaitStrategy = iota
	// WaitLoadEvent waits for the window load event.
	WaitLoadEvent
	// WaitNone returns as soon as navigation commits.
	WaitNone
)

// Tier is one page-load attempt strategy: a wait condition, a timeout for
// reaching it, and a settle delay afterwards that lets asynchronous
// rendering finish before sampling.
type Tier struct {
	Name    string
	Wait    WaitStrategy
	Timeout time.Duration
	Settle  time.Duration
}

// DefaultTiers returns the navigation fallback ladder. Each successive tier
// trades precision for tolerance: longer timeout, longer settle, weaker
// success condition, to maximise the chance of getting some usable HTML out
// of an unreliable page.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "dom-content-loaded", Wait: WaitContentParsed, Timeout: 30 * time.Second, Settle: 5 * time.Second},
		{Name: "load-event", Wait: WaitLoadEvent, Timeout: 45 * time.Second, Settle: 3 * time.Second},
		{Name: "immediate", Wait: WaitNone, Timeout: 60 * time.Second, Settle: 8 * time.Second},
	}
}

// attemptFunc runs a single navigation attempt. Production code binds it to
// a rod page; tests inject fakes.
type attemptFunc func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error)

// navigateWithFallback drives the tier state machine: tiers are tried in
// order, any failure advances to the next tier, the first success wins and
// later tiers are never attempted. Exhausting all tiers yields a single
// aggregated navigation error citing the last failure.
func navigateWithFallback(ctx context.Context, url string, tiers []Tier, attempt attemptFunc) (*models.PageSnapshot, error) {
	if len(tiers) == 0 {
		return nil, models.NewCloneError(models.ErrCodeNavigation, "no navigation tiers configured", nil)
	}

	var lastErr error
	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return nil, models.NewCloneError(models.ErrCodeTimeout,
				"deadline exceeded before navigation completed", err)
		}

		snap, err := attempt(ctx, url, tier)
		if err == nil && strings.TrimSpace(snap.RawHTML) == "" {
			err = fmt.Errorf("tier %q returned empty HTML", tier.Name)
		}
		if err == nil {
			snap.URL = url
			snap.StrategyUsed = tier.Name
			slog.Info("navigation succeeded", "url", url, "tier", tier.Name)
			return snap, nil
		}

		lastErr = err
		slog.Warn("navigation tier failed", "url", url, "tier", tier.Name, "error", err)
	}

	return nil, models.NewCloneError(models.ErrCodeNavigation,
		fmt.Sprintf("page load failed after %d attempts: %v", len(tiers), lastErr),
		lastErr)
}

// attemptNavigate is the rod-backed attemptFunc. The wait listener must be
// registered before Navigate, otherwise an event fired mid-setup would be
// missed and the wait would hang until the tier timeout.
func (s *Scraper) attemptNavigate(ctx context.Context, page *rod.Page, url string, tier Tier) (*models.PageSnapshot, error) {
	tierCtx, cancel := context.WithTimeout(ctx, tier.Timeout)
	defer cancel()
	p := page.Context(tierCtx)

	switch tier.Wait {
	case WaitContentParsed:
		wait := p.WaitEvent(&proto.PageDomContentEventFired{})
		if err := p.Navigate(url); err != nil {
			return nil, err
		}
		wait()
	case WaitLoadEvent:
		wait := p.WaitEvent(&proto.PageLoadEventFired{})
		if err := p.Navigate(url); err != nil {
			return nil, err
		}
		wait()
	case WaitNone:
		if err := p.Navigate(url); err != nil {
			return nil, err
		}
	}

	// WaitEvent also returns when the tier context expires; distinguish
	// the two by asking the context.
	if err := tierCtx.Err(); err != nil {
		return nil, err
	}

	// Settle delay: the wait condition only covers parsing/loading, not
	// async rendering. Counted against the overall deadline, not the
	// tier's.
	select {
	case <-time.After(tier.Settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return nil, err
	}
	title := evalStringOrEmpty(page.Context(ctx), `() => document.title`)

	return &models.PageSnapshot{RawHTML: html, Title: title}, nil
}
