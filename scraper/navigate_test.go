package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/mimic/models"
)

func testTiers() []Tier {
	return []Tier{
		{Name: "first", Wait: WaitContentParsed, Timeout: time.Second, Settle: 0},
		{Name: "second", Wait: WaitLoadEvent, Timeout: time.Second, Settle: 0},
		{Name: "third", Wait: WaitNone, Timeout: time.Second, Settle: 0},
	}
}

func TestNavigateWithFallback_FirstTierSucceeds(t *testing.T) {
	var attempted []string
	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		attempted = append(attempted, tier.Name)
		return &models.PageSnapshot{RawHTML: "<html><body>ok</body></html>", Title: "OK"}, nil
	}

	snap, err := navigateWithFallback(context.Background(), "https://example.com", testTiers(), attempt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempted) != 1 || attempted[0] != "first" {
		t.Errorf("expected exactly one attempt on tier %q, got %v", "first", attempted)
	}
	if snap.StrategyUsed != "first" {
		t.Errorf("StrategyUsed = %q, want %q", snap.StrategyUsed, "first")
	}
	if snap.URL != "https://example.com" {
		t.Errorf("URL = %q, want the requested URL", snap.URL)
	}
}

func TestNavigateWithFallback_FallsThroughToLaterTier(t *testing.T) {
	var attempted []string
	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		attempted = append(attempted, tier.Name)
		if tier.Name != "third" {
			return nil, fmt.Errorf("%s: load did not complete", tier.Name)
		}
		return &models.PageSnapshot{RawHTML: "<html></html>"}, nil
	}

	snap, err := navigateWithFallback(context.Background(), "https://example.com", testTiers(), attempt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(attempted) != len(want) {
		t.Fatalf("attempted tiers = %v, want %v", attempted, want)
	}
	for i := range want {
		if attempted[i] != want[i] {
			t.Fatalf("attempted tiers = %v, want %v", attempted, want)
		}
	}
	if snap.StrategyUsed != "third" {
		t.Errorf("StrategyUsed = %q, want %q", snap.StrategyUsed, "third")
	}
}

func TestNavigateWithFallback_ExhaustionCitesLastFailure(t *testing.T) {
	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		return nil, fmt.Errorf("%s failed", tier.Name)
	}

	_, err := navigateWithFallback(context.Background(), "https://example.com", testTiers(), attempt)
	if err == nil {
		t.Fatal("expected an error after exhausting all tiers")
	}

	var cloneErr *models.CloneError
	if !errors.As(err, &cloneErr) {
		t.Fatalf("expected *models.CloneError, got %T", err)
	}
	if cloneErr.Code != models.ErrCodeNavigation {
		t.Errorf("error code = %q, want %q", cloneErr.Code, models.ErrCodeNavigation)
	}
	if !strings.Contains(cloneErr.Message, "3 attempts") {
		t.Errorf("message should cite the attempt count, got %q", cloneErr.Message)
	}
	if !strings.Contains(cloneErr.Message, "third failed") {
		t.Errorf("message should cite the last tier's failure, got %q", cloneErr.Message)
	}
}

func TestNavigateWithFallback_EmptyHTMLCountsAsFailure(t *testing.T) {
	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		if tier.Name == "first" {
			return &models.PageSnapshot{RawHTML: "   \n\t  "}, nil
		}
		return &models.PageSnapshot{RawHTML: "<html>real</html>"}, nil
	}

	snap, err := navigateWithFallback(context.Background(), "https://example.com", testTiers(), attempt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.StrategyUsed != "second" {
		t.Errorf("blank HTML should advance past the first tier, StrategyUsed = %q", snap.StrategyUsed)
	}
}

func TestNavigateWithFallback_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		t.Fatal("attempt should not run with a dead context")
		return nil, nil
	}

	_, err := navigateWithFallback(ctx, "https://example.com", testTiers(), attempt)
	var cloneErr *models.CloneError
	if !errors.As(err, &cloneErr) {
		t.Fatalf("expected *models.CloneError, got %T", err)
	}
	if cloneErr.Code != models.ErrCodeTimeout {
		t.Errorf("error code = %q, want %q", cloneErr.Code, models.ErrCodeTimeout)
	}
}

func TestNavigateWithFallback_NoTiers(t *testing.T) {
	attempt := func(ctx context.Context, url string, tier Tier) (*models.PageSnapshot, error) {
		return nil, nil
	}

	_, err := navigateWithFallback(context.Background(), "https://example.com", nil, attempt)
	if err == nil {
		t.Fatal("expected an error for an empty tier list")
	}
}

func TestDefaultTiers_Ladder(t *testing.T) {
	tiers := DefaultTiers()
	if len(tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(tiers))
	}

	// Each tier must be more tolerant than the previous: longer timeout,
	// weaker wait condition.
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Timeout <= tiers[i-1].Timeout {
			t.Errorf("tier %q timeout %v is not longer than tier %q timeout %v",
				tiers[i].Name, tiers[i].Timeout, tiers[i-1].Name, tiers[i-1].Timeout)
		}
		if tiers[i].Wait <= tiers[i-1].Wait {
			t.Errorf("tier %q wait condition is not weaker than tier %q",
				tiers[i].Name, tiers[i-1].Name)
		}
	}

	if tiers[0].Wait != WaitContentParsed || tiers[2].Wait != WaitNone {
		t.Error("ladder should start at DOMContentLoaded and end at immediate")
	}
}
