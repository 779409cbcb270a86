package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// textExcerptPlaceholder substitutes the content overview when in-page text
// extraction fails. The excerpt is explanatory context, never critical data.
const textExcerptPlaceholder = "Unable to extract text content"

// textExcerptLimit bounds the visible-text excerpt in characters.
const textExcerptLimit = 2000

// visibleTextJS reads the page's visible text from a detached clone of the
// body so that removing script/style content never mutates the live page
// (the screenshot and sampler read the same page state).
const visibleTextJS = `() => {
	if (!document.body) return '';
	const clone = document.body.cloneNode(true);
	clone.querySelectorAll('script, style, noscript').forEach(el => el.remove());
	const text = clone.innerText || clone.textContent || '';
	return text.slice(0, 2000);
}`

// captureScreenshot takes one full-page PNG of the loaded page. No resizing
// or cropping; the caller base64-encodes for transport.
func captureScreenshot(ctx context.Context, page *rod.Page) ([]byte, error) {
	return page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// extractTextExcerpt returns up to 2000 characters of visible page text.
// It never fails: any evaluation error degrades to a fixed placeholder.
func extractTextExcerpt(ctx context.Context, page *rod.Page) string {
	res, err := page.Context(ctx).Eval(visibleTextJS)
	if err != nil {
		slog.Warn("text extraction failed, using placeholder", "error", err)
		return textExcerptPlaceholder
	}
	return truncateRunes(res.Value.Str(), textExcerptLimit)
}
