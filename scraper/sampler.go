package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/use-agent/mimic/models"
)

// designSampleJS evaluates the page's rendered design in a single pass.
//
// Cost bounds are deliberate and load-bearing: only the first 100 elements
// in document order are inspected (computed-style reads are expensive, and
// the visually defining elements of a page sit near the top of the DOM), and
// every collected list is capped, so the result size and the wall-clock cost
// are independent of page size. Fully transparent colors are excluded from
// the palette. Landmark detection probes selectors in priority order: ARIA
// role first, then semantic tag, then common class names — a heuristic, not
// a semantic guarantee.
const designSampleJS = `() => {
	const info = {};
	try {
		const body = document.body;
		const html = document.documentElement;
		const bodyStyle = window.getComputedStyle(body);
		const htmlStyle = window.getComputedStyle(html);

		info.bodyBackground = {
			backgroundColor: bodyStyle.backgroundColor,
			backgroundImage: bodyStyle.backgroundImage,
			backgroundSize: bodyStyle.backgroundSize,
			backgroundPosition: bodyStyle.backgroundPosition,
			backgroundRepeat: bodyStyle.backgroundRepeat
		};
		info.htmlBackground = {
			backgroundColor: htmlStyle.backgroundColor,
			backgroundImage: htmlStyle.backgroundImage
		};
		info.typography = {
			fontFamily: bodyStyle.fontFamily,
			fontSize: bodyStyle.fontSize,
			fontWeight: bodyStyle.fontWeight,
			lineHeight: bodyStyle.lineHeight,
			color: bodyStyle.color
		};

		const TRANSPARENT = 'rgba(0, 0, 0, 0)';
		const backgrounds = [];
		const textColors = [];
		const gradientElements = [];
		const shadowElements = [];
		const pushUnique = (list, value, cap) => {
			if (value && list.length < cap && !list.includes(value)) list.push(value);
		};

		const elements = document.querySelectorAll('*');
		const sampleSize = Math.min(elements.length, 100);
		for (let i = 0; i < sampleSize; i++) {
			try {
				const el = elements[i];
				const style = window.getComputedStyle(el);

				if (style.backgroundColor && style.backgroundColor !== TRANSPARENT && style.backgroundColor !== 'transparent') {
					pushUnique(backgrounds, style.backgroundColor, 10);
				}
				if (style.color && style.color !== TRANSPARENT) {
					pushUnique(textColors, style.color, 10);
				}
				if (style.borderColor && style.borderColor !== TRANSPARENT) {
					pushUnique(textColors, style.borderColor, 10);
				}
				if (gradientElements.length < 5 && style.backgroundImage && style.backgroundImage.includes('gradient')) {
					gradientElements.push({
						tagName: el.tagName,
						className: String(el.className),
						backgroundImage: style.backgroundImage
					});
				}
				if (shadowElements.length < 5 && style.boxShadow && style.boxShadow !== 'none') {
					shadowElements.push({
						tagName: el.tagName,
						className: String(el.className),
						boxShadow: style.boxShadow
					});
				}
			} catch (e) {
				continue;
			}
		}

		info.colorPalette = { backgrounds: backgrounds, textColors: textColors };
		info.visualEffects = {
			hasGradients: gradientElements.length > 0,
			gradientElements: gradientElements,
			hasShadows: shadowElements.length > 0,
			shadowElements: shadowElements
		};

		const firstMatch = (selectors) => {
			for (const sel of selectors) {
				const el = document.querySelector(sel);
				if (el) return el;
			}
			return null;
		};
		const header = firstMatch(['[role="banner"]', 'header', 'nav', '.header', '.nav']);
		const main = firstMatch(['[role="main"]', 'main', '.main', '.content']);
		const footer = firstMatch(['[role="contentinfo"]', 'footer', '.footer']);
		info.layout = {
			hasHeader: !!header,
			hasMain: !!main,
			hasFooter: !!footer,
			headerHeight: header ? header.offsetHeight : 0,
			mainHeight: main ? main.offsetHeight : 0
		};

		info.headings = Array.from(document.querySelectorAll('h1, h2, h3')).slice(0, 5).map(h => {
			const style = window.getComputedStyle(h);
			return {
				tag: h.tagName,
				text: (h.textContent || '').trim().slice(0, 100),
				fontSize: style.fontSize,
				fontWeight: style.fontWeight,
				color: style.color,
				textAlign: style.textAlign
			};
		});

		info.components = {
			hasNavigation: !!document.querySelector('nav, .navigation, .menu'),
			buttonCount: document.querySelectorAll('button, .button, .btn, [role="button"]').length,
			cardCount: document.querySelectorAll('.card, .box, .item, .tile').length,
			gridCount: document.querySelectorAll('.grid, .row, .columns, .flex').length,
			hasHero: !!document.querySelector('.hero, .banner, .jumbotron, .hero-section'),
			hasModal: !!document.querySelector('.modal, .popup, .overlay'),
			hasCarousel: !!document.querySelector('.carousel, .slider, .swiper')
		};

		info.buttonStyles = Array.from(document.querySelectorAll('button, .button, .btn')).slice(0, 3).map(btn => {
			const style = window.getComputedStyle(btn);
			return {
				backgroundColor: style.backgroundColor,
				color: style.color,
				borderRadius: style.borderRadius,
				padding: style.padding,
				fontSize: style.fontSize,
				fontWeight: style.fontWeight,
				border: style.border,
				textContent: (btn.textContent || '').trim().slice(0, 50)
			};
		});

		return info;
	} catch (e) {
		return { error: e.message };
	}
}`

// sampleDesign runs the design sampling evaluation under the sampler budget.
// It never fails the request: timeouts and evaluation faults come back as a
// tagged SamplingError so the report can carry a placeholder instead.
func (s *Scraper) sampleDesign(ctx context.Context, page *rod.Page) models.SampleResult {
	sampleCtx, cancel := context.WithTimeout(ctx, s.samplerCfg.Timeout)
	defer cancel()

	res, err := page.Context(sampleCtx).Eval(designSampleJS)
	if err != nil {
		kind := models.SamplingKindEvaluation
		if errors.Is(err, context.DeadlineExceeded) || sampleCtx.Err() != nil {
			kind = models.SamplingKindTimeout
		}
		slog.Warn("design sampling failed", "kind", kind, "error", err)
		return models.SampleResult{Err: &models.SamplingError{Kind: kind, Message: err.Error()}}
	}

	var rec models.DesignRecord
	if err := json.Unmarshal([]byte(res.Value.JSON("", "")), &rec); err != nil {
		slog.Warn("design sampling returned unparseable result", "error", err)
		return models.SampleResult{Err: &models.SamplingError{
			Kind:    models.SamplingKindEvaluation,
			Message: "unparseable sampling result: " + err.Error(),
		}}
	}

	if rec.Error != "" {
		slog.Warn("design sampling errored in page", "error", rec.Error)
		return models.SampleResult{Err: &models.SamplingError{
			Kind:    models.SamplingKindEvaluation,
			Message: rec.Error,
		}}
	}

	return models.SampleResult{Record: &rec}
}

// FormatDesignRecord renders a DesignRecord into the report's
// "VISUAL DESIGN ANALYSIS" section. Pure; the section layout is a stable
// contract consumed by the context compressor.
func FormatDesignRecord(rec *models.DesignRecord) string {
	var b strings.Builder

	b.WriteString("BACKGROUND & COLORS:\n")
	fmt.Fprintf(&b, "- Body Background: %s\n", orNA(rec.BodyBackground.BackgroundColor))
	fmt.Fprintf(&b, "- Body Background Image: %s\n", truncateRunes(orNA(rec.BodyBackground.BackgroundImage), 100))
	fmt.Fprintf(&b, "- HTML Background: %s\n", orNA(rec.HTMLBackground.BackgroundColor))
	fmt.Fprintf(&b, "- Background Colors Found: %s\n", strings.Join(firstN(rec.ColorPalette.Backgrounds, 5), ", "))
	fmt.Fprintf(&b, "- Text Colors Found: %s\n", strings.Join(firstN(rec.ColorPalette.TextColors, 5), ", "))

	b.WriteString("\nTYPOGRAPHY:\n")
	fmt.Fprintf(&b, "- Font Family: %s\n", orNA(rec.Typography.FontFamily))
	fmt.Fprintf(&b, "- Font Size: %s\n", orNA(rec.Typography.FontSize))
	fmt.Fprintf(&b, "- Font Weight: %s\n", orNA(rec.Typography.FontWeight))
	fmt.Fprintf(&b, "- Text Color: %s\n", orNA(rec.Typography.Color))
	fmt.Fprintf(&b, "- Line Height: %s\n", orNA(rec.Typography.LineHeight))

	b.WriteString("\nLAYOUT STRUCTURE:\n")
	fmt.Fprintf(&b, "- Has Header: %t\n", rec.Layout.HasHeader)
	fmt.Fprintf(&b, "- Has Main: %t\n", rec.Layout.HasMain)
	fmt.Fprintf(&b, "- Has Footer: %t\n", rec.Layout.HasFooter)
	fmt.Fprintf(&b, "- Header Height: %dpx\n", rec.Layout.HeaderHeight)

	b.WriteString("\nVISUAL EFFECTS:\n")
	fmt.Fprintf(&b, "- Has Gradients: %t\n", rec.VisualEffects.HasGradients)
	fmt.Fprintf(&b, "- Gradient Details: %s\n", formatEffects(rec.VisualEffects.GradientElements, effectGradient))
	fmt.Fprintf(&b, "- Has Shadows: %t\n", rec.VisualEffects.HasShadows)
	fmt.Fprintf(&b, "- Shadow Details: %s\n", formatEffects(rec.VisualEffects.ShadowElements, effectShadow))

	b.WriteString("\nUI COMPONENTS:\n")
	fmt.Fprintf(&b, "- Navigation: %t\n", rec.Components.HasNavigation)
	fmt.Fprintf(&b, "- Buttons Count: %d\n", rec.Components.ButtonCount)
	fmt.Fprintf(&b, "- Cards Count: %d\n", rec.Components.CardCount)
	fmt.Fprintf(&b, "- Has Hero Section: %t\n", rec.Components.HasHero)
	fmt.Fprintf(&b, "- Has Grid Layout: %t\n", rec.Components.GridCount > 0)

	b.WriteString("\nBUTTON STYLES:\n")
	b.WriteString(formatButtonStyles(rec.ButtonStyles))

	b.WriteString("\n\nCONTENT HEADINGS:\n")
	b.WriteString(formatHeadings(rec.Headings))

	return b.String()
}

type effectKind int

const (
	effectGradient effectKind = iota
	effectShadow
)

func formatEffects(elements []models.EffectElement, kind effectKind) string {
	if len(elements) == 0 {
		return "None found"
	}

	lines := make([]string, 0, len(elements))
	for _, el := range elements {
		className := el.ClassName
		if className == "" {
			className = "no-class"
		}
		detail := el.BoxShadow
		if kind == effectGradient {
			detail = truncateRunes(el.BackgroundImage, 100)
		}
		lines = append(lines, fmt.Sprintf("  - %s.%s: %s", el.TagName, className, detail))
	}
	return "\n" + strings.Join(lines, "\n")
}

func formatButtonStyles(buttons []models.ButtonStyle) string {
	if len(buttons) == 0 {
		return "- No buttons found"
	}

	lines := make([]string, 0, len(buttons))
	for i, btn := range buttons {
		lines = append(lines, fmt.Sprintf(
			"Button %d (%q):\n  - Background: %s\n  - Color: %s\n  - Border Radius: %s\n  - Padding: %s\n  - Font Weight: %s\n  - Border: %s",
			i+1, truncateRunes(btn.TextContent, 30),
			orNA(btn.BackgroundColor), orNA(btn.Color), orNA(btn.BorderRadius),
			orNA(btn.Padding), orNA(btn.FontWeight), orNA(btn.Border),
		))
	}
	return strings.Join(lines, "\n")
}

func formatHeadings(headings []models.HeadingStyle) string {
	if len(headings) == 0 {
		return "- No major headings found"
	}

	lines := make([]string, 0, len(headings))
	for _, h := range headings {
		lines = append(lines, fmt.Sprintf(
			"%s: %q\n  - Font Size: %s\n  - Font Weight: %s\n  - Color: %s\n  - Text Align: %s",
			h.Tag, truncateRunes(h.Text, 50),
			orNA(h.FontSize), orNA(h.FontWeight), orNA(h.Color), orNA(h.TextAlign),
		))
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
