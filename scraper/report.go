package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/mimic/models"
)

// Window and section limits for the compiled report. The section order below
// is a stable contract: the context compressor and the generation prompt
// both assume it.
const (
	reportExcerptLimit  = 800  // content overview inside the report
	htmlStructureWindow = 3000 // raw HTML excerpt
	cssScanWindow       = 5000 // HTML prefix scanned for CSS
	embeddedStyleLimit  = 500  // per embedded style block
	maxEmbeddedStyles   = 2
	maxInlineStyles     = 5
)

var (
	scriptBodyRE = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBodyRE  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// CompileReport assembles the fixed-order textual report for one snapshot.
// Pure and recomputed per request; unbounded length (the compressor enforces
// the budget downstream).
func CompileReport(snap *models.PageSnapshot, designSection, textExcerpt string, screenshotBytes int) string {
	screenshotRef := "No screenshot available"
	if screenshotBytes > 0 {
		screenshotRef = fmt.Sprintf(
			"Full-page PNG screenshot captured (%d bytes). Provided separately as a base64 image input; match its colors exactly.",
			screenshotBytes,
		)
	}

	return fmt.Sprintf(`WEBSITE ANALYSIS REPORT
======================
URL: %s
Title: %s

VISUAL DESIGN ANALYSIS:
%s

SCREENSHOT CONTEXT:
%s

CONTENT OVERVIEW:
%s...

HTML STRUCTURE FOR REFERENCE:
%s...

STYLING CONTEXT:
%s`,
		snap.URL,
		snap.Title,
		designSection,
		screenshotRef,
		truncateRunes(textExcerpt, reportExcerptLimit),
		cleanHTMLStructure(truncateRunes(snap.RawHTML, htmlStructureWindow)),
		extractCSSContext(snap.RawHTML),
	)
}

// cleanHTMLStructure blanks script and style element bodies while keeping
// the tags, preserving document shape without the noise.
func cleanHTMLStructure(html string) string {
	html = scriptBodyRE.ReplaceAllString(html, "<script></script>")
	return styleBodyRE.ReplaceAllString(html, "<style></style>")
}

// extractCSSContext pulls styling signal out of the HTML prefix: the first
// 2 embedded style blocks (500 chars each) and the first 5 inline style
// attribute values.
func extractCSSContext(rawHTML string) string {
	snippet := truncateRunes(rawHTML, cssScanWindow)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return "CSS extraction failed"
	}

	var b strings.Builder

	styles := doc.Find("style")
	if styles.Length() > 0 {
		b.WriteString("EMBEDDED CSS STYLES:\n")
		styles.EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxEmbeddedStyles {
				return false
			}
			fmt.Fprintf(&b, "Style Block %d:\n%s...\n\n", i+1, truncateRunes(s.Text(), embeddedStyleLimit))
			return true
		})
	}

	inline := doc.Find("[style]")
	if inline.Length() > 0 {
		b.WriteString("INLINE STYLES SAMPLE:\n")
		inline.EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxInlineStyles {
				return false
			}
			if v, ok := s.Attr("style"); ok {
				fmt.Fprintf(&b, "- %s\n", v)
			}
			return true
		})
	}

	if b.Len() == 0 {
		return "No CSS styles found in HTML"
	}
	return b.String()
}

// truncateRunes cuts s to at most n runes without producing invalid UTF-8.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
