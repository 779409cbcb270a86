// Package compress reduces an oversized scrape report to a hard character
// budget. The reduction is a fixed priority cascade, not a general
// summarizer: background signals survive first, because the background color
// is the single most visually salient property of a page, then body/html
// rule blocks, color tokens, font declarations, and a few structural
// selectors. Everything else is dropped.
//
// Reduce is pure, deterministic, and stateless.
package compress

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Per-bucket caps. The considered counts are larger than the kept counts so
// duplicates removed by dedup do not starve a bucket.
const (
	perPatternBackgrounds = 5
	maxBackgrounds        = 8
	maxBodyHTMLBlocks     = 3
	consideredColors      = 15
	maxColors             = 12
	consideredFonts       = 8
	maxFonts              = 5
	perPatternStructural  = 2
)

// backgroundPatterns is ordered from most to least specific. Order matters:
// matches are concatenated in pattern order before the combined cap.
var backgroundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)background-color[^;]*;`),
	regexp.MustCompile(`(?i)background[^;]*;`),
	regexp.MustCompile(`(?is)body[^}]*background[^}]*}`),
	regexp.MustCompile(`(?is)html[^}]*background[^}]*}`),
	regexp.MustCompile(`(?is)\.bg-[^}]*}`),
	regexp.MustCompile(`(?i)background:\s*[^;]+;`),
}

var (
	bodyHTMLBlockRE = regexp.MustCompile(`(?is)(?:body|html)\s*\{[^}]*}`)
	colorTokenRE    = regexp.MustCompile(`#[0-9a-fA-F]{3,6}|rgb\([^)]+\)|rgba\([^)]+\)|hsl\([^)]+\)`)
	fontDeclRE      = regexp.MustCompile(`(?i)font-family:[^;]+;|font-size:[^;]+;|font-weight:[^;]+;`)
)

// structuralPatterns covers the landmark selectors worth keeping when the
// budget is tight, in fixed output order.
var structuralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)header[^}]*}`),
	regexp.MustCompile(`(?i)nav[^}]*}`),
	regexp.MustCompile(`(?i)button[^}]*}`),
	regexp.MustCompile(`(?i)\.main[^}]*}`),
	regexp.MustCompile(`(?i)\.container[^}]*}`),
}

const backgroundInstruction = "IMPORTANT: Match the exact background color from the screenshot. Pay special attention to body/html background styling."

// Reduce shrinks report to at most maxChars characters (runes).
//
// Reports already within budget are returned unchanged (identity, no
// information loss). Oversized reports are rebuilt from the priority buckets
// and then hard-truncated to the budget; the final cut may split a token
// mid-way, which is accepted lossy behavior.
func Reduce(report string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(report) <= maxChars {
		return report
	}

	out := fmt.Sprintf(`CRITICAL BACKGROUND INFO:
%s

BODY/HTML STYLES:
%s

COLORS USED:
%s

FONTS:
%s

OTHER KEY STYLES:
%s

%s`,
		strings.Join(backgroundSignals(report), "; "),
		strings.Join(bodyHTMLBlocks(report), "; "),
		strings.Join(colorTokens(report), ", "),
		strings.Join(fontDeclarations(report), "; "),
		strings.Join(structuralRules(report), "; "),
		backgroundInstruction,
	)

	return truncate(out, maxChars)
}

// backgroundSignals collects explicit background declarations and rule
// blocks that mention backgrounds, up to 5 per pattern, 8 combined.
func backgroundSignals(report string) []string {
	var signals []string
	for _, re := range backgroundPatterns {
		matches := re.FindAllString(report, perPatternBackgrounds)
		signals = append(signals, matches...)
	}
	return capList(signals, maxBackgrounds)
}

// bodyHTMLBlocks collects whole body{...} and html{...} rule blocks,
// independent of the background bucket.
func bodyHTMLBlocks(report string) []string {
	return capList(bodyHTMLBlockRE.FindAllString(report, maxBodyHTMLBlocks), maxBodyHTMLBlocks)
}

// colorTokens collects hex, rgb(), rgba(), and hsl() values: the first 15
// occurrences are considered, deduplicated by value in encounter order, and
// capped at 12.
func colorTokens(report string) []string {
	return capList(dedup(colorTokenRE.FindAllString(report, consideredColors)), maxColors)
}

// fontDeclarations collects font-family/size/weight declarations: first 8
// considered, deduplicated, capped at 5.
func fontDeclarations(report string) []string {
	return capList(dedup(fontDeclRE.FindAllString(report, consideredFonts)), maxFonts)
}

// structuralRules collects up to 2 rule blocks for each landmark selector,
// concatenated in pattern order.
func structuralRules(report string) []string {
	var rules []string
	for _, re := range structuralPatterns {
		rules = append(rules, re.FindAllString(report, perPatternStructural)...)
	}
	return rules
}

// dedup removes duplicate values while preserving first-seen order.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func capList(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

// truncate cuts s to at most n runes without producing invalid UTF-8.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
