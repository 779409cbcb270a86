// Package content renders a scraped page into readable Markdown, used when
// a clone request asks for the source alongside the generated HTML.
package content

import (
	"bytes"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to raw HTML.
const minContentLength = 50

// defaultExcludeSelectors names the chrome stripped before conversion when
// readability fell back to raw HTML.
var defaultExcludeSelectors = []string{"script", "style", "noscript", "nav", "footer", "aside"}

// Summarizer converts scraped HTML into Markdown. The converter is created
// once and reused across all requests (goroutine-safe).
type Summarizer struct {
	mdConverter *converter.Converter
}

// NewSummarizer initialises the Summarizer with a pre-configured converter:
// base plugin strips non-content elements, commonmark renders standard
// Markdown, and the table plugin keeps tabular structure with minimal
// padding.
func NewSummarizer() *Summarizer {
	return &Summarizer{
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// Summarize extracts the page's main content and converts it to Markdown.
//
// Flow:
//  1. Readability extracts the main article; on failure or content shorter
//     than minContentLength, fall back to the raw HTML with page chrome
//     removed by selector.
//  2. Convert to Markdown with relative URLs resolved against sourceURL.
func (s *Summarizer) Summarize(rawHTML, sourceURL string) (string, error) {
	content := extractMainContent(rawHTML, sourceURL)

	domain := ""
	if u, err := nurl.Parse(sourceURL); err == nil {
		domain = u.Scheme + "://" + u.Host
	}

	md, err := s.mdConverter.ConvertString(content, converter.WithDomain(domain))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// extractMainContent runs the Mozilla Readability algorithm on rawHTML,
// falling back to selector-stripped raw HTML when readability chokes.
func extractMainContent(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("summarize: invalid source URL, falling back to raw HTML",
			"url", sourceURL, "error", err)
		return RemoveBySelectors(rawHTML, defaultExcludeSelectors)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("summarize: readability failed, falling back to raw HTML",
			"url", sourceURL, "error", err)
		return RemoveBySelectors(rawHTML, defaultExcludeSelectors)
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("summarize: extracted content too short, falling back to raw HTML",
			"url", sourceURL, "length", len(article.TextContent))
		return RemoveBySelectors(rawHTML, defaultExcludeSelectors)
	}

	return article.Content
}

// RemoveBySelectors parses rawHTML and removes every element matching any of
// the given CSS selectors, returning the re-rendered document. Parse or
// selector errors return the input unchanged — filtering is best-effort.
func RemoveBySelectors(rawHTML string, selectors []string) string {
	if len(selectors) == 0 {
		return rawHTML
	}

	sel, err := cascadia.Parse(strings.Join(selectors, ", "))
	if err != nil {
		return rawHTML
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	for _, node := range cascadia.QueryAll(doc, sel) {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return rawHTML
	}
	return buf.String()
}
