// Package llm is a lightweight Anthropic Messages API client for visual
// clone generation. It uses net/http directly — no third-party SDK needed.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/mimic/compress"
	"github.com/use-agent/mimic/config"
	"github.com/use-agent/mimic/models"
)

const anthropicVersion = "2023-06-01"

// Client talks to an Anthropic-compatible Messages API.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

// NewClient validates the configuration and creates the generation client.
// A missing API key fails fast here with a typed error instead of failing
// deep inside the first request. Pass nil to use a default http.Client.
func NewClient(cfg config.LLMConfig, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, models.NewCloneError(models.ErrCodeLLMConfig,
			"generation API key is not configured (set MIMIC_LLM_API_KEY)", nil)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// messagesRequest is the Anthropic Messages API request body.
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// messagesResponse is the minimal Messages API response we need.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// messagesErrorResponse captures an API error from the provider.
type messagesErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateResult holds the generation output.
type GenerateResult struct {
	HTML         string
	ContextChars int
	InputTokens  int
	OutputTokens int
}

// GenerateClone compresses the scrape report to the character budget and
// asks the model for a standalone HTML document matching the screenshot.
//
// maxContextChars ≤ 0 uses the configured default. Oversized screenshots are
// rejected with a typed error: resizing would silently change the visual
// ground truth the pipeline exists to preserve.
func (c *Client) GenerateClone(ctx context.Context, report, screenshotB64 string, maxContextChars int) (*GenerateResult, error) {
	// The provider limit applies to the image itself, not the base64
	// transport encoding, so compare the decoded size.
	if decoded := base64.StdEncoding.DecodedLen(len(screenshotB64)); decoded > c.cfg.MaxImageBytes {
		return nil, models.NewCloneError(models.ErrCodeGeneration,
			fmt.Sprintf("screenshot of %d bytes exceeds the %d byte image limit",
				decoded, c.cfg.MaxImageBytes), nil)
	}

	if maxContextChars <= 0 {
		maxContextChars = 3000
	}
	reduced := compress.Reduce(report, maxContextChars)

	prompt := fmt.Sprintf(`Analyze the screenshot and create an exact HTML clone.

%s

Create pixel-perfect HTML with:
- EXACT background color from screenshot (most important!)
- Match all colors, fonts, and layout precisely
- Inline CSS only, complete standalone document
- Focus on body/html background styling

Return only HTML code.`, reduced)

	reqBody := messagesRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: 0.1,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: "image/png",
						Data:      screenshotB64,
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewCloneError(models.ErrCodeGeneration, "generation request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewCloneError(models.ErrCodeGeneration, "failed to read generation response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyGenerationError(resp.StatusCode, respBody)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return nil, models.NewCloneError(models.ErrCodeGeneration, "failed to parse generation response", err)
	}

	text := ""
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, models.NewCloneError(models.ErrCodeGeneration, "generation returned no text content", nil)
	}

	return &GenerateResult{
		HTML:         SanitizeHTML(text),
		ContextChars: len(reduced),
		InputTokens:  msgResp.Usage.InputTokens,
		OutputTokens: msgResp.Usage.OutputTokens,
	}, nil
}

// SanitizeHTML normalizes raw model output into a standalone document:
// markdown code fences are stripped, and a bare fragment is wrapped in a
// minimal full document.
func SanitizeHTML(raw string) string {
	html := strings.TrimSpace(raw)

	if strings.HasPrefix(html, "```html") {
		html = html[len("```html"):]
	} else if strings.HasPrefix(html, "```") {
		html = html[len("```"):]
	}
	html = strings.TrimSuffix(strings.TrimSpace(html), "```")
	html = strings.TrimSpace(html)

	lower := strings.ToLower(html)
	if !strings.HasPrefix(lower, "<!doctype") && !strings.HasPrefix(lower, "<html") {
		html = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Cloned Website</title>
</head>
<body>
%s
</body>
</html>`, html)
	}

	return html
}

// classifyGenerationError maps HTTP status codes to appropriate error codes.
func classifyGenerationError(statusCode int, body []byte) *models.CloneError {
	var errResp messagesErrorResponse
	msg := "generation API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewCloneError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewCloneError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewCloneError(models.ErrCodeGeneration,
			fmt.Sprintf("generation API returned %d: %s", statusCode, msg), nil)
	}
}
