package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// cloneRequest mirrors the Mimic API request model.
type cloneRequest struct {
	URL             string `json:"url"`
	Timeout         int    `json:"timeout,omitempty"`
	MaxContextChars int    `json:"max_context_chars,omitempty"`
	Stealth         bool   `json:"stealth,omitempty"`
	BlockAds        bool   `json:"block_ads,omitempty"`
	IncludeSource   bool   `json:"include_source,omitempty"`
}

// cloneResponse mirrors the Mimic API clone response model.
type cloneResponse struct {
	Success      bool   `json:"success"`
	HTML         string `json:"html"`
	StrategyUsed string `json:"strategy_used"`
	ReportChars  int    `json:"report_chars"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// scrapeResponse mirrors the Mimic API scrape response model.
type scrapeResponse struct {
	Success      bool   `json:"success"`
	Report       string `json:"report"`
	StrategyUsed string `json:"strategy_used"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// compressResponse mirrors the Mimic API compress response model.
type compressResponse struct {
	Success    bool   `json:"success"`
	Compressed string `json:"compressed"`
	Chars      int    `json:"chars"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("MIMIC_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("MIMIC_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "MIMIC_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"mimic",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	cloneSiteTool := mcp.NewTool("clone_site",
		mcp.WithDescription("Clone a web page into a standalone HTML document that visually matches the original. Uses a headless browser to render the page, screenshots it, and generates the clone from the visual analysis."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to clone"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum seconds for the whole operation (default: 150, max: 180)"),
		),
		mcp.WithBoolean("stealth",
			mcp.Description("Enable anti-bot-detection evasions (default: false)"),
		),
		mcp.WithBoolean("block_ads",
			mcp.Description("Block requests to known ad/tracking domains (default: false)"),
		),
	)
	s.AddTool(cloneSiteTool, handleCloneSite(apiURL, apiKey))

	scrapeDesignTool := mcp.NewTool("scrape_design",
		mcp.WithDescription("Analyze a web page's visual design without generating a clone. Returns a structured report covering colors, typography, layout, effects, and components."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to analyze"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum seconds for the whole operation (default: 150, max: 180)"),
		),
		mcp.WithBoolean("stealth",
			mcp.Description("Enable anti-bot-detection evasions (default: false)"),
		),
	)
	s.AddTool(scrapeDesignTool, handleScrapeDesign(apiURL, apiKey))

	compressContextTool := mcp.NewTool("compress_context",
		mcp.WithDescription("Reduce a design analysis report to a character budget, keeping the most important styling information (backgrounds, colors, fonts, key selectors)."),
		mcp.WithString("report",
			mcp.Required(),
			mcp.Description("The design analysis report text to compress"),
		),
		mcp.WithNumber("max_chars",
			mcp.Required(),
			mcp.Description("The hard character budget for the output"),
		),
	)
	s.AddTool(compressContextTool, handleCompressContext(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Mimic API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleCloneSite(apiURL, apiKey string) server.ToolHandlerFunc {
	// Clone requests can run the full navigation ladder plus generation.
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := cloneRequest{
			URL:      url,
			Timeout:  int(request.GetFloat("timeout", 0)),
			Stealth:  request.GetBool("stealth", false),
			BlockAds: request.GetBool("block_ads", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/clone", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clone request failed: %v", err)), nil
		}

		var cloneResp cloneResponse
		if err := json.Unmarshal(respBody, &cloneResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !cloneResp.Success {
			errMsg := "clone failed"
			if cloneResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", cloneResp.Error.Code, cloneResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := fmt.Sprintf("Strategy: %s (report %d chars)\n\n%s",
			cloneResp.StrategyUsed, cloneResp.ReportChars, cloneResp.HTML)
		return mcp.NewToolResultText(result), nil
	}
}

func handleScrapeDesign(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 240 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := cloneRequest{
			URL:     url,
			Timeout: int(request.GetFloat("timeout", 0)),
			Stealth: request.GetBool("stealth", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var scrapeResp scrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !scrapeResp.Success {
			errMsg := "scrape failed"
			if scrapeResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", scrapeResp.Error.Code, scrapeResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := fmt.Sprintf("Strategy: %s\n\n%s", scrapeResp.StrategyUsed, scrapeResp.Report)
		return mcp.NewToolResultText(result), nil
	}
}

func handleCompressContext(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := request.RequireString("report")
		if err != nil {
			return mcp.NewToolResultError("report is required"), nil
		}

		maxChars := int(request.GetFloat("max_chars", 0))
		if maxChars <= 0 {
			return mcp.NewToolResultError("max_chars must be a positive number"), nil
		}

		payload := map[string]interface{}{
			"report":    report,
			"max_chars": maxChars,
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/compress", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compress request failed: %v", err)), nil
		}

		var compResp compressResponse
		if err := json.Unmarshal(respBody, &compResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !compResp.Success {
			errMsg := "compression failed"
			if compResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", compResp.Error.Code, compResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(compResp.Compressed), nil
	}
}
