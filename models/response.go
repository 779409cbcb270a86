package models

// CloneResponse is the response for POST /api/v1/clone.
type CloneResponse struct {
	// Success indicates whether the clone completed without fatal errors.
	Success bool `json:"success"`

	// HTML is the generated standalone HTML document.
	HTML string `json:"html,omitempty"`

	// StrategyUsed names the navigation tier that loaded the page.
	StrategyUsed string `json:"strategy_used,omitempty"`

	// ReportChars is the length of the compiled report before compression.
	ReportChars int `json:"report_chars,omitempty"`

	// Screenshot is the full-page PNG, base64-encoded. Returned even when
	// generation fails so the caller keeps the scrape artifacts.
	Screenshot string `json:"screenshot,omitempty"`

	// SourceMarkdown is a readable rendition of the scraped page.
	// Populated only when the request sets include_source.
	SourceMarkdown string `json:"source_markdown,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ScrapeResponse is the response for POST /api/v1/scrape: the scrape
// artifacts without generation.
type ScrapeResponse struct {
	Success      bool         `json:"success"`
	Report       string       `json:"report,omitempty"`
	Screenshot   string       `json:"screenshot,omitempty"`
	StrategyUsed string       `json:"strategy_used,omitempty"`
	Timing       TimingInfo   `json:"timing"`
	Error        *ErrorDetail `json:"error,omitempty"`
}

// CompressResponse is the response for POST /api/v1/compress.
type CompressResponse struct {
	Success    bool         `json:"success"`
	Compressed string       `json:"compressed"`
	Chars      int          `json:"chars"`
	Error      *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ScrapeMs is the time spent navigating, sampling, and capturing.
	ScrapeMs int64 `json:"scrape_ms,omitempty"`

	// GenerationMs is the time spent in the generation model.
	GenerationMs int64 `json:"generation_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
