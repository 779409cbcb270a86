package models

// CloneRequest is the payload for POST /api/v1/clone and POST /api/v1/scrape.
type CloneRequest struct {
	// URL is the target page to clone. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for the entire
	// operation (all navigation tiers + sampling + capture).
	// Default: 150. Max: 180.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=180"`

	// MaxContextChars overrides the character budget for the compressed
	// context handed to the generation model.
	// Default: server-configured (3000).
	MaxContextChars int `json:"max_context_chars,omitempty" binding:"omitempty,min=200,max=100000"`

	// Stealth enables anti-bot-detection evasions
	// (e.g. navigator.webdriver masking). Default: false.
	Stealth bool `json:"stealth,omitempty"`

	// BlockAds blocks requests to known ad/tracking domains. Resource
	// types (images, CSS, fonts) are never blocked: the clone needs
	// them rendered. Default: false.
	BlockAds bool `json:"block_ads,omitempty"`

	// IncludeSource adds a readable Markdown rendition of the scraped
	// page to the response. Default: false.
	IncludeSource bool `json:"include_source,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *CloneRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 150
	}
}

// CompressRequest is the payload for POST /api/v1/compress.
type CompressRequest struct {
	// Report is the compiled report text to reduce.
	Report string `json:"report" binding:"required"`

	// MaxChars is the hard character budget for the output.
	MaxChars int `json:"max_chars" binding:"required,min=1"`
}
