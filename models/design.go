package models

import "fmt"

// PageSnapshot is the outcome of one successful navigation. It is created
// once per request and never mutated afterwards.
type PageSnapshot struct {
	// URL is the requested page URL.
	URL string

	// Title is the rendered document title.
	Title string

	// RawHTML is the rendered page source at capture time.
	RawHTML string

	// StrategyUsed names the navigation tier that produced the snapshot
	// (e.g. "dom-content-loaded", "load-event", "immediate").
	StrategyUsed string
}

// DesignRecord is a capped, structured summary of a page's rendered visual
// styling captured in a single in-page evaluation. Every list is bounded so
// the record's size is independent of page size.
type DesignRecord struct {
	BodyBackground BackgroundInfo `json:"bodyBackground"`
	HTMLBackground BackgroundInfo `json:"htmlBackground"`
	Typography     Typography     `json:"typography"`
	ColorPalette   ColorPalette   `json:"colorPalette"`
	Layout         LayoutInfo     `json:"layout"`
	Headings       []HeadingStyle `json:"headings"`       // ≤5
	VisualEffects  VisualEffects  `json:"visualEffects"`
	Components     Components     `json:"components"`
	ButtonStyles   []ButtonStyle  `json:"buttonStyles"`   // ≤3

	// Error is set by the in-page script when the evaluation itself ran
	// but failed partway; the other fields are then unreliable.
	Error string `json:"error,omitempty"`
}

// BackgroundInfo describes an element's computed background.
type BackgroundInfo struct {
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundImage    string `json:"backgroundImage,omitempty"`
	BackgroundSize     string `json:"backgroundSize,omitempty"`
	BackgroundPosition string `json:"backgroundPosition,omitempty"`
	BackgroundRepeat   string `json:"backgroundRepeat,omitempty"`
}

// Typography describes the body's base text styling.
type Typography struct {
	FontFamily string `json:"fontFamily"`
	FontSize   string `json:"fontSize"`
	FontWeight string `json:"fontWeight"`
	LineHeight string `json:"lineHeight"`
	Color      string `json:"color"`
}

// ColorPalette holds the deduplicated colors found on the sampled elements,
// in encounter order. Fully transparent values are excluded.
type ColorPalette struct {
	Backgrounds []string `json:"backgrounds"` // ≤10
	TextColors  []string `json:"textColors"`  // ≤10
}

// LayoutInfo reports landmark detection results. Detection is a first-match
// selector heuristic (ARIA role, semantic tag, common class names), not a
// semantic guarantee.
type LayoutInfo struct {
	HasHeader    bool `json:"hasHeader"`
	HasMain      bool `json:"hasMain"`
	HasFooter    bool `json:"hasFooter"`
	HeaderHeight int  `json:"headerHeight"`
	MainHeight   int  `json:"mainHeight"`
}

// HeadingStyle captures one prominent heading and its computed styling.
type HeadingStyle struct {
	Tag        string `json:"tag"`
	Text       string `json:"text"`
	FontSize   string `json:"fontSize"`
	FontWeight string `json:"fontWeight"`
	Color      string `json:"color"`
	TextAlign  string `json:"textAlign"`
}

// VisualEffects reports gradient and shadow usage.
type VisualEffects struct {
	HasGradients     bool            `json:"hasGradients"`
	GradientElements []EffectElement `json:"gradientElements"` // ≤5
	HasShadows       bool            `json:"hasShadows"`
	ShadowElements   []EffectElement `json:"shadowElements"`   // ≤5
}

// EffectElement identifies an element carrying a visual effect.
type EffectElement struct {
	TagName         string `json:"tagName"`
	ClassName       string `json:"className"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	BoxShadow       string `json:"boxShadow,omitempty"`
}

// Components holds UI component presence flags and counts.
type Components struct {
	HasNavigation bool `json:"hasNavigation"`
	ButtonCount   int  `json:"buttonCount"`
	CardCount     int  `json:"cardCount"`
	GridCount     int  `json:"gridCount"`
	HasHero       bool `json:"hasHero"`
	HasModal      bool `json:"hasModal"`
	HasCarousel   bool `json:"hasCarousel"`
}

// ButtonStyle captures one button's computed styling.
type ButtonStyle struct {
	BackgroundColor string `json:"backgroundColor"`
	Color           string `json:"color"`
	BorderRadius    string `json:"borderRadius"`
	Padding         string `json:"padding"`
	FontSize        string `json:"fontSize"`
	FontWeight      string `json:"fontWeight"`
	Border          string `json:"border"`
	TextContent     string `json:"textContent"`
}

// Sampling failure kinds.
const (
	SamplingKindTimeout    = "timeout"
	SamplingKindEvaluation = "evaluation"
)

// SamplingError is the degraded outcome of design sampling. It is
// deliberately not fatal: callers render an explanatory placeholder in the
// report instead of aborting the request.
type SamplingError struct {
	Kind    string // SamplingKindTimeout or SamplingKindEvaluation
	Message string
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("design sampling %s: %s", e.Kind, e.Message)
}

// Placeholder renders the explanatory text used in place of the formatted
// design analysis when sampling could not complete.
func (e *SamplingError) Placeholder() string {
	if e.Kind == SamplingKindTimeout {
		return "Could not extract design context: Operation timed out"
	}
	return "Could not extract design context: " + e.Message
}

// SampleResult is the tagged outcome of one sampling pass: exactly one of
// Record or Err is set.
type SampleResult struct {
	Record *DesignRecord
	Err    *SamplingError
}
