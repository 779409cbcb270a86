package scraper

import (
	"strings"
	"testing"

	"github.com/use-agent/mimic/models"
)

func sampleRecord() *models.DesignRecord {
	return &models.DesignRecord{
		BodyBackground: models.BackgroundInfo{BackgroundColor: "rgb(255, 255, 255)", BackgroundImage: "none"},
		HTMLBackground: models.BackgroundInfo{BackgroundColor: "rgba(0, 0, 0, 0)"},
		Typography: models.Typography{
			FontFamily: "Inter, sans-serif",
			FontSize:   "16px",
			FontWeight: "400",
			LineHeight: "24px",
			Color:      "rgb(17, 17, 17)",
		},
		ColorPalette: models.ColorPalette{
			Backgrounds: []string{"rgb(255, 255, 255)", "rgb(240, 240, 240)", "rgb(0, 102, 255)", "rgb(10, 10, 10)", "rgb(200, 200, 200)", "rgb(1, 2, 3)"},
			TextColors:  []string{"rgb(17, 17, 17)", "rgb(102, 102, 102)"},
		},
		Layout: models.LayoutInfo{HasHeader: true, HasMain: true, HasFooter: false, HeaderHeight: 72},
		Headings: []models.HeadingStyle{
			{Tag: "H1", Text: "Welcome", FontSize: "48px", FontWeight: "700", Color: "rgb(17, 17, 17)", TextAlign: "center"},
		},
		VisualEffects: models.VisualEffects{
			HasGradients: true,
			GradientElements: []models.EffectElement{
				{TagName: "DIV", ClassName: "hero", BackgroundImage: "linear-gradient(90deg, rgb(0, 102, 255), rgb(0, 204, 255))"},
			},
			HasShadows: true,
			ShadowElements: []models.EffectElement{
				{TagName: "DIV", ClassName: "", BoxShadow: "rgba(0, 0, 0, 0.1) 0px 4px 12px 0px"},
			},
		},
		Components: models.Components{HasNavigation: true, ButtonCount: 4, CardCount: 3, GridCount: 2, HasHero: true},
		ButtonStyles: []models.ButtonStyle{
			{BackgroundColor: "rgb(0, 102, 255)", Color: "rgb(255, 255, 255)", BorderRadius: "8px", Padding: "12px 24px", FontWeight: "600", Border: "none", TextContent: "Get Started"},
		},
	}
}

func TestFormatDesignRecord_SectionOrder(t *testing.T) {
	out := FormatDesignRecord(sampleRecord())

	sections := []string{
		"BACKGROUND & COLORS:",
		"TYPOGRAPHY:",
		"LAYOUT STRUCTURE:",
		"VISUAL EFFECTS:",
		"UI COMPONENTS:",
		"BUTTON STYLES:",
		"CONTENT HEADINGS:",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("missing section %q", section)
		}
		if idx < last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

func TestFormatDesignRecord_Content(t *testing.T) {
	out := FormatDesignRecord(sampleRecord())

	if !strings.Contains(out, "Body Background: rgb(255, 255, 255)") {
		t.Error("body background missing")
	}
	if !strings.Contains(out, "Font Family: Inter, sans-serif") {
		t.Error("font family missing")
	}
	if !strings.Contains(out, "Header Height: 72px") {
		t.Error("header height missing")
	}
	if !strings.Contains(out, "DIV.hero: linear-gradient") {
		t.Error("gradient detail missing")
	}
	if !strings.Contains(out, "DIV.no-class:") {
		t.Error("empty class name should render as no-class")
	}
	if !strings.Contains(out, `Button 1 ("Get Started")`) {
		t.Error("button entry missing")
	}
	if !strings.Contains(out, `H1: "Welcome"`) {
		t.Error("heading entry missing")
	}
}

func TestFormatDesignRecord_PaletteCappedAtFive(t *testing.T) {
	out := FormatDesignRecord(sampleRecord())

	// Six backgrounds were sampled; only the first five appear in the line.
	if strings.Contains(out, "rgb(1, 2, 3)") {
		t.Error("background palette line should list at most 5 colors")
	}
	if !strings.Contains(out, "rgb(200, 200, 200)") {
		t.Error("fifth background color should still be listed")
	}
}

func TestDesignSampleJS_BoundsArePresent(t *testing.T) {
	// The sampling script's cost bounds keep evaluation time and result size
	// independent of page size. Guard them against silent edits.
	bounds := []string{
		"Math.min(elements.length, 100)",              // element inspection bound
		"pushUnique(backgrounds, style.backgroundColor, 10)", // palette cap
		"pushUnique(textColors, style.color, 10)",
		"gradientElements.length < 5",
		"shadowElements.length < 5",
		"slice(0, 5)", // headings cap
		"slice(0, 3)", // button styles cap
	}
	for _, bound := range bounds {
		if !strings.Contains(designSampleJS, bound) {
			t.Errorf("sampling script lost its bound %q", bound)
		}
	}
}

func TestFormatDesignRecord_EmptyRecord(t *testing.T) {
	out := FormatDesignRecord(&models.DesignRecord{})

	if !strings.Contains(out, "Body Background: N/A") {
		t.Error("missing values should render as N/A")
	}
	if !strings.Contains(out, "- No buttons found") {
		t.Error("empty button list placeholder missing")
	}
	if !strings.Contains(out, "- No major headings found") {
		t.Error("empty headings placeholder missing")
	}
	if !strings.Contains(out, "Gradient Details: None found") {
		t.Error("empty effects placeholder missing")
	}
}
