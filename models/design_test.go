package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSamplingError_Placeholder(t *testing.T) {
	tests := []struct {
		name string
		err  SamplingError
		want string
	}{
		{
			"timeout uses fixed wording",
			SamplingError{Kind: SamplingKindTimeout, Message: "context deadline exceeded"},
			"Could not extract design context: Operation timed out",
		},
		{
			"evaluation carries the message",
			SamplingError{Kind: SamplingKindEvaluation, Message: "Cannot read properties of null"},
			"Could not extract design context: Cannot read properties of null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Placeholder(); got != tt.want {
				t.Errorf("Placeholder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSamplingError_Error(t *testing.T) {
	err := &SamplingError{Kind: SamplingKindEvaluation, Message: "boom"}
	if !strings.Contains(err.Error(), "evaluation") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestDesignRecord_UnmarshalsSamplerOutput(t *testing.T) {
	payload := `{
		"bodyBackground": {"backgroundColor": "rgb(255, 255, 255)", "backgroundImage": "none"},
		"htmlBackground": {"backgroundColor": "rgba(0, 0, 0, 0)"},
		"typography": {"fontFamily": "Arial", "fontSize": "16px", "fontWeight": "400", "lineHeight": "normal", "color": "rgb(0, 0, 0)"},
		"colorPalette": {"backgrounds": ["rgb(255, 255, 255)"], "textColors": ["rgb(0, 0, 0)"]},
		"layout": {"hasHeader": true, "hasMain": false, "hasFooter": true, "headerHeight": 64, "mainHeight": 0},
		"headings": [{"tag": "H1", "text": "Hi", "fontSize": "32px", "fontWeight": "700", "color": "rgb(0, 0, 0)", "textAlign": "left"}],
		"visualEffects": {"hasGradients": false, "gradientElements": [], "hasShadows": false, "shadowElements": []},
		"components": {"hasNavigation": true, "buttonCount": 2, "cardCount": 0, "gridCount": 1, "hasHero": false, "hasModal": false, "hasCarousel": false},
		"buttonStyles": [{"backgroundColor": "rgb(0, 0, 255)", "color": "rgb(255, 255, 255)", "borderRadius": "4px", "padding": "8px", "fontSize": "14px", "fontWeight": "500", "border": "none", "textContent": "OK"}]
	}`

	var rec DesignRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.BodyBackground.BackgroundColor != "rgb(255, 255, 255)" {
		t.Errorf("bodyBackground = %q", rec.BodyBackground.BackgroundColor)
	}
	if !rec.Layout.HasHeader || rec.Layout.HeaderHeight != 64 {
		t.Errorf("layout = %+v", rec.Layout)
	}
	if len(rec.Headings) != 1 || rec.Headings[0].Tag != "H1" {
		t.Errorf("headings = %+v", rec.Headings)
	}
	if rec.Error != "" {
		t.Errorf("unexpected in-page error %q", rec.Error)
	}
}

func TestDesignRecord_InPageError(t *testing.T) {
	var rec DesignRecord
	if err := json.Unmarshal([]byte(`{"error": "something broke"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Error != "something broke" {
		t.Errorf("Error = %q", rec.Error)
	}
}
