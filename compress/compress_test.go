package compress

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReduce_IdentityWithinBudget(t *testing.T) {
	reports := []string{
		"",
		"short report",
		"body{background-color:#ffffff;} .card{background:#f0f0f0;}",
		strings.Repeat("x", 500),
	}

	for _, r := range reports {
		got := Reduce(r, 500)
		if got != r {
			t.Errorf("report within budget must be returned unchanged, got %q", got)
		}
	}
}

func TestReduce_BudgetBound(t *testing.T) {
	reports := []string{
		strings.Repeat("body{background:#123456;} ", 200),
		strings.Repeat("no css here, just prose. ", 300),
		strings.Repeat("rgba(1,2,3,0.5) font-size:12px; header{color:red} ", 100),
	}

	for _, budget := range []int{50, 200, 1000} {
		for _, r := range reports {
			got := Reduce(r, budget)
			if n := utf8.RuneCountInString(got); n > budget {
				t.Errorf("Reduce output has %d chars, budget is %d", n, budget)
			}
		}
	}
}

func TestReduce_Deterministic(t *testing.T) {
	report := strings.Repeat(
		"body{background-color:#abcdef;} h1{color:rgb(1,2,3);} .card{background:#f0f0f0; font-size:14px;} ",
		50,
	)

	first := Reduce(report, 800)
	for i := 0; i < 10; i++ {
		if got := Reduce(report, 800); got != first {
			t.Fatalf("Reduce is not deterministic:\nfirst: %q\ngot:   %q", first, got)
		}
	}
}

func TestReduce_ZeroOrNegativeBudget(t *testing.T) {
	if got := Reduce("anything", 0); got != "" {
		t.Errorf("zero budget should yield empty string, got %q", got)
	}
	if got := Reduce("anything", -5); got != "" {
		t.Errorf("negative budget should yield empty string, got %q", got)
	}
}

func TestReduce_BackgroundColorsSurviveCompression(t *testing.T) {
	// Pad the report far past the budget so the cascade actually runs.
	report := "body{background-color:#ffffff;} .card{background:#f0f0f0;}" +
		strings.Repeat(" filler prose that carries no styling signal.", 40)

	got := Reduce(report, 200)

	if n := utf8.RuneCountInString(got); n > 200 {
		t.Fatalf("output has %d chars, budget is 200", n)
	}
	if !strings.Contains(got, "#ffffff") {
		t.Errorf("compressed output lost body background #ffffff: %q", got)
	}
	if !strings.Contains(got, "#f0f0f0") {
		t.Errorf("compressed output lost card background #f0f0f0: %q", got)
	}
}

func TestColorTokens_Dedup(t *testing.T) {
	css := strings.Repeat("a{color:#ff0000;} ", 5)

	colors := colorTokens(css)

	count := 0
	for _, c := range colors {
		if c == "#ff0000" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("repeated color should appear exactly once, got %d occurrences in %v", count, colors)
	}
}

func TestColorTokens_OrderAndCap(t *testing.T) {
	var b strings.Builder
	hexDigits := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f"}
	for _, d := range hexDigits {
		b.WriteString("#" + strings.Repeat(d, 6) + " ")
	}
	b.WriteString("#000000 ") // 16th occurrence, past the considered window

	colors := colorTokens(b.String())

	if len(colors) != maxColors {
		t.Fatalf("expected %d colors, got %d: %v", maxColors, len(colors), colors)
	}
	if colors[0] != "#111111" || colors[11] != "#cccccc" {
		t.Errorf("encounter order not preserved: %v", colors)
	}
	for _, c := range colors {
		if c == "#000000" {
			t.Errorf("color past the considered window leaked into output: %v", colors)
		}
	}
}

func TestFontDeclarations_DedupAndCap(t *testing.T) {
	css := "font-size:10px; font-size:10px; font-family:Arial; font-weight:700; " +
		"font-size:11px; font-size:12px; font-size:13px; font-size:14px; font-size:15px;"

	fonts := fontDeclarations(css)

	if len(fonts) > maxFonts {
		t.Fatalf("expected at most %d font declarations, got %d: %v", maxFonts, len(fonts), fonts)
	}
	if fonts[0] != "font-size:10px;" {
		t.Errorf("first declaration should be kept first, got %v", fonts)
	}
	for i, f := range fonts {
		for j := i + 1; j < len(fonts); j++ {
			if f == fonts[j] {
				t.Errorf("duplicate declaration survived dedup: %v", fonts)
			}
		}
	}
}

func TestBackgroundSignals_CombinedCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("background-color:#123456; ")
	}

	signals := backgroundSignals(b.String())
	if len(signals) > maxBackgrounds {
		t.Errorf("expected at most %d background signals, got %d", maxBackgrounds, len(signals))
	}
}

func TestBodyHTMLBlocks(t *testing.T) {
	css := "body { background: red; } html{color:blue} html { margin: 0; } body {padding:0} body{x:1}"

	blocks := bodyHTMLBlocks(css)

	if len(blocks) > maxBodyHTMLBlocks {
		t.Fatalf("expected at most %d blocks, got %d: %v", maxBodyHTMLBlocks, len(blocks), blocks)
	}
	if blocks[0] != "body { background: red; }" {
		t.Errorf("first block mismatch: %q", blocks[0])
	}
}

func TestStructuralRules_PerPatternCapAndOrder(t *testing.T) {
	css := ".container{width:100%} button{color:red} button{color:blue} button{color:green} " +
		"header{height:60px} nav{display:flex}"

	rules := structuralRules(css)

	// header before nav before button before .container, 2 per pattern.
	if len(rules) == 0 {
		t.Fatal("expected structural rules, got none")
	}
	if !strings.HasPrefix(rules[0], "header") {
		t.Errorf("header rules should come first, got %v", rules)
	}
	buttons := 0
	for _, r := range rules {
		if strings.HasPrefix(r, "button") {
			buttons++
		}
	}
	if buttons > perPatternStructural {
		t.Errorf("expected at most %d button rules, got %d: %v", perPatternStructural, buttons, rules)
	}
}

func TestReduce_TemplateSections(t *testing.T) {
	report := strings.Repeat("body{background:#111111; font-size:12px;} ", 100)

	got := Reduce(report, 2000)

	for _, section := range []string{
		"CRITICAL BACKGROUND INFO:",
		"BODY/HTML STYLES:",
		"COLORS USED:",
		"FONTS:",
		"OTHER KEY STYLES:",
	} {
		if !strings.Contains(got, section) {
			t.Errorf("output missing section %q", section)
		}
	}
	if !strings.Contains(got, "IMPORTANT: Match the exact background color") {
		t.Errorf("output missing the background fidelity instruction")
	}
}

func TestReduce_TruncationMaySplitMidToken(t *testing.T) {
	report := strings.Repeat("body{background-color:#abcdef;} ", 100)

	got := Reduce(report, 30)
	if utf8.RuneCountInString(got) != 30 {
		t.Errorf("expected hard truncation to exactly 30 chars, got %d", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8")
	}
}
