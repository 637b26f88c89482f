package assessor

import (
	"testing"

	"github.com/seclens/seclens/internal/model"
)

func TestIndicatorMatch(t *testing.T) {
	cases := []struct {
		name     string
		category model.Category
		snippets []string
		want     float64
	}{
		{
			"all prompt indicators present",
			model.CategoryPromptSecurity,
			[]string{`system_prompt = f"You are" + user_input`, `prompt += msg.format(x)`},
			1.0,
		},
		{
			"partial api indicators",
			model.CategoryAPISecurity,
			[]string{`API_KEY = "sk-live-123"`},
			2.0 / 5.0,
		},
		{
			"no snippets scores zero",
			model.CategoryPromptSecurity,
			nil,
			0,
		},
		{
			"whitespace snippets score zero",
			model.CategoryErrorHandling,
			[]string{"   ", "\n"},
			0,
		},
		{
			"irrelevant snippets score zero",
			model.CategoryConfiguration,
			[]string{"fmt.Println(42)"},
			0,
		},
		{
			"unknown category is neutral",
			model.Category("OTHER"),
			[]string{"anything"},
			0.5,
		},
	}
	for _, tc := range cases {
		got := IndicatorMatch(tc.category, tc.snippets)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIndicatorMatch_CaseInsensitive(t *testing.T) {
	got := IndicatorMatch(model.CategoryAPISecurity, []string{`Api_Key = SECRET`})
	if got <= 0 {
		t.Errorf("expected case-insensitive match, got %v", got)
	}
}

func TestContextMatch(t *testing.T) {
	cases := []struct {
		name        string
		environment string
		sensitivity string
		want        float64
	}{
		{"both satisfied", "production", "high", 1.0},
		{"staging with pii", "staging", "pii", 1.0},
		{"environment contradicted", "sandbox", "high", 0},
		{"sensitivity contradicted", "production", "synthetic", 0},
		{"absent context is neutral", "", "", 0.5},
		{"unrecognized value is neutral", "blue-green", "", 0.5},
		{"one known one unknown", "production", "some-new-tier", 1.0},
		{"case and whitespace normalized", "  PRODUCTION ", "Confidential", 1.0},
	}
	for _, tc := range cases {
		got := ContextMatch(tc.environment, tc.sensitivity)
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
