package assessor

import (
	"reflect"
	"testing"

	"github.com/seclens/seclens/internal/model"
)

func TestSortFindings_PriorityOrder(t *testing.T) {
	findings := []model.Finding{
		{Title: "medium", Severity: model.SeverityMedium, Category: model.CategoryConfiguration, Confidence: 0.9},
		{Title: "critical-low-conf", Severity: model.SeverityCritical, Category: model.CategoryPromptSecurity, Confidence: 0.4},
		{Title: "critical-high-conf", Severity: model.SeverityCritical, Category: model.CategoryPromptSecurity, Confidence: 0.9},
		{Title: "high", Severity: model.SeverityHigh, Category: model.CategoryAPISecurity, Confidence: 0.5},
		{Title: "critical-other-cat", Severity: model.SeverityCritical, Category: model.CategoryAPISecurity, Confidence: 0.4},
	}

	SortFindings(findings)

	var got []string
	for _, f := range findings {
		got = append(got, f.Title)
	}
	want := []string{"critical-high-conf", "critical-other-cat", "critical-low-conf", "high", "medium"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPriorityActions_FormatAndCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPriorityActions = 2

	findings := []model.Finding{
		{Title: "injection", Severity: model.SeverityCritical, Recommendation: "Sanitize all user input. Also add tests."},
		{Title: "no rate limit", Severity: model.SeverityHigh, Recommendation: ""},
		{Title: "verbose errors", Severity: model.SeverityMedium, Recommendation: "Redact provider errors."},
	}

	actions := PriorityActions(cfg, findings)
	want := []string{
		"[CRITICAL] Sanitize all user input.",
		"[HIGH] Address: no rate limit",
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("actions = %v, want %v", actions, want)
	}
}

func TestPriorityActions_EmptyFindings(t *testing.T) {
	actions := PriorityActions(DefaultConfig(), nil)
	if actions == nil || len(actions) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", actions)
	}
}
