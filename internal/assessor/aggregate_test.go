package assessor

import (
	"testing"

	"github.com/seclens/seclens/internal/model"
)

func TestAggregate_EmptyFindingsScoresHundred(t *testing.T) {
	scores := Aggregate(DefaultConfig(), nil)
	if len(scores) != 4 {
		t.Fatalf("expected all 4 categories, got %d", len(scores))
	}
	for cat, cs := range scores {
		if cs.Score != 100 {
			t.Errorf("%s: score = %v, want 100", cat, cs.Score)
		}
		if cs.Findings == nil || cs.Recommendations == nil {
			t.Errorf("%s: findings/recommendations must be empty, not nil", cat)
		}
	}
	if overall := OverallScore(scores); overall != 100 {
		t.Errorf("overall = %v, want 100", overall)
	}
}

func TestAggregate_SingleCriticalFinding(t *testing.T) {
	// One fully confident CRITICAL prompt finding: that category drops to 70,
	// the other three stay clean, and the mean lands at 92.5 (LOW).
	findings := []model.Finding{{
		Category:       model.CategoryPromptSecurity,
		Severity:       model.SeverityCritical,
		Title:          "Direct prompt injection",
		Recommendation: "Parameterize the prompt template.",
		Confidence:     1.0,
	}}

	scores := Aggregate(DefaultConfig(), findings)
	approx(t, "prompt score", scores[model.CategoryPromptSecurity].Score, 70)
	approx(t, "api score", scores[model.CategoryAPISecurity].Score, 100)

	overall := OverallScore(scores)
	approx(t, "overall", overall, 92.5)
	if RiskLevel(overall) != model.RiskLow {
		t.Errorf("risk = %s, want LOW", RiskLevel(overall))
	}
}

func TestAggregate_PenaltiesScaleWithConfidence(t *testing.T) {
	findings := []model.Finding{
		{Category: model.CategoryAPISecurity, Severity: model.SeverityHigh, Title: "a", Confidence: 0.5},
		{Category: model.CategoryAPISecurity, Severity: model.SeverityMedium, Title: "b", Confidence: 0.8},
		{Category: model.CategoryAPISecurity, Severity: model.SeverityLow, Title: "c", Confidence: 1.0},
	}
	scores := Aggregate(DefaultConfig(), findings)
	// 100 - 20*0.5 - 10*0.8 - 5*1.0
	approx(t, "api score", scores[model.CategoryAPISecurity].Score, 77)
	if got := scores[model.CategoryAPISecurity].Findings; len(got) != 3 {
		t.Errorf("findings list = %v", got)
	}
}

func TestAggregate_FloorsAtZero(t *testing.T) {
	var findings []model.Finding
	for i := 0; i < 5; i++ {
		findings = append(findings, model.Finding{
			Category:   model.CategoryConfiguration,
			Severity:   model.SeverityCritical,
			Title:      "x",
			Confidence: 1.0,
		})
	}
	scores := Aggregate(DefaultConfig(), findings)
	if scores[model.CategoryConfiguration].Score != 0 {
		t.Errorf("score = %v, want floor 0", scores[model.CategoryConfiguration].Score)
	}
}

func TestAggregate_DeduplicatesRecommendations(t *testing.T) {
	findings := []model.Finding{
		{Category: model.CategoryErrorHandling, Severity: model.SeverityLow, Title: "a", Recommendation: "Log failures.", Confidence: 0.5},
		{Category: model.CategoryErrorHandling, Severity: model.SeverityLow, Title: "b", Recommendation: "Log failures.", Confidence: 0.5},
		{Category: model.CategoryErrorHandling, Severity: model.SeverityLow, Title: "c", Recommendation: "", Confidence: 0.5},
	}
	scores := Aggregate(DefaultConfig(), findings)
	recs := scores[model.CategoryErrorHandling].Recommendations
	if len(recs) != 1 || recs[0] != "Log failures." {
		t.Errorf("recommendations = %v", recs)
	}
}

func TestAggregate_MoreFindingsNeverRaiseScore(t *testing.T) {
	base := []model.Finding{
		{Category: model.CategoryAPISecurity, Severity: model.SeverityMedium, Title: "a", Confidence: 0.6},
	}
	extra := append(append([]model.Finding{}, base...), model.Finding{
		Category: model.CategoryAPISecurity, Severity: model.SeverityLow, Title: "b", Confidence: 0.3,
	})

	cfg := DefaultConfig()
	if Aggregate(cfg, extra)[model.CategoryAPISecurity].Score > Aggregate(cfg, base)[model.CategoryAPISecurity].Score {
		t.Error("adding a finding raised the category score")
	}
}

func TestRiskLevel_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  model.RiskLevel
	}{
		{100, model.RiskLow},
		{90, model.RiskLow},
		{89.99, model.RiskMedium},
		{70, model.RiskMedium},
		{69.5, model.RiskHigh},
		{50, model.RiskHigh},
		{49.99, model.RiskCritical},
		{0, model.RiskCritical},
	}
	for _, tc := range cases {
		if got := RiskLevel(tc.score); got != tc.want {
			t.Errorf("RiskLevel(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
