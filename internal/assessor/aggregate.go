package assessor

import "github.com/seclens/seclens/internal/model"

// Aggregate computes per-category scores from validated findings. Every
// category starts at 100 and loses penalty points per finding, scaled by the
// finding's adjusted confidence, floored at 0. Categories with no findings
// stay at 100. Categories are always iterated in their fixed declaration
// order so the output is deterministic.
func Aggregate(cfg *Config, findings []model.Finding) map[model.Category]model.CategoryScore {
	byCategory := make(map[model.Category][]model.Finding)
	for _, f := range findings {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	scores := make(map[model.Category]model.CategoryScore, len(model.Categories()))
	for _, cat := range model.Categories() {
		score := 100.0
		titles := []string{}
		recs := []string{}
		seen := map[string]bool{}
		for _, f := range byCategory[cat] {
			score -= cfg.SeverityPenalties[f.Severity] * f.Confidence
			titles = append(titles, f.Title)
			rec := f.Recommendation
			if rec != "" && !seen[rec] {
				seen[rec] = true
				recs = append(recs, rec)
			}
		}
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		scores[cat] = model.CategoryScore{
			Score:           score,
			Findings:        titles,
			Recommendations: recs,
		}
	}
	return scores
}

// OverallScore is the unweighted mean of the category scores across all
// categories, present or not.
func OverallScore(scores map[model.Category]model.CategoryScore) float64 {
	cats := model.Categories()
	if len(cats) == 0 {
		return 0
	}
	var sum float64
	for _, cat := range cats {
		sum += scores[cat].Score
	}
	return sum / float64(len(cats))
}

// RiskLevel maps an overall score onto the fixed risk bands.
func RiskLevel(overall float64) model.RiskLevel {
	switch {
	case overall >= 90:
		return model.RiskLow
	case overall >= 70:
		return model.RiskMedium
	case overall >= 50:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}
