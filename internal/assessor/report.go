package assessor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seclens/seclens/internal/model"
)

// SortFindings orders findings for reporting: severity rank descending, then
// adjusted confidence descending, then category, then title. The sort is a
// total order, so equal inputs always produce equal output order.
func SortFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra > rb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Title < b.Title
	})
}

// PriorityActions renders the top remediation actions from findings already
// in report order. Each action reads "[SEVERITY] <recommendation>", falling
// back to the finding title when no recommendation was produced.
func PriorityActions(cfg *Config, findings []model.Finding) []string {
	max := cfg.MaxPriorityActions
	if max <= 0 {
		max = len(findings)
	}

	actions := []string{}
	for _, f := range findings {
		if len(actions) >= max {
			break
		}
		actions = append(actions, fmt.Sprintf("[%s] %s", f.Severity, actionText(f)))
	}
	return actions
}

func actionText(f model.Finding) string {
	rec := strings.TrimSpace(f.Recommendation)
	if rec == "" {
		return "Address: " + strings.TrimSpace(f.Title)
	}
	// Keep the action to the first sentence of the recommendation.
	if i := strings.Index(rec, ". "); i > 0 {
		rec = rec[:i+1]
	}
	return rec
}
