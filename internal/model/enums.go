package model

import "strings"

// Severity is the severity bucket assigned to a finding or catalog technique.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Rank orders severities for sorting and tie-breaking: CRITICAL=4 .. LOW=1.
// Unknown severities rank 0 so they always sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity normalizes free-form severity text coming from the upstream
// generator ("High", "critical!", ...) into one of the four buckets.
// Anything unrecognized defaults to MEDIUM rather than being dropped.
func ParseSeverity(s string) Severity {
	switch {
	case strings.Contains(strings.ToUpper(s), "CRITICAL"):
		return SeverityCritical
	case strings.Contains(strings.ToUpper(s), "HIGH"):
		return SeverityHigh
	case strings.Contains(strings.ToUpper(s), "LOW"):
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Category is one of the four security categories every finding is bucketed into.
type Category string

const (
	CategoryAPISecurity    Category = "API_SECURITY"
	CategoryPromptSecurity Category = "PROMPT_SECURITY"
	CategoryConfiguration  Category = "CONFIGURATION"
	CategoryErrorHandling  Category = "ERROR_HANDLING"
)

// Categories lists the four categories in their canonical, deterministic order.
// Aggregation and reporting iterate this slice instead of a map so two runs
// over the same findings produce identical output.
func Categories() []Category {
	return []Category{
		CategoryAPISecurity,
		CategoryPromptSecurity,
		CategoryConfiguration,
		CategoryErrorHandling,
	}
}

// categoryAliases maps upstream category spellings to canonical categories.
// The generator is free-form, so we match on substrings of the normalized name.
var categoryAliases = []struct {
	substr string
	cat    Category
}{
	{"PROMPT", CategoryPromptSecurity},
	{"INJECTION", CategoryPromptSecurity},
	{"API", CategoryAPISecurity},
	{"AUTH", CategoryAPISecurity},
	{"RATE", CategoryAPISecurity},
	{"CONFIG", CategoryConfiguration},
	{"SETTING", CategoryConfiguration},
	{"PARAMETER", CategoryConfiguration},
	{"ERROR", CategoryErrorHandling},
	{"EXCEPTION", CategoryErrorHandling},
	{"VALIDATION", CategoryErrorHandling},
}

// ParseCategory maps free-form category text to a canonical Category.
// The boolean reports whether the text matched anything; callers decide the
// fallback (the engine falls back to CONFIGURATION for unmatched hints).
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	switch Category(norm) {
	case CategoryAPISecurity, CategoryPromptSecurity, CategoryConfiguration, CategoryErrorHandling:
		return Category(norm), true
	}
	for _, a := range categoryAliases {
		if strings.Contains(norm, a.substr) {
			return a.cat, true
		}
	}
	return "", false
}

// RiskLevel is the overall risk rating derived from the overall score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// ScanMode selects the analysis focus requested by the caller.
// It steers the generator prompt; scoring itself is mode-independent.
type ScanMode string

const (
	ScanComprehensive  ScanMode = "COMPREHENSIVE"
	ScanPromptSecurity ScanMode = "PROMPT_SECURITY"
	ScanAPISecurity    ScanMode = "API_SECURITY"
)
