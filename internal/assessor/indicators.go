package assessor

import (
	"strings"

	"github.com/seclens/seclens/internal/model"
)

// categoryIndicators are lowercase substrings that corroborate a finding of
// the given category when they appear in its code snippets. The lists mirror
// the patterns the generator is prompted to look for, so a finding whose
// evidence actually contains them is more likely genuine.
var categoryIndicators = map[model.Category][]string{
	model.CategoryPromptSecurity: {
		"user_input",
		"f\"",
		".format(",
		"prompt +",
		"prompt +=",
		"system_prompt",
	},
	model.CategoryAPISecurity: {
		"api_key",
		"sk-",
		"secret",
		"bearer",
		"password",
	},
	model.CategoryConfiguration: {
		"temperature",
		"max_tokens",
		"top_p",
		"model",
		"timeout",
	},
	model.CategoryErrorHandling: {
		"except",
		"try",
		"catch",
		"raise",
		"traceback",
	},
}

// IndicatorMatch returns the fraction of the category's indicators present in
// the finding's code snippets, capped at 1.0. A category with no indicator
// list scores a neutral 0.5 so it neither boosts nor penalizes.
func IndicatorMatch(category model.Category, snippets []string) float64 {
	indicators := categoryIndicators[category]
	if len(indicators) == 0 {
		return 0.5
	}

	joined := strings.ToLower(strings.Join(snippets, "\n"))
	if strings.TrimSpace(joined) == "" {
		return 0
	}

	found := 0
	for _, ind := range indicators {
		if strings.Contains(joined, ind) {
			found++
		}
	}
	frac := float64(found) / float64(len(indicators))
	if frac > 1 {
		frac = 1
	}
	return frac
}

// contextRule checks one deployment-context field against known value sets.
// A rule is satisfied when the field holds a value that makes the finding
// more plausible, contradicted when it holds a value that makes it
// implausible, and unknown otherwise.
type contextRule struct {
	id           string
	field        func(env, sensitivity string) string
	satisfied    []string
	contradicted []string
}

var contextRules = []contextRule{
	{
		id:           "environment-exposure",
		field:        func(env, _ string) string { return env },
		satisfied:    []string{"production", "prod", "staging"},
		contradicted: []string{"test", "sandbox", "local", "development"},
	},
	{
		id:           "data-sensitivity",
		field:        func(_, sensitivity string) string { return sensitivity },
		satisfied:    []string{"high", "confidential", "pii", "sensitive"},
		contradicted: []string{"none", "public", "synthetic"},
	},
}

// ContextMatch evaluates the declarative context rules against the request's
// deployment context. It returns 1.0 when every rule with a known value is
// satisfied (and at least one is known), 0.0 when any rule is contradicted,
// and 0.5 when the context is absent or unrecognized. No inference happens
// here, only lookups.
func ContextMatch(environment, dataSensitivity string) float64 {
	env := strings.ToLower(strings.TrimSpace(environment))
	sens := strings.ToLower(strings.TrimSpace(dataSensitivity))

	satisfied := 0
	for _, rule := range contextRules {
		v := rule.field(env, sens)
		if v == "" {
			// Absent field, rule does not apply.
			continue
		}
		if contains(rule.contradicted, v) {
			return 0
		}
		if contains(rule.satisfied, v) {
			satisfied++
		}
		// A recognized field with an unlisted value stays neutral.
	}
	if satisfied > 0 {
		return 1
	}
	return 0.5
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
