package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seclens/seclens/internal/model"
)

// wireFinding mirrors the duck-typed finding shape the generator emits.
// Models alternate between "code_snippet" and "code_snippets" depending on
// phrasing, so both are accepted.
type wireFinding struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Severity       string   `json:"severity"`
	CodeSnippet    string   `json:"code_snippet"`
	CodeSnippets   []string `json:"code_snippets"`
	Recommendation string   `json:"recommendation"`
	Confidence     *float64 `json:"confidence"`
}

type wireResponse struct {
	Findings []wireFinding `json:"findings"`
}

// ParseFindings parses a model response into raw findings. It tolerates the
// usual failure modes: markdown fences around the JSON, a bare array instead
// of the documented wrapper object, and leading or trailing prose. Entries
// with neither title nor description are dropped, everything else is passed
// through for the engine to validate.
func ParseFindings(raw string) ([]model.RawFinding, error) {
	text := stripFences(raw)

	wires, err := unmarshalFindings(text)
	if err != nil {
		for _, candidate := range salvageJSON(text) {
			if w, serr := unmarshalFindings(candidate); serr == nil {
				wires, err = w, nil
				break
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("no parseable findings payload: %w", err)
	}

	findings := make([]model.RawFinding, 0, len(wires))
	for _, w := range wires {
		if strings.TrimSpace(w.Title) == "" && strings.TrimSpace(w.Description) == "" {
			continue
		}
		snippets := w.CodeSnippets
		if len(snippets) == 0 && strings.TrimSpace(w.CodeSnippet) != "" {
			snippets = []string{w.CodeSnippet}
		}
		findings = append(findings, model.RawFinding{
			Title:          strings.TrimSpace(w.Title),
			Description:    strings.TrimSpace(w.Description),
			CategoryHint:   w.Category,
			SeverityHint:   w.Severity,
			CodeSnippets:   snippets,
			Recommendation: strings.TrimSpace(w.Recommendation),
			Confidence:     w.Confidence,
		})
	}
	return findings, nil
}

func unmarshalFindings(text string) ([]wireFinding, error) {
	var resp wireResponse
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return resp.Findings, nil
	}
	var list []wireFinding
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// stripFences removes a markdown code fence wrapper, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// salvageJSON extracts candidate JSON values from text that has prose around
// it: the outermost object span and the outermost array span.
func salvageJSON(s string) []string {
	var out []string
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start >= 0 && end > start {
			out = append(out, s[start:end+1])
		}
	}
	return out
}
