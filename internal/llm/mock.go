package llm

import (
	"context"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/model"
)

// MockGenerator is the no-API-key fallback: a deterministic pattern scanner
// that emits canonical findings for the most common AI-integration mistakes.
// Its phrasing intentionally lines up with the knowledge catalog so the
// validation pipeline behaves the same way it does with a live model.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) ModelName() string { return "mock-analyzer" }

var temperatureRe = regexp.MustCompile(`temperature["']?\s*[=:]\s*([0-9]*\.?[0-9]+)`)

func (g *MockGenerator) GenerateFindings(ctx context.Context, artifact, label string, kind interfaces.ArtifactKind, mode model.ScanMode) ([]model.RawFinding, model.TokenUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.TokenUsage{}, err
	}

	lower := strings.ToLower(artifact)
	var findings []model.RawFinding

	if strings.Contains(lower, "sk-") || strings.Contains(lower, "api_key") || strings.Contains(lower, "apikey") {
		findings = append(findings, model.RawFinding{
			Title:          "Hardcoded API keys in source code",
			Description:    "A provider credential is embedded directly in the artifact instead of being injected from a secret store.",
			CategoryHint:   string(model.CategoryAPISecurity),
			SeverityHint:   string(model.SeverityCritical),
			CodeSnippets:   snippetLines(artifact, "sk-", "api_key", "apikey"),
			Recommendation: "Move credentials to a secret manager and load them at startup. Rotate any key that was committed.",
			Confidence:     confPtr(0.9),
		})
	}

	if strings.Contains(lower, "+ user_input") || strings.Contains(lower, "prompt +") ||
		(strings.Contains(lower, `f"`) && strings.Contains(lower, "prompt")) ||
		(strings.Contains(lower, ".format(") && strings.Contains(lower, "prompt")) {
		findings = append(findings, model.RawFinding{
			Title:          "Prompt injection vulnerability in AI systems",
			Description:    "User input is concatenated directly into the system prompt without sanitization or boundary enforcement.",
			CategoryHint:   string(model.CategoryPromptSecurity),
			SeverityHint:   string(model.SeverityCritical),
			CodeSnippets:   snippetLines(artifact, "user_input", "prompt"),
			Recommendation: "Use structured message roles and keep user content out of system instructions.",
			Confidence:     confPtr(0.85),
		})
	}

	if m := temperatureRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 1.5 {
			findings = append(findings, model.RawFinding{
				Title:          "Insecure AI model configuration settings",
				Description:    "The sampling temperature is set far outside the recommended range for security-sensitive flows.",
				CategoryHint:   string(model.CategoryConfiguration),
				SeverityHint:   string(model.SeverityMedium),
				CodeSnippets:   snippetLines(artifact, "temperature"),
				Recommendation: "Lower the temperature to at most 1.0 for deterministic, reviewable behavior.",
				Confidence:     confPtr(0.7),
			})
		}
	}

	if strings.Contains(lower, "temperature") && !strings.Contains(lower, "max_tokens") {
		findings = append(findings, model.RawFinding{
			Title:          "max_tokens not configured for completions",
			Description:    "Model parameters are configured without a token cap, allowing unbounded generation.",
			CategoryHint:   string(model.CategoryConfiguration),
			SeverityHint:   string(model.SeverityMedium),
			CodeSnippets:   snippetLines(artifact, "temperature"),
			Recommendation: "Set max_tokens to bound response size and cost.",
			Confidence:     confPtr(0.6),
		})
	}

	if strings.Contains(lower, "except:") && strings.Contains(lower, "pass") {
		findings = append(findings, model.RawFinding{
			Title:          "Exceptions from the model call silently ignored",
			Description:    "A bare exception handler swallows failures without logging or fallback.",
			CategoryHint:   string(model.CategoryErrorHandling),
			SeverityHint:   string(model.SeverityLow),
			CodeSnippets:   snippetLines(artifact, "except"),
			Recommendation: "Log model call failures and surface a degraded-but-honest response.",
			Confidence:     confPtr(0.6),
		})
	}

	findings = filterByMode(findings, mode)
	usage := model.TokenUsage{
		PromptTokens:     len(artifact) / 4,
		CompletionTokens: 120 * len(findings),
	}
	return findings, usage, nil
}

// filterByMode drops findings outside a focused scan's category.
func filterByMode(findings []model.RawFinding, mode model.ScanMode) []model.RawFinding {
	var keep model.Category
	switch mode {
	case model.ScanPromptSecurity:
		keep = model.CategoryPromptSecurity
	case model.ScanAPISecurity:
		keep = model.CategoryAPISecurity
	default:
		return findings
	}
	out := findings[:0]
	for _, f := range findings {
		if f.CategoryHint == string(keep) {
			out = append(out, f)
		}
	}
	return out
}

// snippetLines returns up to three artifact lines containing any keyword, in
// artifact order.
func snippetLines(artifact string, keywords ...string) []string {
	var out []string
	for _, line := range strings.Split(artifact, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, strings.TrimSpace(line))
				break
			}
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

func confPtr(v float64) *float64 { return &v }

// MockEmbedder is the keyless embedding fallback: each lowercased token is
// hashed onto one of Dim axes and counted, so texts sharing vocabulary get
// high cosine similarity without any network call. Crude, but deterministic,
// which is what the validation pipeline needs from it.
type MockEmbedder struct {
	Dim int
}

func NewMockEmbedder() *MockEmbedder { return &MockEmbedder{Dim: 256} }

func (e *MockEmbedder) dim() int {
	if e.Dim > 0 {
		return e.Dim
	}
	return 256
}

func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, e.dim())
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim())]++
	}
	return vec, nil
}

func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
