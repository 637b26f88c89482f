// Package llm provides the generative backends for the assessment engine:
// a Gemini-backed generator and embedder, and a deterministic mock generator
// used when no API key is configured.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/model"
)

const (
	defaultModel          = "gemini-1.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

// GeminiClient implements interfaces.Generator and interfaces.Embedder on top
// of the Gemini API. One client serves both roles so the process holds a
// single connection.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	embedder  *genai.EmbeddingModel
	modelName string
	logger    interfaces.Logger
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger interfaces.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("llm: creating client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client:    client,
		model:     m,
		embedder:  client.EmbeddingModel(embeddingModel),
		modelName: modelName,
		logger:    logger.With(interfaces.Field{Key: "component", Value: "gemini"}),
	}, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error { return c.client.Close() }

func (c *GeminiClient) ModelName() string { return c.modelName }

// GenerateFindings prompts the model to analyze one artifact and parses its
// JSON response into raw findings. The response is untrusted; parsing
// normalizes what it can and drops what it cannot.
func (c *GeminiClient) GenerateFindings(ctx context.Context, artifact, label string, kind interfaces.ArtifactKind, mode model.ScanMode) ([]model.RawFinding, model.TokenUsage, error) {
	prompt := buildPrompt(artifact, label, kind, mode)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, model.TokenUsage{}, fmt.Errorf("llm: generating findings for %s: %w", label, err)
	}

	var usage model.TokenUsage
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	text := responseText(resp)
	if text == "" {
		return nil, usage, fmt.Errorf("llm: empty response for %s", label)
	}

	findings, err := ParseFindings(text)
	if err != nil {
		return nil, usage, fmt.Errorf("llm: parsing response for %s: %w", label, err)
	}
	c.logger.Debug("generated findings",
		interfaces.Field{Key: "artifact", Value: label},
		interfaces.Field{Key: "count", Value: len(findings)},
	)
	return findings, usage, nil
}

// Embed returns the embedding vector for one text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("llm: embedding: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("llm: embedding response has no vector")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch embeds all texts in one API call, preserving input order.
func (c *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := c.embedder.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	res, err := c.embedder.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("llm: batch embedding: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("llm: got %d embeddings for %d texts", len(res.Embeddings), len(texts))
	}
	out := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}

func buildPrompt(artifact, label string, kind interfaces.ArtifactKind, mode model.ScanMode) string {
	focus := "all four categories"
	switch mode {
	case model.ScanPromptSecurity:
		focus = "PROMPT_SECURITY issues only"
	case model.ScanAPISecurity:
		focus = "API_SECURITY issues only"
	}

	what := "source code"
	if kind == interfaces.ArtifactConfig {
		what = "configuration"
	}

	return fmt.Sprintf(`You are a security analyst reviewing an AI-integrated application.
Analyze the %s artifact %q below for security vulnerabilities, focusing on %s.
Categories: API_SECURITY, PROMPT_SECURITY, CONFIGURATION, ERROR_HANDLING.

Respond with a JSON object of the form:
{"findings": [{"title": "...", "description": "...", "category": "...",
"severity": "CRITICAL|HIGH|MEDIUM|LOW", "code_snippet": "...",
"recommendation": "...", "confidence": 0.0}]}

Report only issues actually evidenced by the artifact. Return {"findings": []}
when there are none.

Artifact:
%s`, what, label, focus, artifact)
}
