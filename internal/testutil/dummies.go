// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/llm"
	"github.com/seclens/seclens/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements interfaces.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...interfaces.Field) interfaces.Logger { return l }

// ─── Embedder ──────────────────────────────────────────────────────────

// HashEmbedder wraps llm.MockEmbedder's deterministic bag-of-words vectors
// with test-only failure injection and a smaller default dimension. Texts
// that share words get high cosine similarity, identical texts get 1.0, and
// no I/O happens. Set FailTexts[text] = true to force an error for a
// specific input.
type HashEmbedder struct {
	Dim       int
	FailTexts map[string]bool
	FailAll   bool
}

func (e *HashEmbedder) dim() int {
	if e.Dim > 0 {
		return e.Dim
	}
	return 64
}

func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.FailAll || (e.FailTexts != nil && e.FailTexts[text]) {
		return nil, errors.New("dummy embed fail")
	}
	return (&llm.MockEmbedder{Dim: e.dim()}).Embed(ctx, text)
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

// FixedEmbedder returns preset vectors by exact text match, falling back to
// Default. Use it when a test needs exact control over similarities.
type FixedEmbedder struct {
	Vectors map[string][]float32
	Default []float32
}

func (e *FixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.Vectors[text]; ok {
		return v, nil
	}
	if e.Default != nil {
		return e.Default, nil
	}
	return nil, errors.New("fixed embedder: no vector for text")
}

func (e *FixedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

// ─── Generator ─────────────────────────────────────────────────────────

// StubGenerator implements interfaces.Generator and returns the same fixed
// findings for every artifact. Calls records the labels it was invoked with.
type StubGenerator struct {
	Findings []model.RawFinding
	Model    string
	PerCall  model.TokenUsage
	Err      error

	mu    sync.Mutex
	Calls []string
}

func (g *StubGenerator) GenerateFindings(ctx context.Context, artifact, label string, kind interfaces.ArtifactKind, mode model.ScanMode) ([]model.RawFinding, model.TokenUsage, error) {
	g.mu.Lock()
	g.Calls = append(g.Calls, label)
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, model.TokenUsage{}, err
	}
	if g.Err != nil {
		return nil, model.TokenUsage{}, g.Err
	}
	out := make([]model.RawFinding, len(g.Findings))
	copy(out, g.Findings)
	return out, g.PerCall, nil
}

func (g *StubGenerator) ModelName() string {
	if g.Model == "" {
		return "stub-model"
	}
	return g.Model
}

// FloatPtr returns a pointer to v, for building RawFinding fixtures.
func FloatPtr(v float64) *float64 { return &v }
