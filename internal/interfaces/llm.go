package interfaces

import (
	"context"

	"github.com/seclens/seclens/internal/model"
)

// Embedder turns text into a fixed-dimension vector. The embedding function
// itself is a black box; the knowledge index and the semantic matcher only
// require that identical input yields identical output within one process.
type Embedder interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ArtifactKind tells the generator what sort of artifact it is looking at so
// it can steer its prompt.
type ArtifactKind string

const (
	ArtifactCode   ArtifactKind = "code"
	ArtifactConfig ArtifactKind = "config"
)

// Generator produces raw candidate findings for one artifact. Implementations
// call an external generative model; the engine treats the output as
// untrusted and unvalidated. The returned TokenUsage covers the single call,
// so the engine can sum usage across artifacts without shared state.
type Generator interface {
	// GenerateFindings analyzes one artifact. label identifies the artifact
	// within the request (e.g. "prompt_handling"); mode focuses the analysis.
	GenerateFindings(ctx context.Context, artifact, label string, kind ArtifactKind, mode model.ScanMode) ([]model.RawFinding, model.TokenUsage, error)

	// ModelName reports the underlying model identifier for the response
	// contract's ai_model_used field.
	ModelName() string
}
