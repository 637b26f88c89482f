package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/seclens/seclens/internal/interfaces"
)

// Index answers "what is the most similar known technique to this text, and
// how similar?". It is built once at process start and is immutable
// afterwards, so concurrent reads need no locking.
type Index struct {
	techniques []Technique // sorted by id
	embedder   interfaces.Embedder
}

// Match is one scored technique, as returned by Nearest and Search.
type Match struct {
	Technique  *Technique `json:"technique"`
	Similarity float64    `json:"similarity"`
}

// BuildIndex embeds every technique's description and example texts and
// stores the mean vector alongside the technique. Any failure here is fatal
// for the engine: no meaningful validation is possible without the index.
func BuildIndex(ctx context.Context, techniques []Technique, embedder interfaces.Embedder) (*Index, error) {
	if len(techniques) == 0 {
		return nil, ErrEmptyCatalog
	}
	if embedder == nil {
		return nil, fmt.Errorf("knowledge: embedder is nil")
	}

	ts := make([]Technique, len(techniques))
	copy(ts, techniques)
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })

	for i := range ts {
		texts := append([]string{ts[i].Description}, ts[i].ExampleTexts...)
		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("knowledge: embedding technique %q: %w", ts[i].ID, err)
		}
		mean, err := meanVector(vecs)
		if err != nil {
			return nil, fmt.Errorf("knowledge: technique %q: %w", ts[i].ID, err)
		}
		ts[i].Embedding = mean
	}

	return &Index{techniques: ts, embedder: embedder}, nil
}

// Len returns the number of indexed techniques.
func (ix *Index) Len() int { return len(ix.techniques) }

// Techniques returns the indexed techniques in id order. Callers must treat
// the slice as read-only.
func (ix *Index) Techniques() []Technique { return ix.techniques }

// Nearest embeds text and returns the single best-matching technique with its
// cosine similarity. Empty or whitespace-only text yields (nil, 0, nil):
// that is a handled degradation, not an error. Similarity ties are broken by
// higher catalog severity, then lexicographic id order.
func (ix *Index) Nearest(ctx context.Context, text string) (*Technique, float64, error) {
	matches, err := ix.Search(ctx, text, 1)
	if err != nil {
		return nil, 0, err
	}
	if len(matches) == 0 {
		return nil, 0, nil
	}
	return matches[0].Technique, matches[0].Similarity, nil
}

// Search returns up to limit techniques ranked by similarity to text, using
// the same tie-breaking as Nearest. limit <= 0 means all techniques.
func (ix *Index) Search(ctx context.Context, text string, limit int) ([]Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	query, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("knowledge: embedding query: %w", err)
	}

	matches := make([]Match, 0, len(ix.techniques))
	for i := range ix.techniques {
		t := &ix.techniques[i]
		matches = append(matches, Match{
			Technique:  t,
			Similarity: CosineSimilarity(query, t.Embedding),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		ri, rj := matches[i].Technique.Severity.Rank(), matches[j].Technique.Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return matches[i].Technique.ID < matches[j].Technique.ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CosineSimilarity computes the cosine similarity of two vectors, clamped to
// [0,1]. Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func meanVector(vecs [][]float32) ([]float32, error) {
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no vectors to average")
	}
	dim := len(vecs[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension embedding")
	}
	sum := make([]float64, dim)
	for _, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimensions (%d vs %d)", len(v), dim)
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	mean := make([]float32, dim)
	for i, s := range sum {
		mean[i] = float32(s / float64(len(vecs)))
	}
	return mean, nil
}
