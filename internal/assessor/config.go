package assessor

import (
	"time"

	"github.com/seclens/seclens/internal/model"
)

// Config carries the engine's calibration. The weights and thresholds are
// documented defaults, not learned parameters; every value can be overridden
// per instance (and via environment, see internal/config).
type Config struct {
	// SimilarityWeight, IndicatorWeight and ContextWeight combine the three
	// validation signals into the raw score. They should sum to 1.0.
	SimilarityWeight float64
	IndicatorWeight  float64
	ContextWeight    float64

	// ValidationThreshold is the minimum semantic similarity for a finding
	// to count as validated against the knowledge base.
	ValidationThreshold float64

	// BoostThreshold and ReduceThreshold band the raw score into the
	// boosted / unchanged / reduced confidence adjustments.
	BoostThreshold  float64
	ReduceThreshold float64

	// BoostFactor and ReduceFactor scale the generator confidence when the
	// raw score lands in the corresponding band.
	BoostFactor  float64
	ReduceFactor float64

	// DefaultConfidence substitutes for a missing or out-of-range
	// generator-reported confidence.
	DefaultConfidence float64

	// SeverityPenalties are subtracted from a category's score per finding,
	// scaled by the finding's adjusted confidence.
	SeverityPenalties map[model.Severity]float64

	// MaxPriorityActions caps the rendered action list.
	MaxPriorityActions int

	// MaxWorkers bounds the per-finding validation fan-out.
	MaxWorkers int

	// GenerationTimeout bounds each upstream generation call. On timeout the
	// engine proceeds with whatever findings it already has.
	GenerationTimeout time.Duration

	// MaxCodeArtifacts and MaxConfigArtifacts cap how many artifacts of each
	// kind are sent to the generator per request.
	MaxCodeArtifacts   int
	MaxConfigArtifacts int
}

// DefaultConfig returns the documented default calibration.
func DefaultConfig() *Config {
	return &Config{
		SimilarityWeight:    0.4,
		IndicatorWeight:     0.3,
		ContextWeight:       0.3,
		ValidationThreshold: 0.75,
		BoostThreshold:      0.80,
		ReduceThreshold:     0.45,
		BoostFactor:         1.15,
		ReduceFactor:        0.6,
		DefaultConfidence:   0.5,
		SeverityPenalties: map[model.Severity]float64{
			model.SeverityCritical: 30,
			model.SeverityHigh:     20,
			model.SeverityMedium:   10,
			model.SeverityLow:      5,
		},
		MaxPriorityActions: 10,
		MaxWorkers:         4,
		GenerationTimeout:  30 * time.Second,
		MaxCodeArtifacts:   5,
		MaxConfigArtifacts: 3,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
