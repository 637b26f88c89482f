package assessor

import "github.com/seclens/seclens/internal/model"

// Signals are the three validation inputs for one finding, plus the semantic
// match outcome they were derived from.
type Signals struct {
	Similarity     float64
	IndicatorMatch float64
	ContextMatch   float64

	// TechniqueName is the matched technique's name, empty when no match.
	TechniqueName string
	Matched       bool
}

// Scorer folds the validation signals into an adjusted confidence. It is
// pure arithmetic over the Config calibration: same inputs, same outputs.
type Scorer struct {
	cfg *Config
}

func NewScorer(cfg *Config) *Scorer { return &Scorer{cfg: cfg} }

// Score computes the raw validation score, bands it into a confidence
// adjustment, and applies the adjustment to the generator-reported
// confidence. A missing or out-of-range generator confidence falls back to
// the configured default. The returned confidence is clamped to [0,1].
func (s *Scorer) Score(sig Signals, generatorConfidence *float64) (float64, model.ValidationInfo) {
	raw := s.cfg.SimilarityWeight*sig.Similarity +
		s.cfg.IndicatorWeight*sig.IndicatorMatch +
		s.cfg.ContextWeight*sig.ContextMatch

	base := s.cfg.DefaultConfidence
	if generatorConfidence != nil && *generatorConfidence >= 0 && *generatorConfidence <= 1 {
		base = *generatorConfidence
	}

	adjustment := model.AdjustmentUnchanged
	confidence := base
	switch {
	case raw >= s.cfg.BoostThreshold:
		adjustment = model.AdjustmentBoosted
		confidence = base * s.cfg.BoostFactor
	case raw < s.cfg.ReduceThreshold:
		adjustment = model.AdjustmentReduced
		confidence = base * s.cfg.ReduceFactor
	}
	confidence = clamp01(confidence)

	info := model.ValidationInfo{
		ValidationScore:      sig.Similarity,
		SimilarVulnerability: sig.TechniqueName,
		Validated:            sig.Matched && sig.Similarity >= s.cfg.ValidationThreshold,
		ConfidenceAdjustment: adjustment,
	}
	return confidence, info
}
