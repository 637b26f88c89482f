package assessor

import (
	"testing"

	"github.com/seclens/seclens/internal/model"
	"github.com/seclens/seclens/internal/testutil"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func TestScore_BoostsStrongSignals(t *testing.T) {
	s := NewScorer(DefaultConfig())
	sig := Signals{Similarity: 1, IndicatorMatch: 1, ContextMatch: 1, TechniqueName: "Prompt injection", Matched: true}

	conf, info := s.Score(sig, testutil.FloatPtr(0.8))

	approx(t, "confidence", conf, 0.8*1.15)
	if info.ConfidenceAdjustment != model.AdjustmentBoosted {
		t.Errorf("adjustment = %s, want boosted", info.ConfidenceAdjustment)
	}
	if !info.Validated {
		t.Error("expected validated at similarity 1.0")
	}
	if info.SimilarVulnerability != "Prompt injection" {
		t.Errorf("similar_vulnerability = %q", info.SimilarVulnerability)
	}
	approx(t, "validation_score", info.ValidationScore, 1)
}

func TestScore_ReducesWeakSignals(t *testing.T) {
	s := NewScorer(DefaultConfig())
	// raw = 0.4*0.2 + 0.3*0.2 + 0.3*0.2 = 0.2, well below the reduce threshold.
	sig := Signals{Similarity: 0.2, IndicatorMatch: 0.2, ContextMatch: 0.2}

	conf, info := s.Score(sig, testutil.FloatPtr(0.9))

	approx(t, "confidence", conf, 0.9*0.6)
	if info.ConfidenceAdjustment != model.AdjustmentReduced {
		t.Errorf("adjustment = %s, want reduced", info.ConfidenceAdjustment)
	}
	if info.Validated {
		t.Error("low similarity must not validate")
	}
}

func TestScore_MiddleBandUnchanged(t *testing.T) {
	s := NewScorer(DefaultConfig())
	// raw = 0.4*0.9 + 0.3*0.5 + 0.3*0.5 = 0.66, between the thresholds.
	sig := Signals{Similarity: 0.9, IndicatorMatch: 0.5, ContextMatch: 0.5, Matched: true}

	conf, info := s.Score(sig, testutil.FloatPtr(0.7))

	approx(t, "confidence", conf, 0.7)
	if info.ConfidenceAdjustment != model.AdjustmentUnchanged {
		t.Errorf("adjustment = %s, want unchanged", info.ConfidenceAdjustment)
	}
	if !info.Validated {
		t.Error("similarity 0.9 with a match must validate")
	}
}

func TestScore_ValidationRequiresMatch(t *testing.T) {
	s := NewScorer(DefaultConfig())
	sig := Signals{Similarity: 0.95, Matched: false}
	if _, info := s.Score(sig, nil); info.Validated {
		t.Error("validation without a matched technique")
	}
}

func TestScore_DefaultConfidence(t *testing.T) {
	s := NewScorer(DefaultConfig())
	sig := Signals{Similarity: 0.9, IndicatorMatch: 0.5, ContextMatch: 0.5, Matched: true}

	for name, gen := range map[string]*float64{
		"nil":       nil,
		"negative":  testutil.FloatPtr(-0.2),
		"above one": testutil.FloatPtr(1.4),
	} {
		conf, _ := s.Score(sig, gen)
		approx(t, "default confidence for "+name, conf, 0.5)
	}
}

func TestScore_ClampsToOne(t *testing.T) {
	s := NewScorer(DefaultConfig())
	sig := Signals{Similarity: 1, IndicatorMatch: 1, ContextMatch: 1, Matched: true}

	conf, _ := s.Score(sig, testutil.FloatPtr(0.95))
	if conf != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", conf)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer(DefaultConfig())
	sig := Signals{Similarity: 0.63, IndicatorMatch: 0.4, ContextMatch: 0.5, TechniqueName: "x", Matched: true}

	c1, i1 := s.Score(sig, testutil.FloatPtr(0.7))
	c2, i2 := s.Score(sig, testutil.FloatPtr(0.7))
	if c1 != c2 || i1 != i2 {
		t.Errorf("same inputs produced different outputs: %v/%v vs %v/%v", c1, i1, c2, i2)
	}
}
