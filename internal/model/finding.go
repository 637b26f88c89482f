package model

// ConfidenceAdjustment records the direction in which validation moved a
// finding's generator-reported confidence.
type ConfidenceAdjustment string

const (
	AdjustmentBoosted   ConfidenceAdjustment = "boosted"
	AdjustmentReduced   ConfidenceAdjustment = "reduced"
	AdjustmentUnchanged ConfidenceAdjustment = "unchanged"
)

// RawFinding is an unvalidated candidate vulnerability produced by the
// upstream generator. Every field except Title may be missing or wrong —
// the generator's output is duck-typed, so normalization happens at the
// parse boundary and validation happens in the engine, never here.
type RawFinding struct {
	// Title is a short name for the candidate vulnerability.
	Title string `json:"title"`

	// Description is the generator's explanation of the issue.
	Description string `json:"description"`

	// CategoryHint is the generator's guess at a category. Optional and
	// frequently wrong; the engine re-derives the category when it is absent
	// or unparseable.
	CategoryHint string `json:"category,omitempty"`

	// SeverityHint is the generator's severity label (free-form text).
	SeverityHint string `json:"severity,omitempty"`

	// CodeSnippets are the artifact fragments the generator flagged, in the
	// order it reported them.
	CodeSnippets []string `json:"code_snippets,omitempty"`

	// Recommendation is the generator's suggested remediation, if any.
	Recommendation string `json:"recommendation,omitempty"`

	// Confidence is the generator-reported confidence. Nil when the
	// generator did not report one; out-of-range values are treated as
	// absent by the scorer.
	Confidence *float64 `json:"confidence,omitempty"`
}

// ValidationInfo describes how a finding fared against the knowledge base.
// Attached to exactly one Finding.
type ValidationInfo struct {
	// ValidationScore is the cosine similarity to the best-matching
	// technique, in [0,1].
	ValidationScore float64 `json:"validation_score"`

	// SimilarVulnerability is the name of the best-matching technique, or
	// empty when no match was found.
	SimilarVulnerability string `json:"similar_vulnerability"`

	// Validated is true iff the similarity cleared the validation threshold
	// and a matching technique exists.
	Validated bool `json:"validated"`

	// ConfidenceAdjustment is the direction validation moved the confidence.
	ConfidenceAdjustment ConfidenceAdjustment `json:"confidence_adjustment"`
}

// Finding is a RawFinding after validation and confidence adjustment, as
// returned to the caller. Confidence always reflects the adjusted value,
// never the raw generator-reported one.
type Finding struct {
	// ID is stable within a single request ("finding-1", "finding-2", ...).
	ID string `json:"id"`

	Category Category `json:"category"`
	Severity Severity `json:"severity"`

	Title       string `json:"title"`
	Description string `json:"description"`

	CodeSnippets   []string `json:"code_snippets"`
	Recommendation string   `json:"recommendation"`

	// Confidence is the adjusted confidence in [0,1].
	Confidence float64 `json:"confidence"`

	ValidationInfo *ValidationInfo `json:"validation_info,omitempty"`
}
