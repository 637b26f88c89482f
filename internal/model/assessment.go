package model

import "time"

// AssessmentRequest is the input contract for an assessment. The HTTP layer
// rejects structurally invalid requests (see Validate) before the engine runs.
type AssessmentRequest struct {
	// OrganizationName and ProjectName identify the assessed system. Required.
	OrganizationName string `json:"organization_name"`
	ProjectName      string `json:"project_name"`

	// AIProvider names the provider the assessed application integrates with
	// (e.g. "openai", "gemini"). Informational only.
	AIProvider string `json:"ai_provider,omitempty"`

	// ScanMode selects the analysis focus. Defaults to COMPREHENSIVE.
	ScanMode ScanMode `json:"scan_mode,omitempty"`

	// Configs holds configuration artifacts keyed by kind
	// (e.g. "env_file", "json_config").
	Configs map[string]string `json:"configs,omitempty"`

	// ImplementationDetails holds code artifacts keyed by component
	// (e.g. "prompt_handling", "error_handling").
	ImplementationDetails map[string]string `json:"implementation_details,omitempty"`

	// ArchitectureDescription is an optional free-form narrative.
	ArchitectureDescription string `json:"architecture_description,omitempty"`

	// Environment and DataSensitivity feed the context evaluator. Both are
	// optional; the evaluator is neutral when they are absent.
	Environment     string `json:"environment,omitempty"`
	DataSensitivity string `json:"data_sensitivity,omitempty"`
}

// Validate reports why a request is unusable, or nil. The engine assumes
// validated input, so this is the single gate.
func (r *AssessmentRequest) Validate() error {
	if r.OrganizationName == "" {
		return ErrMissingOrganization
	}
	if r.ProjectName == "" {
		return ErrMissingProject
	}
	if len(r.Configs) == 0 && len(r.ImplementationDetails) == 0 {
		return ErrNoArtifacts
	}
	return nil
}

// CategoryScore is the 0-100 health score for one category, with the titles
// and remediation items of the findings that produced it.
type CategoryScore struct {
	Score           float64  `json:"score"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

// TokenUsage is the accumulated token count of the generation calls made
// while producing one assessment.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// AssessmentResult is the aggregate root handed to the reporting collaborator.
// Constructed once per request and immutable thereafter. CategoryScores always
// contains all four categories, even when a category has no findings.
type AssessmentResult struct {
	ID               string    `json:"id,omitempty"`
	OrganizationName string    `json:"organization_name"`
	ProjectName      string    `json:"project_name"`
	Timestamp        time.Time `json:"timestamp"`

	// OverallScore is the mean of the four category scores, in [0,100].
	OverallScore float64 `json:"overall_score"`

	// OverallRiskLevel is derived from OverallScore via fixed bands.
	OverallRiskLevel RiskLevel `json:"overall_risk_level"`

	CategoryScores map[Category]CategoryScore `json:"category_scores"`

	// Vulnerabilities lists validated findings; insertion order is priority
	// order (severity, then adjusted confidence, then category).
	Vulnerabilities []Finding `json:"vulnerabilities"`

	// PriorityActions is the ranked, capped remediation list, each entry
	// rendered as "[SEVERITY] <action>".
	PriorityActions []string `json:"priority_actions"`

	AIModelUsed string     `json:"ai_model_used"`
	TokenUsage  TokenUsage `json:"token_usage"`
}
