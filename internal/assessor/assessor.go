// Package assessor implements the finding validation and confidence scoring
// pipeline: generate candidate findings from the request's artifacts, match
// each against the knowledge base, fold the validation signals into adjusted
// confidences, and aggregate the validated findings into category scores and
// a prioritized report.
package assessor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/knowledge"
	"github.com/seclens/seclens/internal/model"
)

// Engine runs the full assessment pipeline. Safe for concurrent use: all
// mutable state lives in per-call locals.
type Engine struct {
	cfg       *Config
	matcher   *SemanticMatcher
	scorer    *Scorer
	generator interfaces.Generator
	logger    interfaces.Logger
}

func NewEngine(cfg *Config, index *knowledge.Index, generator interfaces.Generator, logger interfaces.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if index == nil {
		return nil, fmt.Errorf("assessor: index is nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("assessor: generator is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("assessor: logger is nil")
	}
	return &Engine{
		cfg:       cfg,
		matcher:   NewSemanticMatcher(index, logger),
		scorer:    NewScorer(cfg),
		generator: generator,
		logger:    logger.With(interfaces.Field{Key: "component", Value: "assessor"}),
	}, nil
}

// artifact is one unit of input handed to the generator.
type artifact struct {
	label   string
	kind    interfaces.ArtifactKind
	content string
}

// Assess runs the pipeline for one validated request. Generation failures
// degrade to an empty finding set for the affected artifact; context
// cancellation aborts the whole assessment with no partial result.
func (e *Engine) Assess(ctx context.Context, req *model.AssessmentRequest) (*model.AssessmentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mode := req.ScanMode
	if mode == "" {
		mode = model.ScanComprehensive
	}

	started := time.Now()
	raws, usage, err := e.generate(ctx, collectArtifacts(e.cfg, req), mode)
	if err != nil {
		return nil, err
	}

	findings, err := e.validate(ctx, req, raws)
	if err != nil {
		return nil, err
	}

	SortFindings(findings)
	for i := range findings {
		findings[i].ID = fmt.Sprintf("finding-%d", i+1)
	}

	scores := Aggregate(e.cfg, findings)
	overall := OverallScore(scores)

	e.logger.Info("assessment complete",
		interfaces.Field{Key: "project", Value: req.ProjectName},
		interfaces.Field{Key: "findings", Value: len(findings)},
		interfaces.Field{Key: "overall_score", Value: overall},
		interfaces.Field{Key: "duration_ms", Value: time.Since(started).Milliseconds()},
	)

	return &model.AssessmentResult{
		OrganizationName: req.OrganizationName,
		ProjectName:      req.ProjectName,
		Timestamp:        time.Now().UTC(),
		OverallScore:     overall,
		OverallRiskLevel: RiskLevel(overall),
		CategoryScores:   scores,
		Vulnerabilities:  findings,
		PriorityActions:  PriorityActions(e.cfg, findings),
		AIModelUsed:      e.generator.ModelName(),
		TokenUsage:       usage,
	}, nil
}

// collectArtifacts flattens the request into generator inputs in a
// deterministic order: code artifacts by key, then config artifacts by key,
// then the architecture narrative. Trivially short artifacts are skipped and
// each kind is capped.
func collectArtifacts(cfg *Config, req *model.AssessmentRequest) []artifact {
	const minLen = 10

	var out []artifact
	appendSorted := func(m map[string]string, kind interfaces.ArtifactKind, limit int) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := 0
		for _, k := range keys {
			if n >= limit {
				break
			}
			if len(strings.TrimSpace(m[k])) < minLen {
				continue
			}
			out = append(out, artifact{label: k, kind: kind, content: m[k]})
			n++
		}
	}
	appendSorted(req.ImplementationDetails, interfaces.ArtifactCode, cfg.MaxCodeArtifacts)
	appendSorted(req.Configs, interfaces.ArtifactConfig, cfg.MaxConfigArtifacts)
	if len(strings.TrimSpace(req.ArchitectureDescription)) >= minLen {
		out = append(out, artifact{label: "architecture_description", kind: interfaces.ArtifactCode, content: req.ArchitectureDescription})
	}
	return out
}

// generate runs the generator over each artifact sequentially, bounding each
// call by the configured timeout. A failed or timed-out call contributes
// nothing; the rest of the pipeline proceeds on whatever was produced.
func (e *Engine) generate(ctx context.Context, artifacts []artifact, mode model.ScanMode) ([]model.RawFinding, model.TokenUsage, error) {
	var (
		raws  []model.RawFinding
		usage model.TokenUsage
	)
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, model.TokenUsage{}, err
		}
		callCtx := ctx
		cancel := context.CancelFunc(func() {})
		if e.cfg.GenerationTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, e.cfg.GenerationTimeout)
		}
		fs, u, err := e.generator.GenerateFindings(callCtx, a.content, a.label, a.kind, mode)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, model.TokenUsage{}, ctx.Err()
			}
			e.logger.Warn("generation failed, skipping artifact",
				interfaces.Field{Key: "artifact", Value: a.label},
				interfaces.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		raws = append(raws, fs...)
		usage.PromptTokens += u.PromptTokens
		usage.CompletionTokens += u.CompletionTokens
	}
	return raws, usage, nil
}

// validate fans the raw findings out over a bounded worker pool and collects
// the scored findings by slot index, so the output order matches the input
// order regardless of scheduling.
func (e *Engine) validate(ctx context.Context, req *model.AssessmentRequest, raws []model.RawFinding) ([]model.Finding, error) {
	if len(raws) == 0 {
		return []model.Finding{}, nil
	}

	workers := e.cfg.MaxWorkers
	if workers <= 0 {
		workers = 1
	}

	results := make([]model.Finding, len(raws))
	errs := make([]error, len(raws))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, raw := range raws {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, rf model.RawFinding) {
			defer wg.Done()
			defer func() { <-sem }()
			f, err := e.validateOne(ctx, req, rf)
			if err != nil {
				errs[slot] = err
				return
			}
			results[slot] = f
		}(i, raw)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (e *Engine) validateOne(ctx context.Context, req *model.AssessmentRequest, rf model.RawFinding) (model.Finding, error) {
	tech, sim, err := e.matcher.Match(ctx, rf)
	if err != nil {
		return model.Finding{}, err
	}

	category, ok := model.ParseCategory(rf.CategoryHint)
	if !ok {
		if tech != nil {
			category = tech.Category
		} else {
			category = model.CategoryConfiguration
		}
	}

	sig := Signals{
		Similarity:     sim,
		IndicatorMatch: IndicatorMatch(category, rf.CodeSnippets),
		ContextMatch:   ContextMatch(req.Environment, req.DataSensitivity),
		Matched:        tech != nil,
	}
	if tech != nil {
		sig.TechniqueName = tech.Name
	}
	confidence, info := e.scorer.Score(sig, rf.Confidence)

	snippets := rf.CodeSnippets
	if snippets == nil {
		snippets = []string{}
	}
	return model.Finding{
		Category:       category,
		Severity:       model.ParseSeverity(rf.SeverityHint),
		Title:          rf.Title,
		Description:    rf.Description,
		CodeSnippets:   snippets,
		Recommendation: rf.Recommendation,
		Confidence:     confidence,
		ValidationInfo: &info,
	}, nil
}
