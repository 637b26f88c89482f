package assessor

import (
	"context"
	"strings"

	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/knowledge"
	"github.com/seclens/seclens/internal/model"
)

// SemanticMatcher resolves a raw finding to its nearest known technique.
type SemanticMatcher struct {
	index  *knowledge.Index
	logger interfaces.Logger
}

func NewSemanticMatcher(index *knowledge.Index, logger interfaces.Logger) *SemanticMatcher {
	return &SemanticMatcher{index: index, logger: logger.With(interfaces.Field{Key: "component", Value: "matcher"})}
}

// Match embeds the finding's title and description and looks up the nearest
// technique. An empty finding text or a failed embedding degrades to
// (nil, 0): the finding is still scored, just without semantic support.
// Context cancellation is the one failure that propagates.
func (m *SemanticMatcher) Match(ctx context.Context, f model.RawFinding) (*knowledge.Technique, float64, error) {
	text := matchText(f)
	if text == "" {
		return nil, 0, nil
	}

	tech, sim, err := m.index.Nearest(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		m.logger.Warn("semantic match degraded", interfaces.Field{Key: "finding", Value: f.Title}, interfaces.Field{Key: "error", Value: err.Error()})
		return nil, 0, nil
	}
	return tech, sim, nil
}

func matchText(f model.RawFinding) string {
	title := strings.TrimSpace(f.Title)
	desc := strings.TrimSpace(f.Description)
	switch {
	case title == "" && desc == "":
		return ""
	case title == "":
		return desc
	case desc == "":
		return title
	}
	return title + ". " + desc
}
