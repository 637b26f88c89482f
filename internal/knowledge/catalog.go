package knowledge

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/seclens/seclens/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	// ErrEmptyCatalog is returned when a catalog parses but contains no
	// techniques. The engine must not start without one.
	ErrEmptyCatalog = errors.New("knowledge: catalog contains no techniques")
)

// Technique is a catalogued, named vulnerability pattern. Techniques are
// created once at index-build time and never mutated; the index owns them.
type Technique struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Category    model.Category `yaml:"category"`
	Severity    model.Severity `yaml:"severity"`
	Description string         `yaml:"description"`

	// ExampleTexts are reference phrasings of the pattern. The technique's
	// embedding is the mean of the embeddings of these texts plus the
	// description.
	ExampleTexts []string `yaml:"example_texts"`

	// Embedding is populated by the index builder, not the catalog file.
	Embedding []float32 `yaml:"-"`
}

type catalogFile struct {
	Techniques []Technique `yaml:"techniques"`
}

// LoadCatalog parses a technique catalog from YAML and validates it.
// A malformed or empty catalog is an error: every validation decision
// depends on the catalog, so callers treat failure as fatal.
func LoadCatalog(data []byte) ([]Technique, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("knowledge: parsing catalog: %w", err)
	}
	if len(f.Techniques) == 0 {
		return nil, ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(f.Techniques))
	for i, t := range f.Techniques {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("knowledge: technique %d missing id or name", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("knowledge: duplicate technique id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Severity.Rank() == 0 {
			return nil, fmt.Errorf("knowledge: technique %q has unknown severity %q", t.ID, t.Severity)
		}
		if _, ok := model.ParseCategory(string(t.Category)); !ok {
			return nil, fmt.Errorf("knowledge: technique %q has unknown category %q", t.ID, t.Category)
		}
	}
	return f.Techniques, nil
}

// DefaultCatalog parses the catalog embedded in the binary.
func DefaultCatalog() ([]Technique, error) {
	return LoadCatalog(defaultCatalog)
}
