// Package catalog holds the versioned biomarker catalog: the ranked list of
// feature names, the canonical subset used for every join and inference, and
// the field names and capability declarations of the three record sources.
// A Catalog is loaded once at startup and treated as immutable afterwards.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceClinical    = "clinical"
	SourcePerformance = "performance"
	SourceSignal      = "signal"
)

type Source struct {
	Name             string   `yaml:"name" json:"name"`
	Provides         []string `yaml:"provides" json:"provides"`
	HasLabel         bool     `yaml:"has_label" json:"has_label"`
	HasInclusionFlag bool     `yaml:"has_inclusion_flag" json:"has_inclusion_flag"`
}

type Catalog struct {
	Version       string   `yaml:"version" json:"version"`
	Identifier    string   `yaml:"identifier" json:"identifier"`
	Label         string   `yaml:"label" json:"label"`
	InclusionFlag string   `yaml:"inclusion_flag" json:"inclusion_flag"`
	CanonicalSize int      `yaml:"canonical_size" json:"canonical_size"`
	Features      []string `yaml:"features" json:"features"`
	Sources       []Source `yaml:"sources" json:"sources"`
}

// Load reads a catalog artifact from path, falling back to the embedded
// default when no path is configured. The returned catalog is validated.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	if len(c.Features) == 0 {
		return fmt.Errorf("feature catalog empty")
	}
	if c.CanonicalSize <= 0 || c.CanonicalSize > len(c.Features) {
		return fmt.Errorf("canonical size %d out of range for %d features", c.CanonicalSize, len(c.Features))
	}
	if c.Identifier == "" {
		return fmt.Errorf("identifier field unset")
	}
	if c.Label == "" {
		return fmt.Errorf("label field unset")
	}
	seen := make(map[string]struct{}, len(c.Features))
	for _, name := range c.Features {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("blank feature name in catalog")
		}
		if _, dup := seen[trimmed]; dup {
			return fmt.Errorf("duplicate feature name %q", trimmed)
		}
		seen[trimmed] = struct{}{}
	}
	labelSources := 0
	for _, src := range c.Sources {
		if src.HasLabel {
			labelSources++
		}
	}
	if labelSources > 1 {
		return fmt.Errorf("label declared on %d sources, at most one allowed", labelSources)
	}
	return nil
}

// FullCatalog returns the complete ranked feature list.
func (c Catalog) FullCatalog() []string {
	out := make([]string, len(c.Features))
	copy(out, c.Features)
	return out
}

// Canonical returns the canonical feature set: the top-ranked prefix of the
// catalog. Join, training and inference code all key off this list.
func (c Catalog) Canonical() []string {
	out := make([]string, c.CanonicalSize)
	copy(out, c.Features[:c.CanonicalSize])
	return out
}

// CanonicalSet returns the canonical features as a lookup set.
func (c Catalog) CanonicalSet() map[string]struct{} {
	set := make(map[string]struct{}, c.CanonicalSize)
	for _, name := range c.Features[:c.CanonicalSize] {
		set[name] = struct{}{}
	}
	return set
}

func (c Catalog) IdentifierField() string {
	return c.Identifier
}

func (c Catalog) LabelField() string {
	return c.Label
}

func (c Catalog) InclusionField() string {
	return c.InclusionFlag
}

func (c Catalog) SourceSpec(name string) (Source, bool) {
	for _, src := range c.Sources {
		if strings.EqualFold(src.Name, name) {
			return src, true
		}
	}
	return Source{}, false
}

// OutputColumns is the integrated-table contract: identifier, label, then the
// canonical features in catalog order.
func (c Catalog) OutputColumns() []string {
	out := make([]string, 0, c.CanonicalSize+2)
	out = append(out, c.Identifier, c.Label)
	out = append(out, c.Features[:c.CanonicalSize]...)
	return out
}
