// Package schema defines structural constraints for a property graph and a
// pure validation pass reporting every violation at once. Validation is the
// second half of the two-phase ingestion contract: edge creation never checks
// endpoint existence, this pass does.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EdgeRule permits an edge label between one (fromLabel, toLabel) pair.
// An edge label with at least one rule must match one of its rules.
type EdgeRule struct {
	Label     string `json:"label" yaml:"label" validate:"required"`
	FromLabel string `json:"fromLabel" yaml:"fromLabel" validate:"required"`
	ToLabel   string `json:"toLabel" yaml:"toLabel" validate:"required"`
}

// Schema describes the structural constraints of a graph. All fields are
// optional; an empty schema permits everything except dangling edges.
// Field names are fixed for interop across implementations.
type Schema struct {
	AllowedNodeLabels    []string            `json:"allowedNodeLabels,omitempty" yaml:"allowedNodeLabels,omitempty"`
	AllowedEdgeLabels    []string            `json:"allowedEdgeLabels,omitempty" yaml:"allowedEdgeLabels,omitempty"`
	EdgeLabelConstraints []EdgeRule          `json:"edgeLabelConstraints,omitempty" yaml:"edgeLabelConstraints,omitempty" validate:"dive"`
	RequiredProps        map[string][]string `json:"requiredProps,omitempty" yaml:"requiredProps,omitempty"`
}

var validate = validator.New()

// Check verifies the schema document itself is well formed.
func (s *Schema) Check() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}

// Load reads a schema from a YAML or JSON file, chosen by extension.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	var schema Schema
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("load schema %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("load schema %s: %w", path, err)
		}
	}

	if err := schema.Check(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// allowedSet builds a lookup set from an allow-list; nil means unconstrained.
func allowedSet(labels []string) map[string]bool {
	if labels == nil {
		return nil
	}
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

// rulesByLabel groups edge rules by edge label.
func (s *Schema) rulesByLabel() map[string][]EdgeRule {
	rules := make(map[string][]EdgeRule)
	for _, r := range s.EdgeLabelConstraints {
		rules[r.Label] = append(rules[r.Label], r)
	}
	return rules
}
