package schema

import (
	"fmt"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// ValidateOption configures a validation pass.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	connectivityWarnings bool
}

// WithConnectivityWarnings adds non-fatal warnings for disconnected
// components. Warnings never flip the overall OK.
func WithConnectivityWarnings() ValidateOption {
	return func(c *validateConfig) { c.connectivityWarnings = true }
}

// ValidateStructure checks the current store state against the schema and
// reports every violation. It never mutates the store and never fails hard
// on a violation. Issue ordering follows node then edge creation order, so
// two passes over the same state produce identical reports.
//
// Checks performed:
//   - node labels outside the allow-list (if one is supplied)
//   - nodes missing a required property key for their label
//   - edge labels outside the allow-list (if one is supplied)
//   - edges used between a (from-label, to-label) pair no rule permits
//   - edges referencing a missing endpoint (the deferred dangling check)
func ValidateStructure(store *graph.Store, s *Schema, opts ...ValidateOption) *Result {
	cfg := validateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &Result{OK: true, Issues: make([]Issue, 0)}

	nodeLabels := allowedSet(s.AllowedNodeLabels)
	edgeLabels := allowedSet(s.AllowedEdgeLabels)
	rules := s.rulesByLabel()

	for _, node := range store.Nodes() {
		if nodeLabels != nil && !nodeLabels[node.Label] {
			result.add(Issue{
				Kind:     UnknownNodeLabel,
				Severity: Error,
				NodeID:   node.ID,
				Message:  fmt.Sprintf("node %q has label %q outside the allowed node labels", node.ID, node.Label),
			})
		}
		for _, key := range s.RequiredProps[node.Label] {
			if _, ok := node.Props[key]; !ok {
				result.add(Issue{
					Kind:     MissingRequiredProp,
					Severity: Error,
					NodeID:   node.ID,
					Message:  fmt.Sprintf("node %q (label %q) is missing required property %q", node.ID, node.Label, key),
				})
			}
		}
	}

	for _, edge := range store.Edges() {
		if edgeLabels != nil && !edgeLabels[edge.Label] {
			result.add(Issue{
				Kind:     UnknownEdgeLabel,
				Severity: Error,
				EdgeID:   edge.ID,
				Message:  fmt.Sprintf("edge %q has label %q outside the allowed edge labels", edge.ID, edge.Label),
			})
		}

		fromNode, fromErr := store.GetNode(edge.From)
		toNode, toErr := store.GetNode(edge.To)
		if fromErr != nil {
			result.add(Issue{
				Kind:     DanglingEdge,
				Severity: Error,
				EdgeID:   edge.ID,
				Message:  fmt.Sprintf("edge %q references missing from node %q", edge.ID, edge.From),
			})
		}
		if toErr != nil {
			result.add(Issue{
				Kind:     DanglingEdge,
				Severity: Error,
				EdgeID:   edge.ID,
				Message:  fmt.Sprintf("edge %q references missing to node %q", edge.ID, edge.To),
			})
		}

		// Endpoint-pair constraints only apply when both endpoints resolve
		// and the edge label carries at least one rule.
		if fromErr == nil && toErr == nil {
			if labelRules, constrained := rules[edge.Label]; constrained {
				if !pairPermitted(labelRules, fromNode.Label, toNode.Label) {
					result.add(Issue{
						Kind:     ForbiddenEndpointPair,
						Severity: Error,
						EdgeID:   edge.ID,
						Message: fmt.Sprintf("edge %q label %q is not permitted between %q and %q",
							edge.ID, edge.Label, fromNode.Label, toNode.Label),
					})
				}
			}
		}
	}

	if cfg.connectivityWarnings {
		reportDisconnected(store, result)
	}

	return result
}

// add appends an issue and downgrades OK on Error severity.
func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == Error {
		r.OK = false
	}
}

func pairPermitted(rules []EdgeRule, fromLabel, toLabel string) bool {
	for _, rule := range rules {
		if rule.FromLabel == fromLabel && rule.ToLabel == toLabel {
			return true
		}
	}
	return false
}
