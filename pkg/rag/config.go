package rag

import (
	"fmt"
	"time"
)

// Default configuration values
const (
	DefaultExpandHops = 1
	DefaultMaxKGNodes = 60
	DefaultVectorK    = 8
)

// Config tunes one context build.
type Config struct {
	// ExpandHops is the subgraph expansion depth. 0 keeps the defaults at
	// construction via Normalize; use -1 explicitly for seeds-only slices.
	ExpandHops int
	// AllowedEdgeLabels restricts expansion to these edge labels; nil means
	// all labels.
	AllowedEdgeLabels []string
	// MaxKGNodes caps the KG slice's node count.
	MaxKGNodes int
	// VectorK is the number of passages requested from the search capability.
	VectorK int
	// RouteByMetadata derives a metadata filter from the KG slice via the
	// domain capability before searching.
	RouteByMetadata bool
	// VectorTimeout bounds the external search call; 0 means no local
	// timeout beyond the caller's context.
	VectorTimeout time.Duration
}

// DefaultConfig returns the documented defaults: one hop, 60 KG nodes,
// 8 passages.
func DefaultConfig() Config {
	return Config{
		ExpandHops: DefaultExpandHops,
		MaxKGNodes: DefaultMaxKGNodes,
		VectorK:    DefaultVectorK,
	}
}

// Normalize fills zero fields with defaults and rejects negative values.
func (c Config) Normalize() (Config, error) {
	if c.ExpandHops == 0 {
		c.ExpandHops = DefaultExpandHops
	}
	if c.ExpandHops == -1 {
		c.ExpandHops = 0
	}
	if c.MaxKGNodes == 0 {
		c.MaxKGNodes = DefaultMaxKGNodes
	}
	if c.VectorK == 0 {
		c.VectorK = DefaultVectorK
	}

	if c.ExpandHops < 0 {
		return c, fmt.Errorf("rag config: ExpandHops must be >= 0, got %d", c.ExpandHops)
	}
	if c.MaxKGNodes < 0 {
		return c, fmt.Errorf("rag config: MaxKGNodes must be >= 0, got %d", c.MaxKGNodes)
	}
	if c.VectorK < 0 {
		return c, fmt.Errorf("rag config: VectorK must be >= 0, got %d", c.VectorK)
	}
	if c.VectorTimeout < 0 {
		return c, fmt.Errorf("rag config: VectorTimeout must be >= 0, got %v", c.VectorTimeout)
	}
	return c, nil
}
