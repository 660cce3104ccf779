package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrEdgeNotFound    = errors.New("edge not found")
	ErrDuplicateID     = errors.New("duplicate identifier")
	ErrInvalidProperty = errors.New("invalid property value")
	ErrEmptyLabel      = errors.New("label must not be empty")
)

// GraphError provides structured error information for store operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "CreateNode", "DeleteEdge")
	Entity string // Entity type ("node" or "edge")
	ID     string // Entity ID (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// nodeError wraps a cause as a node-scoped GraphError.
func nodeError(op, id string, cause error) error {
	return &GraphError{Op: op, Entity: "node", ID: id, Cause: cause}
}

// edgeError wraps a cause as an edge-scoped GraphError.
func edgeError(op, id string, cause error) error {
	return &GraphError{Op: op, Entity: "edge", ID: id, Cause: cause}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound)
}

// IsDuplicate returns true if the error is a duplicate identifier error.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}
