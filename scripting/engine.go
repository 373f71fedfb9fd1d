// Package scripting runs deployment-specific JavaScript hooks over
// recognition results. A hook receives the reconstructed text and paragraph
// list and may return replacements, letting installations fix recurring
// recognition artifacts without rebuilding the worker.
package scripting

import "context"

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute evaluates a script and returns its final value.
	Execute(ctx context.Context, script string) (interface{}, error)

	// Bind exposes a named global value to subsequent executions.
	Bind(name string, value interface{}) error
}
