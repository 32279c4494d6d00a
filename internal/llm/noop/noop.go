package noop

import "context"

// Completer is the no-LLM provider: every completion is empty, so query
// rewrites are skipped and summaries fall back to the heuristic path.
type Completer struct{}

func NewCompleter() *Completer { return &Completer{} }

func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	return "", nil
}
