package interfaces

import "context"

// Completer is the single LLM capability every prompt-backed feature goes
// through: a system instruction plus a user message in, model text out.
// Provider selection is a configuration-time choice.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
