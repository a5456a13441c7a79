package domain

import "context"

// ModelClient is the boundary to the external generative text model.
// Implementations send a prompt and return the raw completion text. The
// client owns the timeout budget; expiry surfaces as an error here and is
// treated as a generation failure by the orchestrator. No retries at this
// boundary.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
