package ai

import "context"

// CompletionClient produces a completion for a prompt. The only call
// shape the core needs is "produce strict JSON matching a given shape
// from a natural-language prompt".
type CompletionClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
