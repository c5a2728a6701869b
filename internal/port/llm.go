package port

import "context"

// ChatCompleter is the narrow slice of an LLM chat API the pipeline needs:
// one system prompt, one user message, one text reply.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
