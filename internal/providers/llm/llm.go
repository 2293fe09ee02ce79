package llm

import (
	"context"
	"strings"
)

type Provider interface {
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}

// Complete drains StreamAnswer into a single string.
func Complete(ctx context.Context, p Provider, prompt string) (string, error) {
	chunks, errs := p.StreamAnswer(ctx, prompt)

	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
	}
	if err := <-errs; err != nil {
		return "", err
	}
	return sb.String(), nil
}
