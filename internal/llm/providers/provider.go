package providers

import (
	"context"
	"fmt"
)

type Message struct {
	Role    string
	Content string
}

// Provider abstracts the completion service behind the pipeline. All
// structure in model responses is recovered by the caller's own parsers;
// providers return plain text.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is a deterministic fallback used when no API key is
// configured. It keeps the pipeline runnable offline while making the output
// recognizably synthetic: every completion is the same stub-marked empty
// plan, never an echo of the prompt (an echo would hand the synthesis parser
// its own JSON skeleton and fabricate placeholder artifacts).
type LocalProvider struct{}

const localStubResponse = `[local-stub] {"session_summary":"offline stub output: no completion provider configured","issues":[],"runtime_solutions":[],"todos":[],"rocks":[]}`

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	return localStubResponse, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
