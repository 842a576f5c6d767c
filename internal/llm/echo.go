package llm

import (
	"context"
	"strings"
)

// EchoClient is an offline Completer for development and tests. It answers
// JSON requests with an empty object and echoes the prompt otherwise.
type EchoClient struct{}

// NewEchoClient returns an EchoClient.
func NewEchoClient() *EchoClient {
	return &EchoClient{}
}

// Complete returns a deterministic reply without network access.
func (EchoClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := req.Prompt
	if req.JSON {
		text = "{}"
	}
	words := len(strings.Fields(req.System)) + len(strings.Fields(req.Prompt))
	out := len(strings.Fields(text))
	return &Completion{
		Text:  text,
		Model: "echo",
		Usage: Usage{PromptTokens: words, CompletionTokens: out, TotalTokens: words + out},
	}, nil
}
