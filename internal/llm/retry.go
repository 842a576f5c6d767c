package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/retry"
)

type retryingCompleter struct {
	next   Completer
	policy retry.Policy
	logger *zap.Logger
}

// WithRetry wraps c so transient failures (timeouts, transport errors,
// 408/429/5xx) are retried under policy. An empty reply is an answer.
func WithRetry(c Completer, policy retry.Policy, logger *zap.Logger) Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retryingCompleter{next: c, policy: policy, logger: logger}
}

func (r *retryingCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	return retry.Do(ctx, r.policy, func(ctx context.Context) (*Completion, error) {
		return r.next.Complete(ctx, req)
	},
		retry.WithLogger(r.logger),
		retry.WithName("llm.complete"),
	)
}
