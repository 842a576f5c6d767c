package scrape

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/retry"
)

type retryingScraper struct {
	next   Scraper
	policy retry.Policy
	logger *zap.Logger
}

// WithRetry retries transient fetch failures (timeouts, connection errors,
// 408, 429 and 5xx responses).
func WithRetry(s Scraper, policy retry.Policy, logger *zap.Logger) Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retryingScraper{next: s, policy: policy, logger: logger}
}

func (r *retryingScraper) Scrape(ctx context.Context, url string) (*Page, error) {
	return retry.Do(ctx, r.policy, func(ctx context.Context) (*Page, error) {
		return r.next.Scrape(ctx, url)
	},
		retry.WithLogger(r.logger),
		retry.WithName("scrape"),
	)
}
