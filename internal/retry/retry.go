// Package retry runs calls to external collaborators under a bounded
// exponential-backoff policy, retrying only transient failures.
package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/config"
)

// Policy bounds retry attempts and backoff intervals.
// MaxAttempts counts the first call; 1 disables retries.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// FromConfig builds a Policy from the retry config section. Unset fields
// take the DefaultPolicy values.
func FromConfig(c config.RetryConfig) Policy {
	p := DefaultPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.InitialInterval > 0 {
		p.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		p.MaxInterval = c.MaxInterval
	}
	if c.MaxElapsed > 0 {
		p.MaxElapsed = c.MaxElapsed
	}
	return p
}

// DefaultPolicy is three attempts starting at 500ms.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialInterval: 500 * time.Millisecond, MaxInterval: 10 * time.Second, MaxElapsed: 2 * time.Minute}
}

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	HTTPStatusCode() int
}

// RetryAfterer is implemented by errors that carry a server-requested delay.
type RetryAfterer interface {
	RetryAfter() time.Duration
}

// IsRetryableStatus reports whether an HTTP status is worth retrying.
func IsRetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// IsTransient classifies err as transient (timeouts, transport failures,
// retryable HTTP statuses) or permanent (everything else).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return IsRetryableStatus(sc.HTTPStatusCode())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// ParseRetryAfter reads a Retry-After header in seconds, capped at max.
// It returns 0 when the header is absent or not a positive integer.
func ParseRetryAfter(h http.Header, max time.Duration) time.Duration {
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if max > 0 && d > max {
		d = max
	}
	return d
}

// Option customizes a single Do call.
type Option func(*options)

type options struct {
	logger *zap.Logger
	op     string
}

// WithLogger logs each retried failure at warn level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels log lines for this call.
func WithName(name string) Option {
	return func(o *options) { o.op = name }
}


// Do calls fn until it succeeds, returns a permanent error, the attempt
// budget is spent, or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := options{logger: zap.NewNop(), op: "call"}
	for _, opt := range opts {
		opt(&o)
	}
	if p.MaxAttempts <= 1 {
		return fn(ctx)
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	attempt := 0
	var lastErr error
	operation := func() (T, error) {
		attempt++
		v, err := fn(ctx)
		lastErr = err
		if err == nil {
			return v, nil
		}
		if !IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		var ra RetryAfterer
		if errors.As(err, &ra) && ra.RetryAfter() > 0 {
			return v, backoff.RetryAfter(int((ra.RetryAfter() + time.Second - 1) / time.Second))
		}
		return v, err
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			o.logger.Warn("transient failure, retrying",
				zap.String("op", o.op), zap.Int("attempt", attempt), zap.Duration("backoff", next), zap.Error(err))
		}),
	}
	if p.MaxElapsed > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxElapsedTime(p.MaxElapsed))
	}
	v, err := backoff.Retry(ctx, operation, retryOpts...)
	if err != nil && lastErr != nil && ctx.Err() == nil {
		// backoff wraps the final error when it was permanent or carried a delay.
		return v, lastErr
	}
	return v, err
}
