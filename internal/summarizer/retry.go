package summarizer

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// implRetrying retries ErrTransient failures of next with exponential backoff.
// Each attempt gets its own timeout.
type implRetrying struct {
	next            Summarizer
	maxTries        uint
	timeout         time.Duration
	initialInterval time.Duration
	logger          logger.Logger
}

func (r *implRetrying) Provider() string { return r.next.Provider() }

func (r *implRetrying) Summarize(ctx context.Context, t *transcript.Transcript, opts mapreduce.CallOptions) (*mapreduce.Summary, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval

	attempt := func() (*mapreduce.Summary, error) {
		callCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		s, err := r.next.Summarize(callCtx, t, opts)
		if err == nil {
			return s, nil
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn(ctx, "%s call failed, retrying in %s: %v", r.next.Provider(), next, err)
		}),
	)
}
