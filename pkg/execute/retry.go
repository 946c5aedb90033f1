// pkg/execute/retry.go

package execute

import (
	"context"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RetryOperation invokes fn, retrying with a fixed delay between attempts.
// With retries <= 0 the operation runs exactly once and any failure is
// propagated immediately; otherwise fn is invoked at most retries times and
// the last failure is propagated. The first success wins.
func RetryOperation(ctx context.Context, retries int, delay time.Duration, name string, fn func() error) error {
	log := otelzap.Ctx(ctx)

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return cerr.Wrapf(err, "%s aborted", name)
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				log.Info("Operation succeeded after retry",
					zap.String("operation", name),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		if attempt >= retries {
			break
		}

		log.Warn("Operation failed, retrying",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Int("retries", retries),
			zap.Duration("delay", delay),
			zap.Error(lastErr))
		time.Sleep(delay)
	}

	if retries > 1 {
		return cerr.Wrapf(lastErr, "%s failed after %d attempts", name, retries)
	}
	return lastErr
}

// RetryCommand runs an external command under the same retry policy.
func RetryCommand(ctx context.Context, retries int, delay time.Duration, opts Options) (string, error) {
	var output string
	err := RetryOperation(ctx, retries, delay, buildCommandString(opts.Command, opts.Args...), func() error {
		var runErr error
		output, runErr = Run(ctx, opts)
		return runErr
	})
	return output, err
}
