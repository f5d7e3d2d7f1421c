// Package poll runs bounded condition loops on top of rod's retry helpers.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pagekit/internal/domain/entity"

	"github.com/go-rod/rod/lib/utils"
)

const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultMaxInterval = 500 * time.Millisecond
)

type Config struct {
	Interval    time.Duration
	MaxInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		MaxInterval: DefaultMaxInterval,
	}
}

// Until evaluates cond immediately and then on a backoff schedule until it
// returns true or timeout elapses. A missing element is treated as "not yet";
// any other error from cond stops the loop and is returned as-is.
func Until(ctx context.Context, cfg Config, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxInterval < cfg.Interval {
		cfg.MaxInterval = cfg.Interval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	err := utils.Retry(waitCtx, utils.BackoffSleeper(cfg.Interval, cfg.MaxInterval, nil), func() (bool, error) {
		ok, err := cond(waitCtx)
		if err == nil {
			return ok, nil
		}
		if waitCtx.Err() != nil || Transient(err) {
			lastErr = err
			return false, nil
		}
		return true, err
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		if lastErr != nil && !errors.Is(lastErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %w", entity.ErrWaitTimeout, timeout, lastErr)
		}
		return fmt.Errorf("%w after %s", entity.ErrWaitTimeout, timeout)
	}
	return err
}

// Transient reports errors a wait keeps polling through. A stale handle never
// recovers, so entity.ErrStaleElement is not one of them.
func Transient(err error) bool {
	return errors.Is(err, entity.ErrNoSuchElement)
}
