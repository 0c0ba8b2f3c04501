package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
)

// Caller performs read-only contract calls.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// RetryingCaller wraps a Caller with exponential backoff. RPC reads are
// idempotent, so every failure is retried up to the configured limit.
type RetryingCaller struct {
	inner      Caller
	maxRetries int
	backoff    time.Duration
}

func NewRetryingCaller(inner Caller, maxRetries int, backoff time.Duration) *RetryingCaller {
	return &RetryingCaller{inner: inner, maxRetries: maxRetries, backoff: backoff}
}

func (r *RetryingCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := withRetry(ctx, r.maxRetries, r.backoff, func(ctx context.Context) error {
		resp, err := r.inner.CallContract(ctx, msg, blockNumber)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	return out, err
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
