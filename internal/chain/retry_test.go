package chain

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
)

type flakyCaller struct {
	failures int
	calls    int
}

func (f *flakyCaller) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("transient failure %d", f.calls)
	}
	return []byte{0x01}, nil
}

func TestRetryingCallerRecovers(t *testing.T) {
	inner := &flakyCaller{failures: 2}
	caller := NewRetryingCaller(inner, 3, time.Millisecond)

	resp, err := caller.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(resp) != 1 || resp[0] != 0x01 {
		t.Fatalf("unexpected response: %x", resp)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryingCallerExhaustsAttempts(t *testing.T) {
	inner := &flakyCaller{failures: 10}
	caller := NewRetryingCaller(inner, 2, time.Millisecond)

	if _, err := caller.CallContract(context.Background(), ethereum.CallMsg{}, nil); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryingCallerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &flakyCaller{failures: 10}
	caller := NewRetryingCaller(inner, 5, 10*time.Millisecond)

	_, err := caller.CallContract(ctx, ethereum.CallMsg{}, nil)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", inner.calls)
	}
}
