package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingTokens struct {
	calls atomic.Int32
	err   error
}

func (c *countingTokens) Token(ctx context.Context) (string, error) {
	c.calls.Add(1)
	return "tok", c.err
}

func (c *countingTokens) Invalidate() {}

func TestTokenWorker(t *testing.T) {
	testCases := []struct {
		TestName string
		Err      error
	}{
		{TestName: "Success. Token refreshed on start and by ticker #1"},
		{TestName: "Success. Refresh failures do not stop the worker #2", Err: errors.New("authentication failed")},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			tokens := &countingTokens{err: tc.Err}
			w := NewTokenWorker(tokens, 10*time.Millisecond)

			w.Start(context.Background())
			time.Sleep(55 * time.Millisecond)
			w.Stop()

			calls := tokens.calls.Load()
			if calls < 3 {
				t.Errorf("Expected at least 3 refreshes, got: %d", calls)
			}
			time.Sleep(20 * time.Millisecond)
			if tokens.calls.Load() != calls {
				t.Errorf("Worker kept running after Stop")
			}
		})
	}
}

func TestTokenWorker_StopsOnContext(t *testing.T) {
	tokens := &countingTokens{}
	w := NewTokenWorker(tokens, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		w.WaitGroup.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Worker did not stop on context cancellation")
	}
	if tokens.calls.Load() != 1 {
		t.Errorf("Expected one refresh on start, got: %d", tokens.calls.Load())
	}
}
