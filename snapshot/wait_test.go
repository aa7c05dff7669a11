package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitReady(t *testing.T) {
	type testCase struct {
		policy  Policy
		readyAt int
		ready   bool
		polls   int
	}

	tests := []testCase{
		{policy: Policy{MaxPolls: 5}, readyAt: 1, ready: true, polls: 1},
		{policy: Policy{MaxPolls: 5}, readyAt: 3, ready: true, polls: 3},
		{policy: Policy{MaxPolls: 5}, readyAt: 5, ready: true, polls: 5},
		{policy: Policy{MaxPolls: 5}, readyAt: 6, ready: false, polls: 5},
		{policy: Policy{MaxPolls: 0}, readyAt: 42, ready: true, polls: 42},
		{policy: Policy{Initial: time.Millisecond, Interval: time.Millisecond, Settle: time.Millisecond, MaxPolls: 2}, readyAt: 10, ready: false, polls: 2},
	}

	for i := range tests {
		tc := &tests[i]
		calls := 0
		probe := func(context.Context) (bool, error) {
			calls++
			return calls >= tc.readyAt, nil
		}

		ready, polls, err := WaitReady(context.Background(), tc.policy, probe)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i+1, err)
		}
		if ready != tc.ready || polls != tc.polls {
			t.Fatalf("case %d: got ready=%v polls=%d, want ready=%v polls=%d", i+1, ready, polls, tc.ready, tc.polls)
		}
		if calls != polls {
			t.Fatalf("case %d: probe called %d times, reported %d polls", i+1, calls, polls)
		}
	}
}

func TestWaitReadyProbeError(t *testing.T) {
	errProbe := errors.New("evaluation failed")
	probe := func(context.Context) (bool, error) {
		return false, errProbe
	}

	ready, polls, err := WaitReady(context.Background(), Policy{MaxPolls: 3}, probe)
	if !errors.Is(err, errProbe) {
		t.Fatalf("expected probe error, got %v", err)
	}
	if ready || polls != 1 {
		t.Fatalf("unexpected ready=%v polls=%d", ready, polls)
	}
}

func TestWaitReadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{Interval: time.Hour}

	calls := 0
	probe := func(context.Context) (bool, error) {
		calls++
		cancel()
		return false, nil
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := WaitReady(ctx, policy, probe)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("WaitReady did not return after cancel")
	}
	if calls != 1 {
		t.Fatalf("expected 1 probe before cancel, got %d", calls)
	}
}

func TestWaitReadyCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, polls, err := WaitReady(ctx, Policy{Initial: time.Hour}, func(context.Context) (bool, error) {
		t.Fatalf("probe must not run after cancel")
		return false, nil
	})
	if !errors.Is(err, context.Canceled) || polls != 0 {
		t.Fatalf("unexpected polls=%d err=%v", polls, err)
	}
}
