package snapshot

import (
	"context"
	"time"
)

// WaitReady runs the readiness protocol p with probe.
// It returns whether probe ever reported ready and how many probes were made.
// Exhausting MaxPolls is not an error, but probe errors and ctx cancellation are.
func WaitReady(
	ctx context.Context,
	p Policy,
	probe func(ctx context.Context) (bool, error),
) (
	bool,
	int,
	error,
) {
	err := sleep(ctx, p.Initial)
	if err != nil {
		return false, 0, err
	}

	ready := false
	polls := 0
	for {
		ok, err := probe(ctx)
		polls++
		if err != nil {
			return false, polls, err
		}
		if ok {
			ready = true
			break
		}
		if p.MaxPolls > 0 && polls >= p.MaxPolls {
			break
		}

		err = sleep(ctx, p.Interval)
		if err != nil {
			return false, polls, err
		}
	}

	err = sleep(ctx, p.Settle)
	if err != nil {
		return ready, polls, err
	}

	return ready, polls, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
