package replay

import (
	"context"
	"time"
)

type PlayOptions struct {
	// Speed scales delays: 2 plays twice as fast. Zero or negative plays
	// without any delay.
	Speed float64
	Loop  bool
}

// Play calls fn with each frame's data after its delay. It returns when
// the frames are exhausted (never, with Loop) or ctx is done.
func Play(ctx context.Context, frames []Frame, opts PlayOptions, fn func(string)) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	for {
		for _, frame := range frames {
			if err := wait(ctx, scale(frame.After, opts.Speed)); err != nil {
				return err
			}
			fn(frame.Data)
		}
		if !opts.Loop {
			return nil
		}
	}
}

func scale(d time.Duration, speed float64) time.Duration {
	if speed <= 0 || d <= 0 {
		return 0
	}
	return time.Duration(float64(d) / speed)
}

func wait(ctx context.Context, d time.Duration) error {
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
