package source

import (
	"context"

	"docterm/internal/replay"
)

// Replay plays recorded frames as if they arrived from a live session.
type Replay struct {
	name string
	rec  replay.Recording
	opts replay.PlayOptions
}

func NewReplay(name string, rec replay.Recording, opts replay.PlayOptions) *Replay {
	return &Replay{name: name, rec: rec, opts: opts}
}

func (r *Replay) Name() string { return "replay:" + r.name }

// Recording returns the frames being played.
func (r *Replay) Recording() replay.Recording { return r.rec }

func (r *Replay) Run(ctx context.Context, emit func(string)) error {
	dec := NewDecoder()
	err := replay.Play(ctx, r.rec.Frames, r.opts, func(data string) {
		if chunk := dec.Decode([]byte(data)); chunk != "" {
			emit(chunk)
		}
	})
	if rest := dec.Flush(); rest != "" {
		emit(rest)
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Send is not supported: a recording has no remote side.
func (r *Replay) Send([]byte) error { return ErrReadOnly }
