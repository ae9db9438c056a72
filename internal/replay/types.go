package replay

import (
	"errors"
	"time"
)

var ErrNoFrames = errors.New("replay: no frames")

// Frame is one output chunk and the delay before it was received.
type Frame struct {
	After time.Duration `yaml:"after,omitempty"`
	Data  string        `yaml:"data"`
}

// Recording is a captured chunk stream plus the screen size it was
// produced for.
type Recording struct {
	Rows   int     `yaml:"rows,omitempty"`
	Cols   int     `yaml:"cols,omitempty"`
	Note   string  `yaml:"note,omitempty"`
	Frames []Frame `yaml:"frames"`
}

// Duration is the sum of all frame delays.
func (r Recording) Duration() time.Duration {
	var d time.Duration
	for _, f := range r.Frames {
		d += f.After
	}
	return d
}

// Bytes is the total size of all frame payloads.
func (r Recording) Bytes() int {
	n := 0
	for _, f := range r.Frames {
		n += len(f.Data)
	}
	return n
}
