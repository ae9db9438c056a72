package replay

import (
	"sync"
	"time"
)

// Recorder captures live chunks with their inter-arrival delays.
type Recorder struct {
	mu     sync.Mutex
	now    func() time.Time
	last   time.Time
	frames []Frame
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Record appends chunk. Safe for concurrent use; frames keep call order.
func (r *Recorder) Record(chunk string) {
	if chunk == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var after time.Duration
	if !r.last.IsZero() {
		after = max(now.Sub(r.last), 0)
	}
	r.last = now
	r.frames = append(r.frames, Frame{After: after, Data: chunk})
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Recording returns a copy of everything captured so far.
func (r *Recorder) Recording(rows, cols int) Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Recording{Rows: rows, Cols: cols, Frames: append([]Frame(nil), r.frames...)}
}
