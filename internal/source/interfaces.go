package source

import (
	"context"
	"errors"
)

var (
	ErrEmptyCommand = errors.New("source: command is empty")
	ErrReadOnly     = errors.New("source: input not supported")
	ErrNotRunning   = errors.New("source: not running")
)

// Source produces decoded output chunks in arrival order.
type Source interface {
	// Name describes the source for logs and the session index.
	Name() string
	// Run blocks, calling emit from a single goroutine, until the source is
	// exhausted or ctx is done.
	Run(ctx context.Context, emit func(chunk string)) error
	// Send writes raw input bytes to the remote side.
	Send(data []byte) error
}
