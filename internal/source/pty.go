package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"
)

// drainGrace bounds how long the reader may keep draining buffered output
// after the command exits.
const drainGrace = 500 * time.Millisecond

type PTYOptions struct {
	Command []string
	Dir     string
	Env     []string
	Rows    int
	Cols    int
	Logger  *clog.Logger
}

// PTY runs a command under a pseudo terminal of a fixed size.
type PTY struct {
	opts PTYOptions
	log  *clog.Logger

	mu   sync.Mutex
	ioMu sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File

	totalOutputBytes atomic.Int64
}

func NewPTY(opts PTYOptions) *PTY {
	if opts.Rows < 1 {
		opts.Rows = 24
	}
	if opts.Cols < 1 {
		opts.Cols = 80
	}
	log := opts.Logger
	if log == nil {
		log = clog.New(io.Discard)
	}
	return &PTY{opts: opts, log: log}
}

func (p *PTY) Name() string {
	return "pty:" + strings.Join(p.opts.Command, " ")
}

func (p *PTY) Run(ctx context.Context, emit func(string)) error {
	command := p.opts.Command
	if len(command) == 0 {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if p.opts.Dir != "" {
		cmd.Dir = p.opts.Dir
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, p.opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(p.opts.Rows), Cols: uint16(p.opts.Cols)})
	if err != nil {
		return fmt.Errorf("start %s: %w", command[0], err)
	}
	p.mu.Lock()
	p.cmd = cmd
	p.ptmx = ptmx
	p.mu.Unlock()
	p.log.Debug("pty.start", "cmd", command, "pid", cmd.Process.Pid)

	drained := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(drained)
		return p.readLoop(ptmx, emit)
	})
	g.Go(func() error {
		waitErr := cmd.Wait()
		select {
		case <-drained:
		case <-time.After(drainGrace):
		}
		p.closePTY()
		if ctx.Err() != nil {
			return nil
		}
		if waitErr != nil {
			return fmt.Errorf("%s: %w", command[0], waitErr)
		}
		return nil
	})
	err = g.Wait()
	p.log.Debug("pty.exit", "err", err, "bytes", p.totalOutputBytes.Load())
	return err
}

func (p *PTY) readLoop(r io.Reader, emit func(string)) error {
	dec := NewDecoder()
	buf := make([]byte, 8192)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			p.totalOutputBytes.Add(int64(n))
			if chunk := dec.Decode(buf[:n]); chunk != "" {
				emit(chunk)
			}
		}
		if err != nil {
			if rest := dec.Flush(); rest != "" {
				emit(rest)
			}
			if isClosedRead(err) {
				return nil
			}
			return fmt.Errorf("read pty: %w", err)
		}
	}
}

// A PTY master reports EIO once the child side is gone.
func isClosedRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.EIO)
}

// Send writes input to the command's terminal.
func (p *PTY) Send(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	p.mu.Lock()
	ptmx := p.ptmx
	p.mu.Unlock()
	if ptmx == nil {
		return ErrNotRunning
	}
	p.ioMu.Lock()
	defer p.ioMu.Unlock()
	_, err := ptmx.Write(data)
	return err
}

// Stop kills the command. Run then returns.
func (p *PTY) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return nil
}

// TotalOutputBytes returns a monotonic counter of raw bytes read.
func (p *PTY) TotalOutputBytes() int64 {
	return p.totalOutputBytes.Load()
}

func (p *PTY) closePTY() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ptmx != nil {
		_ = p.ptmx.Close()
		p.ptmx = nil
	}
}
