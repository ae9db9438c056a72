package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel accepts debug, info, warn or error. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// JSONLogger writes one JSON object per line: ts, level, msg and fields.
type JSONLogger struct {
	sink   *sink
	min    Level
	fields map[string]any
	now    func() time.Time
}

type sink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return NewJSONLoggerTo(io.Discard), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{sink: &sink{w: f}, now: time.Now}, nil
}

// NewJSONLoggerTo logs to w. Close does not close w.
func NewJSONLoggerTo(w io.Writer) *JSONLogger {
	return &JSONLogger{sink: &sink{w: nopCloser{Writer: w}}, now: time.Now}
}

// SetLevel drops entries below min.
func (l *JSONLogger) SetLevel(min Level) {
	if l != nil {
		l.min = min
	}
}

// With returns a logger that adds fields to every entry. It shares the
// underlying writer with l.
func (l *JSONLogger) With(fields map[string]any) *JSONLogger {
	if l == nil {
		return nil
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	child := *l
	child.fields = merged
	return &child
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	l.log(LevelDebug, msg, fields)
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log(LevelInfo, msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]any) {
	l.log(LevelWarn, msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log(LevelError, msg, fields)
}

func (l *JSONLogger) log(level Level, msg string, fields map[string]any) {
	if l == nil || l.sink == nil || level < l.min {
		return
	}
	entry := make(map[string]any, len(l.fields)+len(fields)+3)
	maps.Copy(entry, l.fields)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":    entry["ts"],
			"level": "error",
			"msg":   "telemetry.marshal_failed",
			"error": err.Error(),
			"orig":  msg,
		})
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
