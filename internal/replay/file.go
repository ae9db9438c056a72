package replay

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a recording. Files ending in .ttyrec are decoded as ttyrec;
// anything else is YAML.
func Load(path string) (Recording, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".ttyrec") {
		frames, err := DecodeTTYRec(b)
		if err != nil {
			return Recording{}, fmt.Errorf("decode %s: %w", path, err)
		}
		return Recording{Frames: frames}, nil
	}
	return Parse(b)
}

// Parse decodes a YAML recording.
func Parse(b []byte) (Recording, error) {
	var rec Recording
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("parse recording: %w", err)
	}
	if len(rec.Frames) == 0 {
		return Recording{}, ErrNoFrames
	}
	for i, f := range rec.Frames {
		if f.After < 0 {
			return Recording{}, fmt.Errorf("invalid recording: frame %d has negative delay", i)
		}
	}
	return rec, nil
}

// Save writes rec as YAML, creating parent directories.
func Save(path string, rec Recording) error {
	if len(rec.Frames) == 0 {
		return ErrNoFrames
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
