package devtools

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"docterm/internal/processor"
	"docterm/internal/replay"
)

var ErrUnknownScenario = errors.New("devtools: unknown demo scenario")

// Manager serves the built-in demo recordings.
type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// Names lists the scenarios in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(prerecordedTTYRecBase64))
	for name := range prerecordedTTYRecBase64 {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Recording decodes a scenario. Scenarios are drawn on an 80x24 screen with
// a tmux bar on the last row.
func (m *Manager) Recording(name string) (replay.Recording, error) {
	b64, ok := prerecordedTTYRecBase64[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return replay.Recording{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return replay.Recording{}, err
	}
	frames, err := replay.DecodeTTYRec(data)
	if err != nil {
		return replay.Recording{}, fmt.Errorf("scenario %s: %w", name, err)
	}
	return replay.Recording{Rows: 24, Cols: 80, Note: "demo " + name, Frames: frames}, nil
}

// State is a debugging dump of a processor after a run.
type State struct {
	Scenario  string               `json:"scenario"`
	Screen    []string             `json:"screen"`
	Bar       *processor.BarUpdate `json:"bar,omitempty"`
	Assistant bool                 `json:"assistant"`
	Stats     processor.Stats      `json:"stats"`
	WrittenAt time.Time            `json:"written_at"`
}

// CaptureState snapshots proc for WriteState.
func CaptureState(scenario string, proc *processor.Processor) State {
	st := State{
		Scenario:  scenario,
		Screen:    proc.ScreenText(),
		Assistant: proc.AssistantMode(),
		Stats:     proc.Stats(),
		WrittenAt: time.Now().UTC(),
	}
	if bar, ok := proc.Bar(); ok {
		st.Bar = &bar
	}
	return st
}

// WriteState writes st as dev_state.json under dir and returns the path.
func (m *Manager) WriteState(dir string, st State) (string, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".cache", "docterm")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "dev_state.json")
	return path, os.WriteFile(path, append(b, '\n'), 0o644)
}

var prerecordedTTYRecBase64 = map[string]string{
	"shell":     "APFTZQAAAACnAQAAG1tIG1syShtbMTsxSBtbMzJtdXNlckBob3N0G1swbTp+L3dvcmskIGxzG1tLG1syNDsxSBtbMzBtG1s0Mm1bMF0gMDpjbGF1ZGUtIDE6enNoKhtbSxtbMG0bWzE7MjFIG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttAPFTZcDUAQBBAAAADQpNYWtlZmlsZSAgZ28ubW9kICBnby5zdW0gIGludGVybmFsDQobWzMybXVzZXJAaG9zdBtbMG06fi93b3JrJCAA8VNlQO8HAAoAAABnaXQgc3RhdHVzAPFTZSCDDABUAAAADQpPbiBicmFuY2ggbWFpbg0Kbm90aGluZyB0byBjb21taXQsIHdvcmtpbmcgdHJlZSBjbGVhbg0KG1szMm11c2VyQGhvc3QbWzBtOn4vd29yayQg",
	"assistant": "APFTZQAAAACdAgAAG1tIG1syShtbMTsxSD4gZml4IHRoZSBmbGFreSBjYWNoZSB0ZXN0G1tLG1szOzFI4pePIFJlYWRpbmcgaW50ZXJuYWwvY2FjaGUvY2FjaGVfdGVzdC5nbxtbSxtbNjsxSOKctiBUaGlua2luZ+KApiAoZXNjIHRvIGludGVycnVwdCkbW0sbWzIwOzFI4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSAG1tLG1syMTsxSOKdryAbW0sbWzIyOzFI4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSA4pSAG1tLG1syNDsxSBtbMzBtG1s0Mm1bMF0gMDpjbGF1ZGUqIDE6enNoLRtbSxtbMG0bWzIxOzNIG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttAPFTZeCTBAArAAAAG1s2OzFI4py7IFRoaW5raW5n4oCmIChlc2MgdG8gaW50ZXJydXB0KRtbSwDxU2XAJwkAKwAAABtbNjsxSOKcvSBUaGlua2luZ+KApiAoZXNjIHRvIGludGVycnVwdCkbW0sB8VNlQA0DAJsCAAAbW0gbWzJKG1sxOzFIPiBmaXggdGhlIGZsYWt5IGNhY2hlIHRlc3QbW0sbWzM7MUjil48gUmVhZGluZyBpbnRlcm5hbC9jYWNoZS9jYWNoZV90ZXN0LmdvG1tLG1s1OzFI4pePIFRoZSB0ZXN0IHJhY2VkIHRoZSBiYWNrZ3JvdW5kIGZsdXNoLiBJdCBub3cgd2FpdHMbW0sbWzY7MUggIG9uIEZsdXNoIGJlZm9yZSBhc3NlcnRpbmcuG1tLG1syMDsxSOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgBtbSxtbMjE7MUjina8gG1tLG1syMjsxSOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgOKUgBtbSxtbMjQ7MUgbWzMwbRtbNDJtWzBdIDA6Y2xhdWRlKiAxOnpzaC0bW0sbWzBtG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1ttG1tt",
	"switch":    "APFTZQAAAACbAgAAG1tIG1syShtbMTsxSD4gc3VtbWFyaXplIHRoZSBkaWZmG1tLG1szOzFI4pePIFR3byBmaWxlcyBjaGFuZ2VkIGluIGludGVybmFsL3N0YXRlLhtbSxtbMjA7MUjilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIAbW0sbWzIxOzFI4p2vIBtbSxtbMjI7MUjilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIDilIAbW0sbWzI0OzFIG1szMG0bWzQybVswXSAwOmNsYXVkZSogMTp6c2gtG1tLG1swbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbRtbbQDxU2UgoQcApQEAABtbSBtbMkobWzE7MUgbWzMybXVzZXJAaG9zdBtbMG06fi93b3JrJCBnaXQgbG9nIC0tb25lbGluZSAtMRtbSxtbMjsxSDNmMmMxYWEgc3RhdGU6IHJlY29yZCB3aW5kb3cgZXZlbnRzG1tLG1syNDsxSBtbMzBtG1s0Mm1bMF0gMDpjbGF1ZGUtIDE6enNoKhtbSxtbMG0bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20bW20=",
}
