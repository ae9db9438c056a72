package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"docterm/internal/processor"
	"docterm/internal/telemetry"
	"docterm/internal/term"
)

const EnvPrefix = "DOCTERM_"

// Config controls the engine and its surroundings.
type Config struct {
	Rows          int    `yaml:"rows" env:"ROWS"`
	Cols          int    `yaml:"cols" env:"COLS"`
	DisplayCols   int    `yaml:"display_cols" env:"DISPLAY_COLS"`
	AssistantName string `yaml:"assistant_name" env:"ASSISTANT_NAME"`

	IndicatorTimeout time.Duration `yaml:"indicator_timeout" env:"INDICATOR_TIMEOUT"`
	DiffInterval     time.Duration `yaml:"diff_interval" env:"DIFF_INTERVAL"`
	DedupWindow      int           `yaml:"dedup_window" env:"DEDUP_WINDOW"`

	DataDir  string `yaml:"data_dir" env:"DATA_DIR"`
	LogPath  string `yaml:"log_path" env:"LOG_PATH"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	Debug    bool   `yaml:"debug" env:"DEBUG"`

	UI      UIConfig      `yaml:"ui" envPrefix:"UI_"`
	History HistoryConfig `yaml:"history" envPrefix:"HISTORY_"`
}

type UIConfig struct {
	// Mode is plain, tui or off.
	Mode  string `yaml:"mode" env:"MODE"`
	Theme string `yaml:"theme" env:"THEME"`
	// MaxLines caps the viewer's document. Zero keeps everything.
	MaxLines int `yaml:"max_lines" env:"MAX_LINES"`
}

type HistoryConfig struct {
	Save bool `yaml:"save" env:"SAVE"`
}

func DefaultConfig() Config {
	tuning := processor.DefaultTuning()
	return Config{
		Rows:             term.DefaultRows,
		Cols:             term.DefaultCols,
		DisplayCols:      processor.DefaultDisplayCols,
		AssistantName:    processor.DefaultAssistantName,
		IndicatorTimeout: tuning.IndicatorTimeout,
		DiffInterval:     tuning.DiffInterval,
		DedupWindow:      tuning.DedupWindow,
		LogLevel:         "info",
		UI: UIConfig{
			Mode:     "plain",
			Theme:    "modern",
			MaxLines: 5000,
		},
		History: HistoryConfig{Save: true},
	}
}

// LoadConfig layers an optional YAML file and then DOCTERM_* environment
// variables over the defaults. The result is not validated.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, nil)
}

func loadConfig(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Rows < 3 || c.Cols < 10 {
		return fmt.Errorf("invalid screen size %dx%d", c.Cols, c.Rows)
	}
	if c.DisplayCols <= 0 {
		c.DisplayCols = processor.DefaultDisplayCols
	}
	c.AssistantName = strings.TrimSpace(c.AssistantName)
	if c.AssistantName == "" {
		c.AssistantName = processor.DefaultAssistantName
	}
	if c.IndicatorTimeout < 0 || c.DiffInterval < 0 || c.DedupWindow < 0 {
		return errors.New("invalid tuning: negative value")
	}
	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	c.UI.Mode = strings.ToLower(strings.TrimSpace(c.UI.Mode))
	switch c.UI.Mode {
	case "", "plain", "tui", "off":
	default:
		return fmt.Errorf("invalid ui mode %q", c.UI.Mode)
	}
	if c.UI.Mode == "" {
		c.UI.Mode = "plain"
	}
	switch c.UI.Theme {
	case "", "modern", "retro":
	default:
		return fmt.Errorf("invalid ui theme %q", c.UI.Theme)
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "modern"
	}
	if c.UI.MaxLines < 0 {
		c.UI.MaxLines = 0
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "docterm")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "events.log")
	}
	return nil
}

// ProcessorOptions maps the config onto engine options.
func (c Config) ProcessorOptions() processor.Options {
	return processor.Options{
		Rows:          c.Rows,
		Cols:          c.Cols,
		DisplayCols:   c.DisplayCols,
		AssistantName: c.AssistantName,
		Tuning: processor.Tuning{
			IndicatorTimeout: c.IndicatorTimeout,
			DiffInterval:     c.DiffInterval,
			DedupWindow:      c.DedupWindow,
		},
	}
}
