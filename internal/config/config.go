package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/renderer/core"
)

// ColorDepthAuto leaves the color depth to terminal detection.
const ColorDepthAuto = "auto"

// Config holds every pgline setting.
type Config struct {
	Input   InputConfig   `toml:"input"`
	Output  OutputConfig  `toml:"output"`
	Editing EditingConfig `toml:"editing"`
	Log     LogConfig     `toml:"log"`
}

// InputConfig holds key input settings.
type InputConfig struct {
	// TTimeout is how long the parser waits before a lone escape byte is
	// taken to be the escape key.
	TTimeout Duration `toml:"ttimeout"`

	// Timeout is how long the key processor waits for the rest of a
	// multi-key binding.
	Timeout Duration `toml:"timeout"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	// ColorDepth is "auto", "1", "4", "8" or "24".
	ColorDepth     string `toml:"color_depth"`
	Mouse          bool   `toml:"mouse"`
	BracketedPaste bool   `toml:"bracketed_paste"`
	Title          string `toml:"title"`
	FullScreen     bool   `toml:"full_screen"`
}

// EditingConfig holds line editing settings.
type EditingConfig struct {
	HistoryFile   string `toml:"history_file"`
	KeymapFile    string `toml:"keymap_file"`
	LuaFile       string `toml:"lua_file"`
	EraseWhenDone bool   `toml:"erase_when_done"`
}

// LogConfig holds log file settings. An empty File disables logging.
type LogConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Duration is a time.Duration written as a string such as "50ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			TTimeout: Duration{50 * time.Millisecond},
			Timeout:  Duration{time.Second},
		},
		Output: OutputConfig{
			ColorDepth:     ColorDepthAuto,
			BracketedPaste: true,
		},
		Editing: EditingConfig{
			HistoryFile: "~/.config/pgline/history",
			KeymapFile:  "~/.config/pgline/keys.yaml",
			LuaFile:     "~/.config/pgline/init.lua",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pgline", "config.toml")
}

// Load returns the defaults overlaid with the file at path and then the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
				return nil, err
			}
		}
	}
	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Decode overlays the TOML document read from r onto c. Keys that do not
// name a setting are rejected.
func (c *Config) Decode(r io.Reader) error {
	return c.decode("<reader>", r)
}

func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return parseError(source, err)
	}
	return nil
}

func parseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	var derr *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		first := strict.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown setting " + strings.Join(first.Key(), ".")
	case errors.As(err, &derr):
		pe.Line, pe.Column = derr.Position()
	}
	return pe
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	var errs []error
	if c.Input.TTimeout.Duration < 0 {
		errs = append(errs, &ValidationError{"input.ttimeout", c.Input.TTimeout, "must not be negative"})
	}
	if c.Input.Timeout.Duration < 0 {
		errs = append(errs, &ValidationError{"input.timeout", c.Input.Timeout, "must not be negative"})
	}
	if _, _, err := c.ColorDepth(); err != nil {
		errs = append(errs, &ValidationError{"output.color_depth", c.Output.ColorDepth, "must be auto, 1, 4, 8 or 24"})
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{"log.level", c.Log.Level, "must be debug, info, warn or error"})
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, &ValidationError{"log.max_size_mb", c.Log.MaxSizeMB, "must not be negative"})
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, &ValidationError{"log.max_backups", c.Log.MaxBackups, "must not be negative"})
	}
	return errors.Join(errs...)
}

// ColorDepth returns the configured depth. set is false when the depth
// should be detected from the terminal.
func (c *Config) ColorDepth() (depth core.ColorDepth, set bool, err error) {
	if c.Output.ColorDepth == "" || strings.EqualFold(c.Output.ColorDepth, ColorDepthAuto) {
		return core.DefaultColorDepth, false, nil
	}
	depth, err = core.ParseColorDepth(c.Output.ColorDepth)
	if err != nil {
		return core.DefaultColorDepth, false, err
	}
	return depth, true, nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Logger opens the configured log file. Without a file it returns a
// logger that discards everything and a nil closer.
func (c *Config) Logger() (*logging.Logger, io.Closer) {
	if c.Log.File == "" {
		return logging.Nop(), nil
	}
	return logging.NewFile(logging.FileConfig{
		Path:       ExpandPath(c.Log.File),
		Level:      c.LogLevel(),
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	})
}

// ExpandPath replaces a leading "~/" with the home directory.
func ExpandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
