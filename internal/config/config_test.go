package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/renderer/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50*time.Millisecond, cfg.Input.TTimeout.Duration)
	assert.Equal(t, time.Second, cfg.Input.Timeout.Duration)
	assert.True(t, cfg.Output.BracketedPaste)

	_, set, err := cfg.ColorDepth()
	require.NoError(t, err)
	assert.False(t, set, "default color depth should be detected")
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.toml", `
[input]
ttimeout = "20ms"

[output]
color_depth = "24"
mouse = true
title = "pgline"

[editing]
keymap_file = "/etc/pgline/keys.toml"
erase_when_done = true

[log]
level = "debug"
max_backups = 7
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Input.TTimeout.Duration)
	assert.Equal(t, time.Second, cfg.Input.Timeout.Duration, "unset keys keep their default")
	assert.True(t, cfg.Output.Mouse)
	assert.Equal(t, "pgline", cfg.Output.Title)
	assert.Equal(t, "/etc/pgline/keys.toml", cfg.Editing.KeymapFile)
	assert.True(t, cfg.Editing.EraseWhenDone)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())
	assert.Equal(t, 7, cfg.Log.MaxBackups)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)

	depth, set, err := cfg.ColorDepth()
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, core.Depth24Bit, depth)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[input]\nttimeout = \n")
	_, err := Load(path)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %T", err)
	assert.Equal(t, path, pe.Path)
	assert.Positive(t, pe.Line)
}

func TestLoadUnknownSetting(t *testing.T) {
	path := writeFile(t, "extra.toml", "[output]\ncolour_depth = \"8\"\n")
	_, err := Load(path)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Contains(t, pe.Message, "colour_depth")
}

func TestLoadBadDuration(t *testing.T) {
	path := writeFile(t, "dur.toml", "[input]\ntimeout = \"soon\"\n")
	_, err := Load(path)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe), "got %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		setting string
	}{
		{"negative ttimeout", func(c *Config) { c.Input.TTimeout.Duration = -time.Second }, "input.ttimeout"},
		{"negative timeout", func(c *Config) { c.Input.Timeout.Duration = -1 }, "input.timeout"},
		{"color depth", func(c *Config) { c.Output.ColorDepth = "16" }, "output.color_depth"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log size", func(c *Config) { c.Log.MaxSizeMB = -1 }, "log.max_size_mb"},
		{"log backups", func(c *Config) { c.Log.MaxBackups = -2 }, "log.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.setting, ve.Setting)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Output.ColorDepth = "2"
	cfg.Log.Level = "shout"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.color_depth")
	assert.Contains(t, err.Error(), "log.level")
}

func TestEnvOverrides(t *testing.T) {
	cfg := Default()
	err := NewEnvLoader(EnvPrefix).WithEnviron([]string{
		"PGLINE_COLOR_DEPTH=4",
		"PGLINE_MOUSE=yes",
		"PGLINE_KEYMAP=/tmp/keys.yaml",
		"PGLINE_LOG_LEVEL=error",
		"PGLINE_LOG_FILE=/tmp/pgline.log",
		"PGLINE_LOG_MAX_SIZE_MB=25",
		"PGLINE_INPUT_TIMEOUT=300ms",
		"PGLINE_OUTPUT_FULL_SCREEN=on",
		"PGLINE_UNRELATED=1",
		"HOME=/root",
	}).Apply(cfg)
	require.NoError(t, err)

	assert.Equal(t, "4", cfg.Output.ColorDepth)
	assert.True(t, cfg.Output.Mouse)
	assert.Equal(t, "/tmp/keys.yaml", cfg.Editing.KeymapFile)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/tmp/pgline.log", cfg.Log.File)
	assert.Equal(t, 25, cfg.Log.MaxSizeMB)
	assert.Equal(t, 300*time.Millisecond, cfg.Input.Timeout.Duration)
	assert.True(t, cfg.Output.FullScreen)
}

func TestEnvBadValue(t *testing.T) {
	tests := []string{
		"PGLINE_MOUSE=maybe",
		"PGLINE_LOG_MAX_BACKUPS=many",
		"PGLINE_INPUT_TTIMEOUT=fast",
	}
	for _, kv := range tests {
		t.Run(kv, func(t *testing.T) {
			err := NewEnvLoader(EnvPrefix).WithEnviron([]string{kv}).Apply(Default())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.True(t, strings.HasPrefix(err.Error(), strings.SplitN(kv, "=", 2)[0]))
		})
	}
}

func TestEnvCustomMapping(t *testing.T) {
	l := NewEnvLoader(EnvPrefix).WithEnviron([]string{"PGLINE_TITLE=db"})
	l.AddMapping("PGLINE_TITLE", "output.title")
	cfg := Default()
	require.NoError(t, l.Apply(cfg))
	assert.Equal(t, "db", cfg.Output.Title)

	l.AddMapping("PGLINE_BOGUS", "output.bogus")
	l = l.WithEnviron([]string{"PGLINE_BOGUS=x"})
	assert.ErrorIs(t, l.Apply(cfg), ErrUnknownSetting)
}

func TestLoadAppliesEnvironment(t *testing.T) {
	t.Setenv("PGLINE_LOG_LEVEL", "warn")
	path := writeFile(t, "config.toml", "[log]\nlevel = \"debug\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, logging.LevelWarn, cfg.LogLevel())
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Title = "sql"
	cfg.Input.TTimeout.Duration = 75 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "75ms")

	got := Default()
	require.NoError(t, got.Decode(&buf))
	assert.Equal(t, cfg, got)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandPath("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}

func TestLoggerWritesFile(t *testing.T) {
	cfg := Default()
	_, closer := cfg.Logger()
	assert.Nil(t, closer)

	cfg.Log.File = filepath.Join(t.TempDir(), "pgline.log")
	log, closer := cfg.Logger()
	require.NotNil(t, closer)
	log.Info("hello %d", 42)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello 42")
}
