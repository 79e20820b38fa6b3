package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PGLINE_"

// setter stores an environment value into a setting.
type setter func(c *Config, value string) error

// settings maps a config path to its setter.
var settings = map[string]setter{
	"input.ttimeout": func(c *Config, v string) error {
		return setDuration(&c.Input.TTimeout, v)
	},
	"input.timeout": func(c *Config, v string) error {
		return setDuration(&c.Input.Timeout, v)
	},
	"output.color_depth": func(c *Config, v string) error {
		c.Output.ColorDepth = v
		return nil
	},
	"output.mouse": func(c *Config, v string) error {
		return setBool(&c.Output.Mouse, v)
	},
	"output.bracketed_paste": func(c *Config, v string) error {
		return setBool(&c.Output.BracketedPaste, v)
	},
	"output.title": func(c *Config, v string) error {
		c.Output.Title = v
		return nil
	},
	"output.full_screen": func(c *Config, v string) error {
		return setBool(&c.Output.FullScreen, v)
	},
	"editing.history_file": func(c *Config, v string) error {
		c.Editing.HistoryFile = v
		return nil
	},
	"editing.keymap_file": func(c *Config, v string) error {
		c.Editing.KeymapFile = v
		return nil
	},
	"editing.lua_file": func(c *Config, v string) error {
		c.Editing.LuaFile = v
		return nil
	},
	"editing.erase_when_done": func(c *Config, v string) error {
		return setBool(&c.Editing.EraseWhenDone, v)
	},
	"log.file": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	"log.level": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
	"log.max_size_mb": func(c *Config, v string) error {
		return setInt(&c.Log.MaxSizeMB, v)
	},
	"log.max_backups": func(c *Config, v string) error {
		return setInt(&c.Log.MaxBackups, v)
	},
}

// EnvLoader applies environment variables to a Config.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "PGLINE_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "PGLINE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// WithEnviron makes the loader read env (KEY=value entries) instead of
// the process environment.
func (l *EnvLoader) WithEnviron(env []string) *EnvLoader {
	vars := make(map[string]string, len(env))
	for _, kv := range env {
		if name, value, ok := strings.Cut(kv, "="); ok {
			vars[name] = value
		}
	}
	l.lookup = func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
	l.environ = func() []string { return env }
	return l
}

// defaultEnvMapping returns the short names that do not follow the
// SECTION_KEY scheme.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"PGLINE_COLOR_DEPTH": "output.color_depth",
		"PGLINE_MOUSE":       "output.mouse",
		"PGLINE_KEYMAP":      "editing.keymap_file",
		"PGLINE_LUA":         "editing.lua_file",
		"PGLINE_HISTORY":     "editing.history_file",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Apply stores every recognised variable into c. Mapped names are applied
// first; any other prefixed name is read as SECTION_KEY, so
// PGLINE_LOG_LEVEL sets log.level. Empty values are treated as set.
func (l *EnvLoader) Apply(c *Config) error {
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			if err := l.set(c, env, path, val); err != nil {
				return err
			}
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		path, ok := l.envToPath(name)
		if !ok {
			continue
		}
		if err := l.set(c, name, path, value); err != nil {
			return err
		}
	}
	return nil
}

func (l *EnvLoader) set(c *Config, env, path, value string) error {
	fn, ok := settings[path]
	if !ok {
		return fmt.Errorf("%s: %w %q", env, ErrUnknownSetting, path)
	}
	if err := fn(c, value); err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	return nil
}

// envToPath converts PGLINE_LOG_MAX_SIZE_MB to log.max_size_mb. Names
// that match no setting are ignored.
func (l *EnvLoader) envToPath(env string) (string, bool) {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return "", false
	}
	path := section + "." + key
	_, known := settings[path]
	return path, known
}

// parseBool accepts the spellings people use in shells.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, s)
}

func setBool(dst *bool, s string) error {
	v, err := parseBool(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt(dst *int, s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
	}
	*dst = v
	return nil
}

func setDuration(dst *Duration, s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, s)
	}
	dst.Duration = v
	return nil
}
