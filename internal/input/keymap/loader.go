package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a keymap file encoding.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// LoadFile reads a keymap, choosing the decoder from the extension.
func LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := Load(f, format)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	km.Source = path
	return km, nil
}

// Load decodes a keymap. Unknown fields are rejected.
func Load(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	km := &Keymap{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(km); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: yamlLine(err), Err: err}
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(km); err != nil {
			perr := &ParseError{Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, _ = derr.Position()
			}
			return nil, perr
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(km); err != nil {
			return nil, &ParseError{Line: jsonLine(data, err), Err: err}
		}
	}
	return km, nil
}

// yamlLine extracts the line from messages like "yaml: line 3: ...".
func yamlLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}

func jsonLine(data []byte, err error) int {
	var offset int64
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syn):
		offset = syn.Offset
	case errors.As(err, &typ):
		offset = typ.Offset
	default:
		return 0
	}
	offset = min(offset, int64(len(data)))
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// Encode writes the keymap in the given format.
func (k *Keymap) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(k); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(k)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(k)
}

// SaveFile writes the keymap, choosing the encoder from the extension.
func (k *Keymap) SaveFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := k.Encode(&buf, format); err != nil {
		return fmt.Errorf("encoding keymap: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}
	return nil
}

// Loader loads keymap files from search directories.
type Loader struct {
	searchPaths []string
}

// NewLoader creates a loader with no search paths.
func NewLoader() *Loader {
	return &Loader{}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadAll loads every keymap file found in the search paths, in path
// order and by file name within a directory. Files that fail to load are
// reported together; the others are still returned.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	var keymaps []*Keymap
	var errs []error
	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, err := FormatFromPath(e.Name()); err == nil {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			km, err := LoadFile(filepath.Join(dir, name))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			keymaps = append(keymaps, km)
		}
	}
	return keymaps, errors.Join(errs...)
}

// LoadAndCompile loads every keymap and merges the compiled registries,
// later files taking precedence.
func (l *Loader) LoadAndCompile(res Resolver) (Bindings, error) {
	keymaps, loadErr := l.LoadAll()
	parts := make([]Bindings, 0, len(keymaps))
	errs := []error{loadErr}
	for _, km := range keymaps {
		reg, err := km.Compile(res)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parts = append(parts, reg)
	}
	return Merge(parts...), errors.Join(errs...)
}
