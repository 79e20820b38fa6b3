package buffer

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"
)

// History stores accepted inputs.
type History interface {
	// Strings returns all entries, oldest first.
	Strings() []string

	// Append adds an entry and persists it where supported.
	Append(entry string) error
}

// InMemoryHistory keeps entries in memory only.
type InMemoryHistory struct {
	mu      sync.Mutex
	entries []string
}

// NewInMemoryHistory creates a history preloaded with entries.
func NewInMemoryHistory(entries ...string) *InMemoryHistory {
	return &InMemoryHistory{entries: append([]string(nil), entries...)}
}

// Strings implements History.
func (h *InMemoryHistory) Strings() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Append implements History.
func (h *InMemoryHistory) Append(entry string) error {
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

// FileHistory persists entries to a file. Each entry is written as a
// "# <timestamp>" header followed by its lines prefixed with "+".
type FileHistory struct {
	InMemoryHistory
	path string
	now  func() time.Time
}

// NewFileHistory loads the history at path. A missing file is not an error.
func NewFileHistory(path string) (*FileHistory, error) {
	h := &FileHistory{path: path, now: time.Now}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var lines []string
	flush := func() {
		if lines != nil {
			h.entries = append(h.entries, strings.Join(lines, "\n"))
		}
		lines = nil
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, "+"); ok {
			lines = append(lines, rest)
			continue
		}
		flush()
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return h, nil
}

// Path returns the backing file.
func (h *FileHistory) Path() string { return h.path }

// Append implements History. The entry is kept in memory even when
// writing the file fails.
func (h *FileHistory) Append(entry string) error {
	_ = h.InMemoryHistory.Append(entry)

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n# %s\n", h.now().Format("2006-01-02 15:04:05.000000"))
	for _, line := range strings.Split(entry, "\n") {
		b.WriteString("+")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("append history: %w", err)
	}
	return f.Close()
}
