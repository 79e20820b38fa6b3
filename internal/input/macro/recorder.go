package macro

import (
	"errors"
	"sync"

	"github.com/dshills/pgline/internal/input/key"
)

// Errors returned by the recorder.
var (
	ErrAlreadyRecording = errors.New("macro recording already in progress")
	ErrNotRecording     = errors.New("no macro recording in progress")
)

// DefaultMaxLength bounds a single recording.
const DefaultMaxLength = 10000

// Recorder records key presses for macro playback.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	current   []key.KeyPress
	last      []key.KeyPress
	maxLength int
}

// NewRecorder creates a recorder with no stored macro.
func NewRecorder() *Recorder {
	return &Recorder{maxLength: DefaultMaxLength}
}

// Start begins a new recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.current = nil
	return nil
}

// Stop ends the recording and stores it as the last macro. It returns the
// number of recorded key presses.
func (r *Recorder) Stop() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0, ErrNotRecording
	}
	r.recording = false
	r.last = r.current
	r.current = nil
	return len(r.last), nil
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Record appends presses to the recording in progress. Presses beyond the
// maximum length are dropped.
func (r *Recorder) Record(presses []key.KeyPress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	room := r.maxLength - len(r.current)
	if room <= 0 {
		return
	}
	if len(presses) > room {
		presses = presses[:room]
	}
	r.current = append(r.current, presses...)
}

// Last returns a copy of the last completed macro.
func (r *Recorder) Last() []key.KeyPress {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.last) == 0 {
		return nil
	}
	out := make([]key.KeyPress, len(r.last))
	copy(out, r.last)
	return out
}

// Set replaces the last macro.
func (r *Recorder) Set(presses []key.KeyPress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = append([]key.KeyPress(nil), presses...)
}

// Clear forgets the stored macro and aborts any recording.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.current = nil
	r.last = nil
}
