package macro

import (
	"errors"
	"testing"

	"github.com/dshills/pgline/internal/input/key"
)

func presses(s string) []key.KeyPress {
	var out []key.KeyPress
	for _, r := range s {
		out = append(out, key.NewKeyPress(key.RuneKey(r), ""))
	}
	return out
}

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder()

	r.Record(presses("ignored"))
	if r.IsRecording() {
		t.Fatal("new recorder should not be recording")
	}
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start() = %v, want ErrAlreadyRecording", err)
	}

	r.Record(presses("ab"))
	r.Record(presses("c"))
	n, err := r.Stop()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Stop() recorded %d presses, want 3", n)
	}

	got := r.Last()
	if len(got) != 3 || got[0].Data != "a" || got[2].Data != "c" {
		t.Errorf("Last() = %v", got)
	}

	got[0] = key.NewKeyPress(key.RuneKey('z'), "")
	if r.Last()[0].Data != "a" {
		t.Error("Last() returned shared storage")
	}
}

func TestRecorderStopWithoutStart(t *testing.T) {
	r := NewRecorder()
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop() = %v, want ErrNotRecording", err)
	}
}

func TestRecorderMaxLength(t *testing.T) {
	r := NewRecorder()
	r.maxLength = 2
	_ = r.Start()
	r.Record(presses("abc"))
	r.Record(presses("d"))
	if n, _ := r.Stop(); n != 2 {
		t.Errorf("recorded %d presses, want 2", n)
	}
}

func TestRecorderClear(t *testing.T) {
	r := NewRecorder()
	r.Set(presses("xy"))
	_ = r.Start()
	r.Clear()
	if r.IsRecording() || r.Last() != nil {
		t.Error("Clear() should drop recording and macro")
	}
}
