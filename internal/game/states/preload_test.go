package states

import (
	"errors"
	"testing"
)

type countingLoader struct {
	files map[string][]byte
	reads []string
}

func (l *countingLoader) Load(name string) ([]byte, error) {
	l.reads = append(l.reads, name)
	if data, ok := l.files[name]; ok {
		return data, nil
	}
	return nil, errors.New("not found: " + name)
}

func TestPreloadReadsInBatchesThenChanges(t *testing.T) {
	var calls []string
	next := &recordingState{name: "story", calls: &calls}
	loader := &countingLoader{files: map[string][]byte{
		"bg/a.png":    {1},
		"bg/b.png":    {2},
		"music/a.ogg": {3},
	}}

	m := NewManager()
	s := NewPreloadState(PreloadConfig{
		Paths:    []string{"bg/a.png", "bg/missing.png", "bg/b.png", "music/a.ogg"},
		PerFrame: 3,
	}, loader, m, next, nil)
	m.Change(s)

	if err := m.Update(0.016, nil); err != nil {
		t.Fatal(err)
	}
	if len(loader.reads) != 3 {
		t.Fatalf("first frame read %d files, want 3", len(loader.reads))
	}
	if s.Progress != 0.75 {
		t.Errorf("progress = %v, want 0.75", s.Progress)
	}
	if s.IsComplete() {
		t.Error("should not be complete after the first batch")
	}

	if err := m.Update(0.016, nil); err != nil {
		t.Fatal(err)
	}
	if !s.IsComplete() || s.Progress != 1 {
		t.Errorf("complete = %v, progress = %v", s.IsComplete(), s.Progress)
	}
	if s.Loaded != 3 || s.Failed != 1 {
		t.Errorf("loaded %d failed %d, want 3 and 1", s.Loaded, s.Failed)
	}
	if m.Current() != s {
		t.Fatal("change should take effect on the following update")
	}

	if err := m.Update(0.016, nil); err != nil {
		t.Fatal(err)
	}
	if m.Current() != next {
		t.Fatal("preload should hand over to the next state")
	}
	equalCalls(t, calls, []string{"story.enter", "story.update"})
}

func TestPreloadWithoutPaths(t *testing.T) {
	var calls []string
	next := &recordingState{name: "story", calls: &calls}
	m := NewManager()
	s := NewPreloadState(PreloadConfig{}, &countingLoader{}, m, next, nil)
	m.Change(s)

	for i := 0; i < 2; i++ {
		if err := m.Update(0.016, nil); err != nil {
			t.Fatal(err)
		}
	}
	if s.Progress != 1 {
		t.Errorf("progress = %v, want 1", s.Progress)
	}
	if m.Current() != next {
		t.Error("an empty preload should finish immediately")
	}
}
