package states

import (
	"errors"
	"testing"

	"github.com/Faultbox/avg-player/pkg/geom"
)

type recordingState struct {
	name     string
	calls    *[]string
	enterErr error
	lastAct  *geom.Point
}

func (s *recordingState) record(call string) { *s.calls = append(*s.calls, s.name+"."+call) }

func (s *recordingState) Enter() error {
	s.record("enter")
	return s.enterErr
}

func (s *recordingState) Exit() error {
	s.record("exit")
	return nil
}

func (s *recordingState) Update(dt float64, act *geom.Point) error {
	s.record("update")
	s.lastAct = act
	return nil
}

func (s *recordingState) Render(projection geom.Mat4) error {
	s.record("render")
	return nil
}

func equalCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}

func TestManagerDefersChange(t *testing.T) {
	var calls []string
	a := &recordingState{name: "a", calls: &calls}
	b := &recordingState{name: "b", calls: &calls}

	m := NewManager()
	if err := m.Update(0.1, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Render(geom.Identity()); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 0 {
		t.Fatalf("empty manager should call nothing, got %v", calls)
	}

	m.Change(a)
	if m.Current() != nil {
		t.Fatal("change should wait for the next update")
	}
	act := geom.Pt(10, 20)
	if err := m.Update(0.1, &act); err != nil {
		t.Fatal(err)
	}
	if a.lastAct == nil || *a.lastAct != act {
		t.Errorf("activation not forwarded: %v", a.lastAct)
	}

	m.Change(b)
	if err := m.Update(0.1, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Render(geom.Identity()); err != nil {
		t.Fatal(err)
	}
	if m.Current() != b {
		t.Error("current state should be b")
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	equalCalls(t, calls, []string{
		"a.enter", "a.update",
		"a.exit", "b.enter", "b.update", "b.render",
		"b.exit",
	})
}

func TestManagerEnterError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := NewManager()
	m.Change(&recordingState{name: "a", calls: &calls, enterErr: boom})

	if err := m.Update(0.1, nil); !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want %v", err, boom)
	}
	equalCalls(t, calls, []string{"a.enter"})
}
