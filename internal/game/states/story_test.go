package states

import (
	"testing"

	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/script"
	"github.com/Faultbox/avg-player/pkg/geom"
)

type stubDrawable struct {
	kind     dialogue.LayerKind
	bounds   geom.Rect
	draws    int
	released bool
}

func (d *stubDrawable) Kind() dialogue.LayerKind { return d.kind }
func (d *stubDrawable) SetAlpha(float32) {}
func (d *stubDrawable) SetRevealRatio(float32) {}
func (d *stubDrawable) Bounds() geom.Rect { return d.bounds }
func (d *stubDrawable) Draw(geom.Mat4) { d.draws++ }
func (d *stubDrawable) Release() { d.released = true }

type stubLayers struct {
	created []*stubDrawable
}

func (f *stubLayers) CreateImageLayer(rect geom.Rect, depth float32, tint geom.Color, path string) (dialogue.Drawable, error) {
	d := &stubDrawable{kind: dialogue.ImageLayer, bounds: rect}
	f.created = append(f.created, d)
	return d, nil
}

func (f *stubLayers) CreateTextLayer(anchor geom.Point, depth float32, text string, reveal float32, tint geom.Color, font dialogue.FontSpec) (dialogue.Drawable, error) {
	d := &stubDrawable{kind: dialogue.TextLayer, bounds: geom.Rect{X: anchor.X, Y: anchor.Y, W: 100, H: 40}}
	f.created = append(f.created, d)
	return d, nil
}

func TestStoryStateLifecycle(t *testing.T) {
	story, err := script.New([]script.Beat{
		{Background: script.Set("bg/room.png"), Body: script.Text("Hello.")},
	})
	if err != nil {
		t.Fatal(err)
	}
	layers := &stubLayers{}
	s := NewStoryState(story, dialogue.Deps{Layers: layers}, dialogue.DefaultOptions())

	if err := s.Update(0.016, nil); err != nil {
		t.Fatal(err)
	}
	if len(layers.created) != 0 {
		t.Fatal("no player should exist before Enter")
	}

	if err := s.Enter(); err != nil {
		t.Fatal(err)
	}
	if s.Player() == nil {
		t.Fatal("Enter should create the player")
	}
	if err := s.Update(0.016, nil); err != nil {
		t.Fatal(err)
	}
	if len(layers.created) == 0 {
		t.Fatal("first update should create the beat's layers")
	}
	if err := s.Render(geom.Identity()); err != nil {
		t.Fatal(err)
	}
	drawn := 0
	for _, d := range layers.created {
		drawn += d.draws
	}
	if drawn == 0 {
		t.Error("Render should draw the player's layers")
	}

	if err := s.Exit(); err != nil {
		t.Fatal(err)
	}
	if s.Player() != nil {
		t.Error("Exit should drop the player")
	}
	for i, d := range layers.created {
		if !d.released {
			t.Errorf("layer %d not released on Exit", i)
		}
	}
}

func TestStoryStateRejectsBadOptions(t *testing.T) {
	story, err := script.New([]script.Beat{{Body: script.Text("x")}})
	if err != nil {
		t.Fatal(err)
	}
	opts := dialogue.DefaultOptions()
	opts.FadeRate = 0

	s := NewStoryState(story, dialogue.Deps{Layers: &stubLayers{}}, opts)
	if err := s.Enter(); err == nil {
		t.Error("Enter should fail for a zero fade rate")
	}
}
