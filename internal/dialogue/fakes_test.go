package dialogue

import (
	"errors"
	"unicode/utf8"

	"github.com/Faultbox/avg-player/pkg/geom"
)

type fakeDrawable struct {
	kind     LayerKind
	source   string // image path or text
	depth    float32
	bounds   geom.Rect
	alpha    float32
	reveal   float32
	draws    int
	released bool
}

func (d *fakeDrawable) Kind() LayerKind { return d.kind }
func (d *fakeDrawable) SetAlpha(a float32) { d.alpha = a }
func (d *fakeDrawable) SetRevealRatio(r float32) { d.reveal = r }
func (d *fakeDrawable) Bounds() geom.Rect { return d.bounds }
func (d *fakeDrawable) Draw(projection geom.Mat4) { d.draws++ }
func (d *fakeDrawable) Release() { d.released = true }

var errMissing = errors.New("asset not found")

type fakeLayers struct {
	created     []*fakeDrawable
	missing     map[string]bool // image paths that fail to load
	missingFont bool
}

func newFakeLayers() *fakeLayers {
	return &fakeLayers{missing: make(map[string]bool)}
}

func (f *fakeLayers) CreateImageLayer(rect geom.Rect, depth float32, tint geom.Color, path string) (Drawable, error) {
	if f.missing[path] {
		return nil, errMissing
	}
	d := &fakeDrawable{kind: ImageLayer, source: path, depth: depth, bounds: rect, alpha: tint.A, reveal: 1}
	f.created = append(f.created, d)
	return d, nil
}

func (f *fakeLayers) CreateTextLayer(anchor geom.Point, depth float32, text string, reveal float32, tint geom.Color, font FontSpec) (Drawable, error) {
	if f.missingFont {
		return nil, errMissing
	}
	size := float32(font.Size)
	d := &fakeDrawable{
		kind:   TextLayer,
		source: text,
		depth:  depth,
		bounds: geom.Rect{X: anchor.X, Y: anchor.Y, W: float32(utf8.RuneCountInString(text)) * size / 2, H: size},
		alpha:  tint.A,
		reveal: reveal,
	}
	f.created = append(f.created, d)
	return d, nil
}

// live returns the unreleased drawables created from source.
func (f *fakeLayers) live(source string) []*fakeDrawable {
	var out []*fakeDrawable
	for _, d := range f.created {
		if d.source == source && !d.released {
			out = append(out, d)
		}
	}
	return out
}

// count returns how many drawables were ever created from source.
func (f *fakeLayers) count(source string) int {
	n := 0
	for _, d := range f.created {
		if d.source == source {
			n++
		}
	}
	return n
}

type fakeAudio struct {
	music  []string
	sounds []string
	err    error
}

func (a *fakeAudio) LoadAndLoopMusic(path string) error {
	a.music = append(a.music, path)
	return a.err
}

func (a *fakeAudio) PlayOneShot(path string) error {
	a.sounds = append(a.sounds, path)
	return a.err
}

// checkingLayers also resolves fonts ahead of the first text layer.
type checkingLayers struct {
	*fakeLayers
	broken  string
	checked []FontSpec
}

func (f *checkingLayers) CheckFont(font FontSpec) error {
	f.checked = append(f.checked, font)
	if font.Path == f.broken {
		return errMissing
	}
	return nil
}
