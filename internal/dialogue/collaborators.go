package dialogue

import (
	"fmt"

	"github.com/Faultbox/avg-player/pkg/geom"
)

// LayerKind identifies the two drawable variants the player creates.
type LayerKind uint8

const (
	ImageLayer LayerKind = iota
	TextLayer
)

// Drawable is an opaque handle to a quad owned by the player.
type Drawable interface {
	Kind() LayerKind

	// SetAlpha sets the tint alpha in [0, 1].
	SetAlpha(a float32)

	// SetRevealRatio sets the visible fraction of a text layer. Image layers
	// ignore it.
	SetRevealRatio(r float32)

	// Bounds returns the quad rectangle on the logical canvas.
	Bounds() geom.Rect

	Draw(projection geom.Mat4)

	// Release frees the handle's resources. The handle must not be used
	// afterwards.
	Release()
}

// FontSpec selects a font face.
type FontSpec struct {
	Path string
	Size int
}

// LayerFactory creates drawables. The player calls it synchronously from
// Update.
type LayerFactory interface {
	// CreateImageLayer creates a quad covering rect at the given depth.
	// An empty path creates an untextured quad filled with tint.
	CreateImageLayer(rect geom.Rect, depth float32, tint geom.Color, path string) (Drawable, error)

	// CreateTextLayer rasterizes text into a quad anchored at anchor (the
	// quad grows right and up from it), showing the reveal fraction of its
	// glyphs.
	CreateTextLayer(anchor geom.Point, depth float32, text string, reveal float32, tint geom.Color, font FontSpec) (Drawable, error)
}

// FontChecker is implemented by layer factories that can resolve a font
// before any text layer needs it.
type FontChecker interface {
	CheckFont(font FontSpec) error
}

// CheckFonts resolves the name, body and choice fonts of opts when layers
// implements FontChecker, so a missing font stops startup instead of the
// first beat.
func CheckFonts(layers LayerFactory, opts Options) error {
	fc, ok := layers.(FontChecker)
	if !ok {
		return nil
	}
	for _, spec := range []FontSpec{opts.NameFont, opts.BodyFont, opts.ChoiceFont} {
		if err := fc.CheckFont(spec); err != nil {
			return fmt.Errorf("dialogue: font %s size %d: %w", spec.Path, spec.Size, err)
		}
	}
	return nil
}

// AudioService plays music and sound effects. Calls must not block.
type AudioService interface {
	LoadAndLoopMusic(path string) error
	PlayOneShot(path string) error
}

type nopAudio struct{}

func (nopAudio) LoadAndLoopMusic(string) error { return nil }
func (nopAudio) PlayOneShot(string) error      { return nil }
