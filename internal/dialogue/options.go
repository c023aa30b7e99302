package dialogue

import (
	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/pkg/geom"
)

// Logical canvas size all layout and hit-testing happens in.
const (
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

// Layer depths. More negative is nearer the viewer.
const (
	depthBackground = 0.0
	depthCharacter  = -0.1
	depthFrame      = -0.2
	depthText       = -0.3
	depthOverlay    = -0.4
	depthChoice     = -0.5
)

// Options tunes timing, layout and the static assets of the dialogue box.
type Options struct {
	Canvas geom.Rect

	FadeRate   float64 // alpha units per second
	RevealRate float64 // glyphs per second

	SelectionAlpha float32

	NameFont   FontSpec
	BodyFont   FontSpec
	ChoiceFont FontSpec

	NameAnchor geom.Point
	BodyAnchor geom.Point
	NameTint   geom.Color
	BodyTint   geom.Color
	ChoiceTint geom.Color

	// ChoiceOffsetX is the left edge of the choice band; ChoiceSpacing the
	// vertical distance between consecutive labels.
	ChoiceOffsetX float32
	ChoiceSpacing float32

	FrameImage       string // dialogue box shown with a speaker name
	FrameNoNameImage string // dialogue box shown without one
	ConfirmSound     string // one-shot played on every accepted activation
}

// DefaultOptions returns the layout of the reference 1920x1080 canvas.
func DefaultOptions() Options {
	const font = "resources/fonts/SourceHanSerifTC-Heavy.otf"
	return Options{
		Canvas:           geom.Rect{W: CanvasWidth, H: CanvasHeight},
		FadeRate:         2.0,
		RevealRate:       40,
		SelectionAlpha:   0.75,
		NameFont:         FontSpec{Path: font, Size: 120},
		BodyFont:         FontSpec{Path: font, Size: 60},
		ChoiceFont:       FontSpec{Path: font, Size: 72},
		NameAnchor:       geom.Pt(16, 385),
		BodyAnchor:       geom.Pt(16, 260),
		NameTint:         geom.Color{R: 0.5, G: 0.7, B: 1, A: 1},
		BodyTint:         geom.White,
		ChoiceTint:       geom.White,
		ChoiceOffsetX:    560,
		ChoiceSpacing:    160,
		FrameImage:       "resources/images/frame.png",
		FrameNoNameImage: "resources/images/frame_no_name.png",
		ConfirmSound:     "resources/sounds/confirm.wav",
	}
}

// Deps are the collaborators injected into a Player.
type Deps struct {
	Layers LayerFactory
	Audio  AudioService // optional
	Log    *zap.Logger  // optional
}
