package game

import (
	"github.com/Faultbox/avg-player/internal/config"
	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/engine/audio"
	"github.com/Faultbox/avg-player/pkg/geom"
)

// canvasRect returns the logical canvas configured for the story.
func canvasRect(g config.GraphicsConfig) geom.Rect {
	return geom.Rect{W: float32(g.LogicalWidth), H: float32(g.LogicalHeight)}
}

// playbackOptions converts the playback settings into dialogue player
// options. Anchors and tints keep the built-in layout.
func playbackOptions(cfg *config.Config) dialogue.Options {
	p := cfg.Playback
	opts := dialogue.DefaultOptions()
	opts.Canvas = canvasRect(cfg.Graphics)
	opts.FadeRate = p.FadeRate
	opts.RevealRate = p.RevealRate
	opts.SelectionAlpha = p.SelectionAlpha
	opts.NameFont = dialogue.FontSpec{Path: p.FontPath, Size: p.NameFontSize}
	opts.BodyFont = dialogue.FontSpec{Path: p.FontPath, Size: p.BodyFontSize}
	opts.ChoiceFont = dialogue.FontSpec{Path: p.FontPath, Size: p.ChoiceFontSize}
	opts.ChoiceOffsetX = p.ChoiceOffsetX
	opts.ChoiceSpacing = p.ChoiceSpacing
	opts.FrameImage = p.FrameImage
	opts.FrameNoNameImage = p.FrameNoNameImage
	opts.ConfirmSound = p.ConfirmSound
	return opts
}

func audioOptions(cfg config.AudioConfig) audio.Options {
	return audio.Options{
		MasterVolume:    float64(cfg.MasterVolume),
		MusicVolume:     float64(cfg.MusicVolume),
		SFXVolume:       float64(cfg.SFXVolume),
		Muted:           cfg.Muted,
		DeferUntilInput: cfg.DeferUntilInput,
	}
}

func clearColor(c [4]float32) geom.Color {
	return geom.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}
