package dialogue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/pkg/geom"
)

// ensureStatics creates the dialogue frames and the selection overlay. A
// frame that fails to load is skipped; the text is still drawn.
func (p *Player) ensureStatics() {
	if p.staticsReady {
		return
	}
	p.staticsReady = true

	p.frame = p.staticImage(p.opts.FrameImage, "frame")
	p.frameNoName = p.staticImage(p.opts.FrameNoNameImage, "frame_no_name")

	d, err := p.layers.CreateImageLayer(p.opts.Canvas, depthOverlay, geom.Black, "")
	if err != nil {
		p.log.Warn("selection overlay unavailable", zap.Error(err))
		return
	}
	p.overlay = &imageSlot{d: d}
	p.overlay.setAlpha(0)
}

func (p *Player) staticImage(path, what string) Drawable {
	if path == "" {
		return nil
	}
	d, err := p.layers.CreateImageLayer(p.opts.Canvas, depthFrame, geom.White, path)
	if err != nil {
		p.log.Warn("static layer unavailable",
			zap.String("layer", what),
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	return d
}

// choiceAnchors returns the anchor of each of n choice labels. The labels
// form a band centered vertically on the canvas, one ChoiceSpacing apart,
// with the first choice lowest.
func (p *Player) choiceAnchors(n int) []geom.Point {
	if n == 0 {
		return nil
	}
	band := float32(n-1) * p.opts.ChoiceSpacing
	size := float32(p.opts.ChoiceFont.Size)
	base := p.opts.Canvas.Y + (p.opts.Canvas.H-band)/2 - size/2

	anchors := make([]geom.Point, n)
	for i := range anchors {
		anchors[i] = geom.Pt(p.opts.Canvas.X+p.opts.ChoiceOffsetX, base+float32(i)*p.opts.ChoiceSpacing)
	}
	return anchors
}

func (p *Player) showChoices() error {
	beat := p.script.Beat(p.current)

	if p.overlay != nil {
		p.overlay.setAlpha(float64(p.opts.SelectionAlpha))
	}

	p.releaseChoices()
	anchors := p.choiceAnchors(len(beat.Choices))
	for i, c := range beat.Choices {
		l, err := p.newLabel(c.Label, anchors[i], depthChoice, 1, p.opts.ChoiceTint, p.opts.ChoiceFont)
		if err != nil {
			p.releaseChoices()
			return fmt.Errorf("beat %d choice %d: %w", p.current, i, err)
		}
		l.setAlpha(1)
		p.choices = append(p.choices, l)
	}

	p.setPhase(PhaseAwaitingChoice)
	return nil
}
