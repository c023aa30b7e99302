package render

import (
	"golang.org/x/image/font"

	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/timing"
	"github.com/Faultbox/avg-player/pkg/geom"
)

type imageLayer struct {
	r     *Renderer
	rect  geom.Rect
	depth float32
	tint  geom.Color
	alpha float32
	path  string
	tex   *glTexture // nil for a flat quad
}

func (l *imageLayer) Kind() dialogue.LayerKind { return dialogue.ImageLayer }
func (l *imageLayer) SetAlpha(a float32) { l.alpha = a }
func (l *imageLayer) SetRevealRatio(float32) {}
func (l *imageLayer) Bounds() geom.Rect { return l.rect }

func (l *imageLayer) Draw(projection geom.Mat4) {
	if l.alpha <= 0 {
		return
	}
	l.r.drawQuad(projection, l.rect, l.depth, l.tint, l.alpha, l.tex)
}

func (l *imageLayer) Release() {
	if l.tex != nil {
		l.r.releaseTexture(l.path)
		l.tex = nil
	}
}

type textLayer struct {
	r       *Renderer
	face    font.Face
	layout  TextLayout
	rect    geom.Rect
	depth   float32
	tint    geom.Color
	alpha   float32
	visible int // glyphs in the current raster, -1 before the first
	tex     *glTexture
}

func (l *textLayer) Kind() dialogue.LayerKind { return dialogue.TextLayer }
func (l *textLayer) SetAlpha(a float32) { l.alpha = a }
func (l *textLayer) Bounds() geom.Rect { return l.rect }

// SetRevealRatio re-rasterizes only when the number of visible glyphs changes.
func (l *textLayer) SetRevealRatio(ratio float32) {
	n := timing.VisibleGlyphs(l.layout.Glyphs, float64(ratio))
	if n == l.visible {
		return
	}
	img := Rasterize(l.face, l.layout, n)
	if l.tex == nil {
		l.tex = newTexture(img)
	} else {
		l.tex.upload(img)
	}
	l.visible = n
}

func (l *textLayer) Draw(projection geom.Mat4) {
	if l.alpha <= 0 || l.visible <= 0 {
		return
	}
	l.r.drawQuad(projection, l.rect, l.depth, l.tint, l.alpha, l.tex)
}

func (l *textLayer) Release() {
	if l.tex != nil {
		l.tex.delete()
		l.tex = nil
	}
}
