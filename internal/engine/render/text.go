package render

import (
	"image"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Line is one wrapped line of a text layer.
type Line struct {
	Text   string // drawn text, without the line break
	Glyphs int    // glyphs consumed from the source, line break included
}

// TextLayout is a block of wrapped text measured for one face.
type TextLayout struct {
	Lines      []Line
	Glyphs     int
	Width      int
	LineHeight int
	Ascent     int
}

// LayoutText normalizes text to NFC and wraps it at Unicode line break
// opportunities so that no line is wider than maxWidth pixels, unless a
// single unbreakable segment is.
func LayoutText(face font.Face, text string, maxWidth int) TextLayout {
	m := face.Metrics()
	l := TextLayout{
		LineHeight: m.Height.Ceil(),
		Ascent:     m.Ascent.Ceil(),
	}
	limit := fixed.I(maxWidth)

	var cur strings.Builder
	var curWidth fixed.Int26_6
	curGlyphs := 0
	flush := func() {
		l.Lines = append(l.Lines, Line{Text: cur.String(), Glyphs: curGlyphs})
		if w := curWidth.Ceil(); w > l.Width {
			l.Width = w
		}
		cur.Reset()
		curWidth = 0
		curGlyphs = 0
	}

	rest := norm.NFC.String(text)
	l.Glyphs = utf8.RuneCountInString(rest)
	state := -1
	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		drawn := strings.TrimRight(segment, "\r\n")
		// Trailing spaces may hang past the limit.
		fit := font.MeasureString(face, strings.TrimRight(drawn, " "))
		if cur.Len() > 0 && curWidth+fit > limit {
			flush()
		}
		cur.WriteString(drawn)
		curWidth += font.MeasureString(face, drawn)
		curGlyphs += utf8.RuneCountInString(segment)

		if mustBreak && len(rest) > 0 {
			flush()
		}
	}
	if cur.Len() > 0 || curGlyphs > 0 || len(l.Lines) == 0 {
		flush()
	}
	return l
}

// Size returns the pixel size of the whole block, at least 1x1.
func (l TextLayout) Size() (w, h int) {
	return max(l.Width, 1), max(len(l.Lines)*l.LineHeight, 1)
}

// Rasterize draws the first visible glyphs of the layout in white onto a
// transparent image of the full block size. Rows run top to bottom.
func Rasterize(face font.Face, l TextLayout, visible int) *image.NRGBA {
	w, h := l.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: img, Src: image.White, Face: face}

	remaining := visible
	for i, line := range l.Lines {
		if remaining <= 0 {
			break
		}
		text := line.Text
		if n := utf8.RuneCountInString(text); remaining < n {
			text = firstRunes(text, remaining)
		}
		d.Dot = fixed.P(0, i*l.LineHeight+l.Ascent)
		d.DrawString(text)
		remaining -= line.Glyphs
	}
	return img
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
