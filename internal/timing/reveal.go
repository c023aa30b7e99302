package timing

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// AdvanceReveal moves a reveal ratio toward 1. The rate is in glyphs per
// second and is divided by glyphs so that text of any length is typed out at
// the same pace. The instant rate applies to the ratio itself, so a skip
// finishes text of any length. A text without glyphs is revealed immediately.
func AdvanceReveal(current, dt, rate float64, instant bool, glyphs int) float64 {
	if glyphs <= 0 {
		return 1
	}
	r := rate / float64(glyphs)
	if instant {
		r = InstantRate
	}
	return FadeIn(current, dt, r, false)
}

// GlyphCount returns the number of code points in s after NFC normalization,
// so precomposed and decomposed accents count the same.
func GlyphCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// VisiblePrefix returns the leading part of s shown at the given reveal
// ratio, cut on a code point boundary of the NFC form.
func VisiblePrefix(s string, ratio float64) string {
	s = norm.NFC.String(s)
	n := VisibleGlyphs(utf8.RuneCountInString(s), ratio)
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// VisibleGlyphs returns how many of glyphs are shown at the given ratio.
func VisibleGlyphs(glyphs int, ratio float64) int {
	switch {
	case ratio >= 1:
		return glyphs
	case ratio <= 0:
		return 0
	}
	return int(float64(glyphs) * ratio)
}

// Reveal is the typewriter accumulator attached to one text drawable.
type Reveal struct {
	Ratio  float64
	Glyphs int
}

// NewReveal creates a reveal accumulator for text, starting hidden.
func NewReveal(text string) Reveal {
	return Reveal{Glyphs: GlyphCount(text)}
}

// Advance steps the ratio and returns the new value.
func (r *Reveal) Advance(dt, rate float64, instant bool) float64 {
	r.Ratio = AdvanceReveal(r.Ratio, dt, rate, instant, r.Glyphs)
	return r.Ratio
}

// Done reports whether every glyph is visible.
func (r *Reveal) Done() bool { return r.Ratio >= 1 }
