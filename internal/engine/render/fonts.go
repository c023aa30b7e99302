package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/Faultbox/avg-player/internal/dialogue"
)

// Loader reads asset bytes by path.
type Loader interface {
	Load(name string) ([]byte, error)
}

// FontCache parses each font file once and keeps one face per size.
type FontCache struct {
	assets Loader
	fonts  map[string]*opentype.Font
	faces  map[dialogue.FontSpec]font.Face
}

// NewFontCache creates an empty cache reading font files from assets.
func NewFontCache(assets Loader) *FontCache {
	return &FontCache{
		assets: assets,
		fonts:  make(map[string]*opentype.Font),
		faces:  make(map[dialogue.FontSpec]font.Face),
	}
}

// Face returns the face for spec, loading the font file on first use.
func (c *FontCache) Face(spec dialogue.FontSpec) (font.Face, error) {
	if face, ok := c.faces[spec]; ok {
		return face, nil
	}
	if spec.Size <= 0 {
		return nil, fmt.Errorf("font %s: invalid size %d", spec.Path, spec.Size)
	}

	f, ok := c.fonts[spec.Path]
	if !ok {
		data, err := c.assets.Load(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("loading font %s: %w", spec.Path, err)
		}
		f, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", spec.Path, err)
		}
		c.fonts[spec.Path] = f
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(spec.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s size %d: %w", spec.Path, spec.Size, err)
	}
	c.faces[spec] = face
	return face, nil
}

// Close releases every face.
func (c *FontCache) Close() {
	for spec, face := range c.faces {
		face.Close()
		delete(c.faces, spec)
	}
	clear(c.fonts)
}
