// Package render draws dialogue layers with OpenGL. It implements the layer
// factory the dialogue player uses: every image and text layer is a tinted
// quad on the logical canvas.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/engine/shader"
	"github.com/Faultbox/avg-player/internal/engine/texture"
	"github.com/Faultbox/avg-player/pkg/geom"
)

// Options configures the renderer.
type Options struct {
	Canvas     geom.Rect  // logical canvas the projection covers
	ClearColor geom.Color // background behind every layer
}

// Renderer owns the GL state shared by all layers.
// IMPORTANT: Must be created AFTER the OpenGL context exists, on the GL thread.
type Renderer struct {
	opts   Options
	assets Loader
	log    *zap.Logger

	program  *shader.Program
	quadVAO  uint32
	quadVBO  uint32
	fonts    *FontCache
	textures map[string]*sharedTexture
}

// sharedTexture is an image texture shared by every layer showing the same file.
type sharedTexture struct {
	tex  *glTexture
	refs int
}

var (
	_ dialogue.LayerFactory = (*Renderer)(nil)
	_ dialogue.FontChecker  = (*Renderer)(nil)
)

// New creates a renderer loading images and fonts through assets.
func New(assets Loader, opts Options, log *zap.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Layers are drawn back to front; depth only orders them.
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	program, err := shader.NewQuadProgram()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		opts:     opts,
		assets:   assets,
		log:      log,
		program:  program,
		fonts:    NewFontCache(assets),
		textures: make(map[string]*sharedTexture),
	}
	r.createQuad()
	return r, nil
}

// createQuad uploads the unit quad as a triangle strip of (x, y, u, v).
// Texture rows run top to bottom, so v is flipped against y.
func (r *Renderer) createQuad() {
	vertices := []float32{
		0, 0, 0, 1,
		1, 0, 1, 1,
		0, 1, 0, 0,
		1, 1, 1, 0,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)

	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(2*unsafe.Sizeof(float32(0))))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Projection maps the logical canvas onto clip space.
func (r *Renderer) Projection() geom.Mat4 {
	c := r.opts.Canvas
	return geom.Ortho(c.X, c.X+c.W, c.Y, c.Y+c.H, -1, 1)
}

// Resize handles window resize. The canvas is stretched over the drawable.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	c := r.opts.ClearColor
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// drawQuad draws one layer. A zero texture draws a flat tinted quad.
func (r *Renderer) drawQuad(projection geom.Mat4, rect geom.Rect, depth float32, tint geom.Color, alpha float32, tex *glTexture) {
	p := r.program
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uProjection"), 1, false, projection.Ptr())
	gl.Uniform4f(p.Uniform("uRect"), rect.X, rect.Y, rect.W, rect.H)
	gl.Uniform1f(p.Uniform("uDepth"), depth)
	gl.Uniform4f(p.Uniform("uTint"), tint.R, tint.G, tint.B, tint.A)
	gl.Uniform1f(p.Uniform("uAlpha"), alpha)

	if tex != nil && tex.id != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		gl.Uniform1i(p.Uniform("uTexture"), 0)
		gl.Uniform1i(p.Uniform("uTextured"), 1)
	} else {
		gl.Uniform1i(p.Uniform("uTextured"), 0)
	}

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// acquireTexture returns the shared texture for an image file.
func (r *Renderer) acquireTexture(path string) (*glTexture, error) {
	if s, ok := r.textures[path]; ok {
		s.refs++
		return s.tex, nil
	}

	data, err := r.assets.Load(path)
	if err != nil {
		return nil, err
	}
	img, err := texture.Decode(path, data)
	if err != nil {
		return nil, err
	}

	tex := newTexture(img)
	r.textures[path] = &sharedTexture{tex: tex, refs: 1}
	r.log.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", tex.width),
		zap.Int("height", tex.height),
	)
	return tex, nil
}

func (r *Renderer) releaseTexture(path string) {
	s, ok := r.textures[path]
	if !ok {
		return
	}
	s.refs--
	if s.refs <= 0 {
		s.tex.delete()
		delete(r.textures, path)
	}
}

// CreateImageLayer creates a quad covering rect. An empty path gives a flat
// quad in the tint color.
func (r *Renderer) CreateImageLayer(rect geom.Rect, depth float32, tint geom.Color, path string) (dialogue.Drawable, error) {
	l := &imageLayer{r: r, rect: rect, depth: depth, tint: tint, alpha: 1, path: path}
	if path == "" {
		return l, nil
	}
	tex, err := r.acquireTexture(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	l.tex = tex
	return l, nil
}

// CreateTextLayer lays out text in the given font. The first line sits with
// its bottom-left corner on anchor; further lines go down the canvas.
func (r *Renderer) CreateTextLayer(anchor geom.Point, depth float32, text string, reveal float32, tint geom.Color, spec dialogue.FontSpec) (dialogue.Drawable, error) {
	face, err := r.fonts.Face(spec)
	if err != nil {
		return nil, err
	}

	layout := LayoutText(face, text, r.wrapWidth(anchor))
	w, h := layout.Size()
	l := &textLayer{
		r:       r,
		face:    face,
		layout:  layout,
		depth:   depth,
		tint:    tint,
		alpha:   1,
		visible: -1,
		rect: geom.Rect{
			X: anchor.X,
			Y: anchor.Y + float32(layout.LineHeight) - float32(h),
			W: float32(w),
			H: float32(h),
		},
	}
	l.SetRevealRatio(reveal)
	return l, nil
}

// CheckFont loads the face for spec so font problems surface before the
// first text layer.
func (r *Renderer) CheckFont(spec dialogue.FontSpec) error {
	_, err := r.fonts.Face(spec)
	return err
}

// wrapWidth keeps the right margin equal to the left one.
func (r *Renderer) wrapWidth(anchor geom.Point) int {
	c := r.opts.Canvas
	w := int(c.X + c.W - anchor.X - (anchor.X - c.X))
	return max(w, 1)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows. Call it after
// drawing and before the buffers are swapped.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Close frees every GL object the renderer created.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for path, s := range r.textures {
		s.tex.delete()
		delete(r.textures, path)
	}
	r.fonts.Close()
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	r.program.Delete()
}
