package tri

import "golang.org/x/mobile/gl"

// Painter draws a Scene at the last surface size reported to it. Window
// systems may ask for a paint before they report a size, so Paint does
// nothing until Resize has seen a drawable surface.
type Painter struct {
	scene         *Scene
	width, height int
}

// NewPainter builds a Scene in glctx. The surface size starts out unknown.
func NewPainter(glctx gl.Context, geom *Geometry, opts Options) (*Painter, error) {
	s, err := NewScene(glctx, geom, opts)
	if err != nil {
		return nil, err
	}
	return &Painter{scene: s}, nil
}

// Resize records the surface size in pixels. It reports whether the size
// changed to a drawable one, in which case the caller should request a
// paint.
func (p *Painter) Resize(width, height int) bool {
	if p == nil || (width == p.width && height == p.height) {
		return false
	}
	p.width, p.height = width, height
	return p.ready()
}

func (p *Painter) ready() bool {
	return p.width > 0 && p.height > 0
}

// Paint draws one frame and reports whether it did. While the surface size
// is unknown or empty it draws nothing and returns false.
func (p *Painter) Paint() (bool, error) {
	if p == nil || !p.ready() {
		Logger().Debug("tri: paint skipped, surface size unknown")
		return false, nil
	}
	err := p.scene.Draw(p.width, p.height)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Release releases the scene. It is safe to call on a nil Painter.
func (p *Painter) Release() {
	if p == nil {
		return
	}
	p.scene.Release()
}
