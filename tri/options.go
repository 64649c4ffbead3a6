package tri

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color [4]float32

// Options holds the fixed render state of a Scene.
type Options struct {
	// ClearColor fills the color buffer outside the triangle.
	ClearColor Color

	// FragmentColor is written by the fragment shader.
	FragmentColor Color

	// DepthTest enables DEPTH_TEST before drawing.
	DepthTest bool

	// Blend composites the fragment color over the clear color using
	// SRC_ALPHA, ONE_MINUS_SRC_ALPHA. Without it the framebuffer holds the
	// raw fragment color and compositing is left to the window system.
	Blend bool
}

// DefaultOptions returns the render state used by Draw.
func DefaultOptions() Options {
	return Options{
		ClearColor:    Color{0.5, 0.5, 0.5, 0.9},
		FragmentColor: Color{0.0, 0.0, 0.0, 0.1},
		DepthTest:     true,
		Blend:         true,
	}
}
