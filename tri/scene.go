package tri

import (
	"errors"
	"fmt"

	"golang.org/x/mobile/gl"
)

var (
	// ErrNoContext is returned when no gl.Context is available to draw into.
	ErrNoContext = errors.New("tri: no gl context")

	// ErrInvalidSize is returned when the drawing surface has no area.
	ErrInvalidSize = errors.New("tri: invalid surface size")
)

// Scene holds the GPU resources for one triangle mesh: a vertex buffer, an
// index buffer and the program drawing them. Scene is not safe for concurrent
// use, which matches the gl.Context it belongs to.
type Scene struct {
	glctx    gl.Context
	opts     Options
	vertices *Buffer
	indices  *Buffer
	program  *Program
	coord    gl.Attrib
	count    int
}

// NewScene uploads geom into glctx, builds the shader program for opts and
// leaves the program active with both buffers bound and the vertex attribute
// enabled. On failure every resource acquired so far is released.
func NewScene(glctx gl.Context, geom *Geometry, opts Options) (*Scene, error) {
	if glctx == nil {
		return nil, ErrNoContext
	}
	if geom == nil {
		geom = DefaultGeometry()
	}
	err := geom.Validate()
	if err != nil {
		return nil, err
	}

	s := &Scene{glctx: glctx, opts: opts, count: len(geom.Indices)}
	err = s.init(geom)
	if err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *Scene) init(geom *Geometry) error {
	var err error
	s.vertices, err = NewBuffer(s.glctx, gl.ARRAY_BUFFER, geom.VertexBytes())
	if err != nil {
		return fmt.Errorf("tri: vertex buffer: %w", err)
	}
	s.indices, err = NewBuffer(s.glctx, gl.ELEMENT_ARRAY_BUFFER, geom.IndexBytes())
	if err != nil {
		return fmt.Errorf("tri: index buffer: %w", err)
	}

	s.program, err = NewProgram(s.glctx, VertexShader, FragmentShaderColor(s.opts.FragmentColor))
	if err != nil {
		return err
	}
	s.program.Use()

	// Associate the shader input with the buffers.
	s.vertices.Bind()
	s.indices.Bind()
	s.coord, err = s.program.Attrib(CoordinatesAttrib)
	if err != nil {
		return err
	}
	s.glctx.VertexAttribPointer(s.coord, coordsPerVertex, gl.FLOAT, false, 0, 0)
	s.glctx.EnableVertexAttribArray(s.coord)
	Logger().Debug("tri: scene ready", "attrib", CoordinatesAttrib, "location", s.coord.Value, "indices", s.count)
	return nil
}

// Draw renders one frame into a surface of width by height pixels. The
// viewport always matches the size passed in.
func (s *Scene) Draw(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	glctx := s.glctx

	c := s.opts.ClearColor
	glctx.ClearColor(c[0], c[1], c[2], c[3])
	mask := gl.Enum(gl.COLOR_BUFFER_BIT)
	if s.opts.DepthTest {
		glctx.Enable(gl.DEPTH_TEST)
		// Depth survives between frames on native surfaces.
		mask |= gl.DEPTH_BUFFER_BIT
	} else {
		glctx.Disable(gl.DEPTH_TEST)
	}
	if s.opts.Blend {
		glctx.Enable(gl.BLEND)
		glctx.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		glctx.Disable(gl.BLEND)
	}
	glctx.Clear(mask)
	glctx.Viewport(0, 0, width, height)
	glctx.DrawElements(gl.TRIANGLES, s.count, gl.UNSIGNED_SHORT, 0)

	Logger().Debug("tri: frame drawn", "width", width, "height", height, "indices", s.count)
	if glerr := glctx.GetError(); glerr != gl.NO_ERROR {
		return fmt.Errorf("tri: draw failed: gl error 0x%x", uint32(glerr))
	}
	return nil
}

// Release deletes the program and both buffers. It is safe to call Release
// on a partially built Scene and to call it more than once.
func (s *Scene) Release() {
	if s == nil {
		return
	}
	if s.program != nil {
		s.program.Release()
	}
	if s.vertices != nil {
		s.vertices.Release()
	}
	if s.indices != nil {
		s.indices.Release()
	}
}

// Draw performs the whole fixed sequence once: upload the default triangle,
// build the program, draw a width by height frame and release everything.
func Draw(glctx gl.Context, width, height int) error {
	s, err := NewScene(glctx, DefaultGeometry(), DefaultOptions())
	if err != nil {
		return err
	}
	defer s.Release()
	return s.Draw(width, height)
}
