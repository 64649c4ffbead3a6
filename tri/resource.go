package tri

import (
	"fmt"

	"golang.org/x/mobile/exp/gl/glutil"
	"golang.org/x/mobile/gl"
)

// Buffer is a GPU buffer object owned by one gl.Context. The zero Buffer is
// not usable; create one with NewBuffer.
type Buffer struct {
	glctx  gl.Context
	buf    gl.Buffer
	target gl.Enum
	size   int
}

// NewBuffer creates a buffer for target, uploads data into it with
// STATIC_DRAW and leaves target unbound.
func NewBuffer(glctx gl.Context, target gl.Enum, data []byte) (*Buffer, error) {
	if glctx == nil {
		return nil, ErrNoContext
	}
	buf := glctx.CreateBuffer()
	if buf.Value == 0 {
		return nil, fmt.Errorf("tri: no buffers available")
	}
	glctx.BindBuffer(target, buf)
	glctx.BufferData(target, data, gl.STATIC_DRAW)
	glctx.BindBuffer(target, gl.Buffer{})
	Logger().Debug("tri: buffer uploaded", "target", fmt.Sprintf("0x%x", uint32(target)), "bytes", len(data))
	return &Buffer{glctx: glctx, buf: buf, target: target, size: len(data)}, nil
}

// Len returns the number of bytes uploaded into b.
func (b *Buffer) Len() int { return b.size }

// Bind binds b to its target.
func (b *Buffer) Bind() { b.glctx.BindBuffer(b.target, b.buf) }

// Unbind clears the binding of b's target.
func (b *Buffer) Unbind() { b.glctx.BindBuffer(b.target, gl.Buffer{}) }

// Release deletes the buffer. Calling Release more than once is harmless.
func (b *Buffer) Release() {
	if b == nil || b.buf.Value == 0 {
		return
	}
	b.glctx.DeleteBuffer(b.buf)
	b.buf = gl.Buffer{}
}

// Program is a linked shader program owned by one gl.Context.
type Program struct {
	glctx gl.Context
	prog  gl.Program
}

// NewProgram compiles the vertex and fragment shader sources and links them.
// Compile and link failures are returned along with the GL info log.
func NewProgram(glctx gl.Context, vertexSrc, fragmentSrc string) (*Program, error) {
	if glctx == nil {
		return nil, ErrNoContext
	}
	prog, err := glutil.CreateProgram(glctx, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("tri: creating program: %w", err)
	}
	return &Program{glctx: glctx, prog: prog}, nil
}

// Use makes p the active program.
func (p *Program) Use() { p.glctx.UseProgram(p.prog) }

// Attrib returns the location of the active attribute name.
func (p *Program) Attrib(name string) (gl.Attrib, error) {
	a := p.glctx.GetAttribLocation(p.prog, name)
	// GetAttribLocation reports a missing attribute as -1.
	if int32(a.Value) < 0 {
		return gl.Attrib{}, fmt.Errorf("tri: attribute %q is not active in the program", name)
	}
	return a, nil
}

// Release deletes the program. Calling Release more than once is harmless.
func (p *Program) Release() {
	if p == nil || !p.prog.Init {
		return
	}
	p.glctx.DeleteProgram(p.prog)
	p.prog = gl.Program{}
}
