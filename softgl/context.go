// Package softgl implements a small part of gl.Context from
// golang.org/x/mobile/gl on the CPU. It renders into an in-memory 8-bit RGBA
// framebuffer so drawing code can run without a GPU or a window, and so the
// resulting pixels can be inspected.
//
// Supported are buffer objects, shaders and programs written in a narrow
// subset of GLSL ES (see CompileShader), clear, viewport, depth test, alpha
// blending and indexed or non-indexed triangle draws. Calling any other
// gl.Context method panics.
//
// A Context is not safe for concurrent use.
package softgl

import (
	"golang.org/x/mobile/gl"
)

const maxVertexAttribs = 8

type buffer struct {
	data []byte
}

type attribState struct {
	enabled bool
	size    int
	ty      gl.Enum
	stride  int
	offset  int
	buf     uint32
}

// Context is a software gl.Context. Create one with New.
type Context struct {
	// gl.Context is never set. Methods outside the supported subset resolve
	// to it and panic.
	gl.Context

	width, height int
	color         []uint8   // RGBA rows, bottom row first
	depth         []float32 // one value per pixel, same order as color

	nextID   uint32
	buffers  map[uint32]*buffer
	shaders  map[uint32]*shader
	programs map[uint32]*program

	arrayBuf   uint32
	elementBuf uint32
	current    uint32
	attribs    [maxVertexAttribs]attribState

	clearColor [4]float32
	clearDepth float32
	viewport   [4]int
	depthTest  bool
	depthFunc  gl.Enum
	blend      bool
	blendSrc   gl.Enum
	blendDst   gl.Enum

	err gl.Enum
}

var _ gl.Context = (*Context)(nil)

// New returns a context whose default framebuffer is width by height pixels.
// The viewport covers the whole framebuffer, the color buffer is transparent
// black and the depth buffer holds 1.
func New(width, height int) *Context {
	ctx := &Context{
		buffers:    make(map[uint32]*buffer),
		shaders:    make(map[uint32]*shader),
		programs:   make(map[uint32]*program),
		clearDepth: 1,
		depthFunc:  gl.LESS,
		blendSrc:   gl.ONE,
		blendDst:   gl.ZERO,
	}
	ctx.Resize(width, height)
	return ctx
}

// Resize replaces the default framebuffer with one of width by height pixels,
// as a window system does when the surface changes size. Framebuffer contents
// are reset and the viewport is left alone.
func (ctx *Context) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	first := ctx.color == nil
	ctx.width, ctx.height = width, height
	ctx.color = make([]uint8, width*height*4)
	ctx.depth = make([]float32, width*height)
	for i := range ctx.depth {
		ctx.depth[i] = 1
	}
	if first {
		ctx.viewport = [4]int{0, 0, width, height}
	}
}

// Size returns the framebuffer dimensions.
func (ctx *Context) Size() (width, height int) {
	return ctx.width, ctx.height
}

// ViewportRect returns the current viewport as x, y, width, height.
func (ctx *Context) ViewportRect() [4]int {
	return ctx.viewport
}

// setError records e unless an earlier error is still pending, matching the
// sticky error flag of GL.
func (ctx *Context) setError(e gl.Enum) {
	if ctx.err == gl.NO_ERROR {
		ctx.err = e
	}
}

func (ctx *Context) id() uint32 {
	ctx.nextID++
	return ctx.nextID
}

func (ctx *Context) GetError() gl.Enum {
	e := ctx.err
	ctx.err = gl.NO_ERROR
	return e
}

func (ctx *Context) Flush()  {}
func (ctx *Context) Finish() {}

func (ctx *Context) CreateBuffer() gl.Buffer {
	id := ctx.id()
	ctx.buffers[id] = &buffer{}
	return gl.Buffer{Value: id}
}

func (ctx *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	if b.Value != 0 && ctx.buffers[b.Value] == nil {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	switch target {
	case gl.ARRAY_BUFFER:
		ctx.arrayBuf = b.Value
	case gl.ELEMENT_ARRAY_BUFFER:
		ctx.elementBuf = b.Value
	default:
		ctx.setError(gl.INVALID_ENUM)
	}
}

func (ctx *Context) boundBuffer(target gl.Enum) (*buffer, bool) {
	switch target {
	case gl.ARRAY_BUFFER:
		return ctx.buffers[ctx.arrayBuf], true
	case gl.ELEMENT_ARRAY_BUFFER:
		return ctx.buffers[ctx.elementBuf], true
	}
	return nil, false
}

func (ctx *Context) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	b, ok := ctx.boundBuffer(target)
	if !ok {
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	switch usage {
	case gl.STATIC_DRAW, gl.DYNAMIC_DRAW, gl.STREAM_DRAW:
	default:
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	if b == nil {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	b.data = append([]byte(nil), src...)
}

func (ctx *Context) BufferSubData(target gl.Enum, offset int, data []byte) {
	b, ok := ctx.boundBuffer(target)
	if !ok {
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	if b == nil {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	copy(b.data[offset:], data)
}

// BufferBytes returns a copy of the data in buffer b, or nil if b does not
// name a buffer.
func (ctx *Context) BufferBytes(b gl.Buffer) []byte {
	buf := ctx.buffers[b.Value]
	if buf == nil {
		return nil
	}
	return append([]byte(nil), buf.data...)
}

// BoundBuffer returns the buffer bound to target.
func (ctx *Context) BoundBuffer(target gl.Enum) gl.Buffer {
	switch target {
	case gl.ARRAY_BUFFER:
		return gl.Buffer{Value: ctx.arrayBuf}
	case gl.ELEMENT_ARRAY_BUFFER:
		return gl.Buffer{Value: ctx.elementBuf}
	}
	return gl.Buffer{}
}

func (ctx *Context) IsBuffer(b gl.Buffer) bool {
	return ctx.buffers[b.Value] != nil
}

func (ctx *Context) DeleteBuffer(b gl.Buffer) {
	if ctx.buffers[b.Value] == nil {
		return
	}
	delete(ctx.buffers, b.Value)
	if ctx.arrayBuf == b.Value {
		ctx.arrayBuf = 0
	}
	if ctx.elementBuf == b.Value {
		ctx.elementBuf = 0
	}
	for i := range ctx.attribs {
		if ctx.attribs[i].buf == b.Value {
			ctx.attribs[i].buf = 0
		}
	}
}

func (ctx *Context) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	if dst.Value >= maxVertexAttribs || size < 1 || size > 4 || stride < 0 || offset < 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	if ty != gl.FLOAT {
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	if ctx.arrayBuf == 0 && offset != 0 {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	a := &ctx.attribs[dst.Value]
	a.size, a.ty, a.stride, a.offset = size, ty, stride, offset
	a.buf = ctx.arrayBuf
}

func (ctx *Context) EnableVertexAttribArray(a gl.Attrib) {
	if a.Value >= maxVertexAttribs {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	ctx.attribs[a.Value].enabled = true
}

func (ctx *Context) DisableVertexAttribArray(a gl.Attrib) {
	if a.Value >= maxVertexAttribs {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	ctx.attribs[a.Value].enabled = false
}

func (ctx *Context) ClearColor(red, green, blue, alpha float32) {
	ctx.clearColor = [4]float32{clamp01(red), clamp01(green), clamp01(blue), clamp01(alpha)}
}

func (ctx *Context) ClearDepthf(d float32) {
	ctx.clearDepth = clamp01(d)
}

func (ctx *Context) Clear(mask gl.Enum) {
	if mask&^(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT) != 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		var px [4]uint8
		for i, c := range ctx.clearColor {
			px[i] = quantize(c)
		}
		for i := 0; i < len(ctx.color); i += 4 {
			copy(ctx.color[i:i+4], px[:])
		}
	}
	if mask&gl.DEPTH_BUFFER_BIT != 0 {
		for i := range ctx.depth {
			ctx.depth[i] = ctx.clearDepth
		}
	}
}

func (ctx *Context) Viewport(x, y, width, height int) {
	if width < 0 || height < 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	ctx.viewport = [4]int{x, y, width, height}
}

func (ctx *Context) Enable(cap gl.Enum)  { ctx.setCap(cap, true) }
func (ctx *Context) Disable(cap gl.Enum) { ctx.setCap(cap, false) }

func (ctx *Context) setCap(cap gl.Enum, on bool) {
	switch cap {
	case gl.DEPTH_TEST:
		ctx.depthTest = on
	case gl.BLEND:
		ctx.blend = on
	case gl.CULL_FACE, gl.SCISSOR_TEST, gl.STENCIL_TEST, gl.DITHER:
		// Accepted and ignored. Dithering has no effect on 8-bit channels.
	default:
		ctx.setError(gl.INVALID_ENUM)
	}
}

func (ctx *Context) IsEnabled(cap gl.Enum) bool {
	switch cap {
	case gl.DEPTH_TEST:
		return ctx.depthTest
	case gl.BLEND:
		return ctx.blend
	}
	return false
}

func (ctx *Context) DepthFunc(fn gl.Enum) {
	switch fn {
	case gl.NEVER, gl.LESS, gl.EQUAL, gl.LEQUAL, gl.GREATER, gl.NOTEQUAL, gl.GEQUAL, gl.ALWAYS:
		ctx.depthFunc = fn
	default:
		ctx.setError(gl.INVALID_ENUM)
	}
}

func (ctx *Context) BlendFunc(sfactor, dfactor gl.Enum) {
	if !validBlendFactor(sfactor) || !validBlendFactor(dfactor) {
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	ctx.blendSrc, ctx.blendDst = sfactor, dfactor
}

func validBlendFactor(f gl.Enum) bool {
	switch f {
	case gl.ZERO, gl.ONE, gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.DST_ALPHA, gl.ONE_MINUS_DST_ALPHA:
		return true
	}
	return false
}
