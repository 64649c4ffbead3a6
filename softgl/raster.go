package softgl

import (
	"encoding/binary"
	"math"

	"golang.org/x/mobile/gl"
)

// vertex is a transformed vertex in window coordinates. z is the window depth
// in [0, 1].
type vertex struct {
	x, y, z float64
}

func (ctx *Context) DrawArrays(mode gl.Enum, first, count int) {
	if first < 0 || count < 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = first + i
	}
	ctx.draw(mode, idx)
}

func (ctx *Context) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	if count < 0 || offset < 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	var size int
	switch ty {
	case gl.UNSIGNED_BYTE:
		size = 1
	case gl.UNSIGNED_SHORT:
		size = 2
	default:
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	eb := ctx.buffers[ctx.elementBuf]
	if eb == nil || offset%size != 0 || offset > len(eb.data) || count > (len(eb.data)-offset)/size {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	idx := make([]int, count)
	for i := range idx {
		p := offset + i*size
		if size == 1 {
			idx[i] = int(eb.data[p])
		} else {
			idx[i] = int(binary.LittleEndian.Uint16(eb.data[p:]))
		}
	}
	ctx.draw(mode, idx)
}

// draw runs the current program over the vertices named by idx and
// rasterizes every complete triangle. Vertex fetches outside the attribute
// buffer are an INVALID_OPERATION and nothing is drawn, as WebGL requires.
func (ctx *Context) draw(mode gl.Enum, idx []int) {
	switch mode {
	case gl.TRIANGLES:
	case gl.POINTS, gl.LINES, gl.LINE_LOOP, gl.LINE_STRIP, gl.TRIANGLE_STRIP, gl.TRIANGLE_FAN:
		// Valid modes that this context cannot rasterize.
		ctx.setError(gl.INVALID_OPERATION)
		return
	default:
		ctx.setError(gl.INVALID_ENUM)
		return
	}
	pr := ctx.programs[ctx.current]
	if pr == nil || !pr.linked {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}

	verts := make([]vertex, len(idx))
	for i, j := range idx {
		in, ok := ctx.fetch(0, pr.vertex.size, j)
		if !ok {
			ctx.setError(gl.INVALID_OPERATION)
			return
		}
		v, ok := ctx.transform(pr.vertex.position(in))
		if !ok {
			// Clipping is not implemented. A vertex behind the eye drops
			// the whole triangle.
			v.z = math.NaN()
		}
		verts[i] = v
	}
	color := pr.fragment.color
	for i := 0; i+2 < len(verts); i += 3 {
		ctx.rasterize(verts[i], verts[i+1], verts[i+2], color)
	}
}

// fetch reads n float components of vertex i from attribute loc. A disabled
// attribute reads as zero.
func (ctx *Context) fetch(loc, n, i int) ([]float32, bool) {
	in := make([]float32, n)
	a := ctx.attribs[loc]
	if !a.enabled {
		return in, true
	}
	b := ctx.buffers[a.buf]
	if b == nil {
		return nil, false
	}
	stride := a.stride
	if stride == 0 {
		stride = a.size * 4
	}
	base := a.offset + i*stride
	if base+a.size*4 > len(b.data) {
		return nil, false
	}
	for k := 0; k < n && k < a.size; k++ {
		in[k] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[base+k*4:]))
	}
	return in, true
}

// transform applies the perspective divide and the viewport transform.
func (ctx *Context) transform(p [4]float32) (vertex, bool) {
	w := float64(p[3])
	if w <= 0 {
		return vertex{}, false
	}
	nx, ny, nz := float64(p[0])/w, float64(p[1])/w, float64(p[2])/w
	vx, vy, vw, vh := ctx.viewport[0], ctx.viewport[1], ctx.viewport[2], ctx.viewport[3]
	return vertex{
		x: (nx+1)*float64(vw)/2 + float64(vx),
		y: (ny+1)*float64(vh)/2 + float64(vy),
		z: (nz + 1) / 2,
	}, true
}

func edge(a, b vertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether the directed edge a->b of a counter-clockwise
// triangle is a top or left edge. Samples exactly on such an edge are
// covered, samples on other edges are not, so triangles sharing an edge never
// both cover a sample.
func topLeft(a, b vertex) bool {
	return (a.y == b.y && b.x < a.x) || b.y < a.y
}

func covers(w float64, tl bool) bool {
	return w > 0 || (w == 0 && tl)
}

// rasterize fills the samples at pixel centers covered by triangle v0 v1 v2.
func (ctx *Context) rasterize(v0, v1, v2 vertex, color [4]float32) {
	if math.IsNaN(v0.z) || math.IsNaN(v1.z) || math.IsNaN(v2.z) {
		return
	}
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	// Bounds are the triangle box clipped to the viewport and framebuffer.
	vx, vy := ctx.viewport[0], ctx.viewport[1]
	minX := max(int(math.Floor(math.Min(v0.x, math.Min(v1.x, v2.x)))), vx, 0)
	minY := max(int(math.Floor(math.Min(v0.y, math.Min(v1.y, v2.y)))), vy, 0)
	maxX := min(int(math.Ceil(math.Max(v0.x, math.Max(v1.x, v2.x)))), vx+ctx.viewport[2], ctx.width)
	maxY := min(int(math.Ceil(math.Max(v0.y, math.Max(v1.y, v2.y)))), vy+ctx.viewport[3], ctx.height)

	tl0, tl1, tl2 := topLeft(v1, v2), topLeft(v2, v0), topLeft(v0, v1)
	for y := minY; y < maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v1, v2, px, py)
			w1 := edge(v2, v0, px, py)
			w2 := edge(v0, v1, px, py)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}
			z := (w0*v0.z + w1*v1.z + w2*v2.z) / area
			if z < 0 || z > 1 {
				continue
			}
			ctx.fragment(x, y, float32(z), color)
		}
	}
}

// fragment runs the per-sample operations: depth test, blending and the
// write into the 8-bit color buffer.
func (ctx *Context) fragment(x, y int, z float32, src [4]float32) {
	i := y*ctx.width + x
	if ctx.depthTest {
		if !depthPass(ctx.depthFunc, z, ctx.depth[i]) {
			return
		}
		ctx.depth[i] = z
	}
	px := ctx.color[i*4 : i*4+4]
	for k := range src {
		src[k] = clamp01(src[k])
	}
	out := src
	if ctx.blend {
		var dst [4]float32
		for k := range dst {
			dst[k] = float32(px[k]) / 255
		}
		sf := blendFactor(ctx.blendSrc, src, dst)
		df := blendFactor(ctx.blendDst, src, dst)
		for k := range out {
			out[k] = src[k]*sf + dst[k]*df
		}
	}
	for k := range out {
		px[k] = quantize(out[k])
	}
}

func depthPass(fn gl.Enum, z, stored float32) bool {
	switch fn {
	case gl.NEVER:
		return false
	case gl.LESS:
		return z < stored
	case gl.EQUAL:
		return z == stored
	case gl.LEQUAL:
		return z <= stored
	case gl.GREATER:
		return z > stored
	case gl.NOTEQUAL:
		return z != stored
	case gl.GEQUAL:
		return z >= stored
	}
	return true
}

func blendFactor(f gl.Enum, src, dst [4]float32) float32 {
	switch f {
	case gl.ZERO:
		return 0
	case gl.SRC_ALPHA:
		return src[3]
	case gl.ONE_MINUS_SRC_ALPHA:
		return 1 - src[3]
	case gl.DST_ALPHA:
		return dst[3]
	case gl.ONE_MINUS_DST_ALPHA:
		return 1 - dst[3]
	}
	return 1
}

func clamp01(x float32) float32 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// quantize converts a channel to 8 bits, rounding to nearest.
func quantize(x float32) uint8 {
	return uint8(math.Floor(float64(clamp01(x))*255 + 0.5))
}
