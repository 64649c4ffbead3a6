package softgl

import (
	"image"
	"image/color"

	"golang.org/x/mobile/gl"
)

// ReadPixels copies a width by height block of the color buffer into dst,
// starting at window position x, y. Rows are written bottom row first like
// GL. Only RGBA and UNSIGNED_BYTE are supported. Pixels outside the
// framebuffer leave dst untouched.
func (ctx *Context) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	if width < 0 || height < 0 {
		ctx.setError(gl.INVALID_VALUE)
		return
	}
	if format != gl.RGBA || ty != gl.UNSIGNED_BYTE {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	if len(dst) < width*height*4 {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	for row := 0; row < height; row++ {
		fy := y + row
		if fy < 0 || fy >= ctx.height {
			continue
		}
		for col := 0; col < width; col++ {
			fx := x + col
			if fx < 0 || fx >= ctx.width {
				continue
			}
			src := (fy*ctx.width + fx) * 4
			off := (row*width + col) * 4
			copy(dst[off:off+4], ctx.color[src:src+4])
		}
	}
}

// Pixel returns the color buffer value at window position x, y, where y
// counts up from the bottom row. Positions outside the framebuffer return
// the zero color.
func (ctx *Context) Pixel(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= ctx.width || y >= ctx.height {
		return color.NRGBA{}
	}
	i := (y*ctx.width + x) * 4
	p := ctx.color[i : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Depth returns the depth buffer value at window position x, y.
func (ctx *Context) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= ctx.width || y >= ctx.height {
		return 0
	}
	return ctx.depth[y*ctx.width+x]
}

// Image returns a copy of the color buffer with the top row first, as a
// window system would present it. Colors are not premultiplied.
func (ctx *Context) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, ctx.width, ctx.height))
	rowLen := ctx.width * 4
	for y := 0; y < ctx.height; y++ {
		src := ctx.color[(ctx.height-1-y)*rowLen : (ctx.height-y)*rowLen]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}
