package tri

import (
	"fmt"
	"strconv"
	"strings"
)

// CoordinatesAttrib is the vertex shader input holding vertex positions.
const CoordinatesAttrib = "coordinates"

// VertexShader passes vertex positions through unchanged.
const VertexShader = `#version 100

attribute vec3 coordinates;

void main(void) {
	gl_Position = vec4(coordinates, 1.0);
}`

// FragmentShader fills every fragment with the default fragment color, a
// nearly transparent black. It is FragmentShaderColor applied to that color.
const FragmentShader = `#version 100
precision mediump float;

void main(void) {
	gl_FragColor = vec4(0.0, 0.0, 0.0, 0.1);
}`

// FragmentShaderColor returns the source of a fragment shader that fills
// every fragment with c.
func FragmentShaderColor(c Color) string {
	return fmt.Sprintf(`#version 100
precision mediump float;

void main(void) {
	gl_FragColor = vec4(%s, %s, %s, %s);
}`, glslFloat(c[0]), glslFloat(c[1]), glslFloat(c[2]), glslFloat(c[3]))
}

// glslFloat formats x as a GLSL floating point literal. A bare integer such
// as "1" would be an int literal so a decimal point is always present.
func glslFloat(x float32) string {
	s := strconv.FormatFloat(float64(x), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
