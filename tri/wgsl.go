package tri

import (
	"fmt"

	"github.com/gogpu/naga"
)

// WGSLShader is the triangle pipeline written for WebGPU hosts. Location 0
// receives the same vertex positions as CoordinatesAttrib. It is
// WGSLShaderColor applied to the default fragment color.
const WGSLShader = `
@vertex
fn vs_main(@location(0) coordinates: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(coordinates, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 0.1);
}
`

// WGSLShaderColor returns WGSLShader with a fragment stage that writes c.
func WGSLShaderColor(c Color) string {
	return fmt.Sprintf(`
@vertex
fn vs_main(@location(0) coordinates: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(coordinates, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(%s, %s, %s, %s);
}
`, glslFloat(c[0]), glslFloat(c[1]), glslFloat(c[2]), glslFloat(c[3]))
}

// SPIRV cross-compiles WGSLShader into a SPIR-V module with entry points
// vs_main and fs_main.
func SPIRV() ([]byte, error) {
	return compileWGSL(WGSLShader)
}

// SPIRVColor is like SPIRV with the fragment stage writing c.
func SPIRVColor(c Color) ([]byte, error) {
	return compileWGSL(WGSLShaderColor(c))
}

func compileWGSL(src string) ([]byte, error) {
	b, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("tri: compiling wgsl: %w", err)
	}
	Logger().Debug("tri: spir-v compiled", "bytes", len(b))
	return b, nil
}
