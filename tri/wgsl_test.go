package tri

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestSPIRV(t *testing.T) {
	b, err := SPIRV()
	if err != nil {
		t.Fatalf("SPIRV: %v", err)
	}
	if len(b) < 20 || len(b)%4 != 0 {
		t.Fatalf("module is %d bytes, want a whole number of words past the header", len(b))
	}
	if magic := binary.LittleEndian.Uint32(b); magic != 0x07230203 {
		t.Errorf("magic = 0x%08x, want 0x07230203", magic)
	}
}

func TestWGSLShaderColor(t *testing.T) {
	if got := WGSLShaderColor(DefaultOptions().FragmentColor); got != WGSLShader {
		t.Errorf("WGSLShaderColor(default) differs from WGSLShader:\n%s", got)
	}
	src := WGSLShaderColor(Color{1, 0.5, 0, 1})
	if !strings.Contains(src, "vec4<f32>(1.0, 0.5, 0.0, 1.0)") {
		t.Errorf("fragment stage does not write the given color:\n%s", src)
	}

	b, err := SPIRVColor(Color{1, 0.5, 0, 1})
	if err != nil {
		t.Fatalf("SPIRVColor: %v", err)
	}
	def, err := SPIRV()
	if err != nil {
		t.Fatalf("SPIRV: %v", err)
	}
	if bytes.Equal(b, def) {
		t.Errorf("SPIRVColor ignored the fragment color")
	}
}
