package tri

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"golang.org/x/mobile/exp/f32"
)

func TestDefaultGeometry(t *testing.T) {
	g := DefaultGeometry()
	err := g.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	vb := g.VertexBytes()
	if len(vb) != 9*4 {
		t.Fatalf("vertex data is %d bytes, want 36", len(vb))
	}
	want := []float32{-0.5, 0.5, 0, -0.5, -0.5, 0, 0.5, -0.5, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(vb[4*i:]))
		if got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}

	ib := g.IndexBytes()
	if len(ib) != 6 {
		t.Fatalf("index data is %d bytes, want 6", len(ib))
	}
	for i := 0; i < 3; i++ {
		if v := binary.LittleEndian.Uint16(ib[2*i:]); int(v) != i {
			t.Errorf("index %d = %d, want %d", i, v, i)
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	verts := []f32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	tests := []struct {
		name    string
		geom    Geometry
		ok      bool
		inRange bool
	}{
		{"valid", Geometry{Vertices: verts, Indices: []uint16{0, 1, 2}}, true, true},
		{"reused vertices", Geometry{Vertices: verts, Indices: []uint16{0, 1, 2, 2, 1, 0}}, true, true},
		{"no vertices", Geometry{Indices: []uint16{0, 1, 2}}, false, true},
		{"no indices", Geometry{Vertices: verts}, false, true},
		{"partial triangle", Geometry{Vertices: verts, Indices: []uint16{0, 1}}, false, true},
		{"out of range", Geometry{Vertices: verts, Indices: []uint16{0, 1, 3}}, false, false},
	}
	for _, test := range tests {
		err := test.geom.Validate()
		if (err == nil) != test.ok {
			t.Errorf("%s: Validate = %v, want ok=%v", test.name, err, test.ok)
		}
		if errors.Is(err, ErrIndexRange) == test.inRange {
			t.Errorf("%s: errors.Is(%v, ErrIndexRange) = %v", test.name, err, !test.inRange)
		}
	}
}

func TestFragmentShaderColor(t *testing.T) {
	tests := []struct {
		in   Color
		want string
	}{
		{Color{0, 0, 0, 0.1}, "gl_FragColor = vec4(0.0, 0.0, 0.0, 0.1);"},
		{Color{1, 0.5, 0.25, 1}, "gl_FragColor = vec4(1.0, 0.5, 0.25, 1.0);"},
	}
	for _, test := range tests {
		src := FragmentShaderColor(test.in)
		if !strings.Contains(src, test.want) {
			t.Errorf("FragmentShaderColor(%v) = %q, missing %q", test.in, src, test.want)
		}
	}
	if got := FragmentShaderColor(DefaultOptions().FragmentColor); got != FragmentShader {
		t.Errorf("FragmentShaderColor(default) = %q, want FragmentShader %q", got, FragmentShader)
	}
}
