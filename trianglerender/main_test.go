package main

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestRender(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 20
	img, err := render(cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("image bounds = %v, want 40x20", b)
	}
	// Row 0 of the image is the top of the surface, which the triangle
	// never reaches.
	bg := color.NRGBA{R: 128, G: 128, B: 128, A: 229}
	if c := img.NRGBAAt(0, 0); c != bg {
		t.Errorf("top left = %v, want the clear color %v", c, bg)
	}
	if c := img.NRGBAAt(12, 14); c == bg {
		t.Errorf("pixel inside the triangle was not drawn")
	}
}

func TestSave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 8
	img, err := render(cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "out.png")
	if err := save(pngPath, img); err != nil {
		t.Fatalf("save png: %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("png bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}

	bmpPath := filepath.Join(dir, "out.bmp")
	if err := save(bmpPath, img); err != nil {
		t.Fatalf("save bmp: %v", err)
	}
	f, err := os.Open(bmpPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	conf, err := bmp.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding bmp: %v", err)
	}
	if conf.Width != 16 || conf.Height != 8 {
		t.Errorf("bmp size %dx%d, want 16x8", conf.Width, conf.Height)
	}

	if err := save(filepath.Join(dir, "out.gif"), img); err == nil {
		t.Errorf("save accepted a .gif path")
	}
}

func TestWriteSPIRV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.spv")
	if err := writeSPIRV(path, DefaultConfig()); err != nil {
		t.Fatalf("writeSPIRV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 20 || data[0] != 0x03 || data[1] != 0x02 || data[2] != 0x23 || data[3] != 0x07 {
		t.Errorf("output does not start with the SPIR-V magic word")
	}
}
