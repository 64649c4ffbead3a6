package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmatsuo/gl-triangle/tri"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if got, want := cfg.Options(), tri.DefaultOptions(); got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("default size %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
width: 32
output: out.bmp
fragment_color: [1, 0, 0, 1]
blend: false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 480 {
		t.Errorf("size %dx%d, want 32x480", cfg.Width, cfg.Height)
	}
	if cfg.Output != "out.bmp" {
		t.Errorf("output = %q", cfg.Output)
	}
	opts := cfg.Options()
	if opts.FragmentColor != (tri.Color{1, 0, 0, 1}) {
		t.Errorf("fragment color = %v", opts.FragmentColor)
	}
	if opts.ClearColor != tri.DefaultOptions().ClearColor {
		t.Errorf("clear color = %v, want the default", opts.ClearColor)
	}
	if opts.Blend {
		t.Errorf("blend left enabled")
	}
	if !opts.DepthTest {
		t.Errorf("depth test disabled without being set")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "width: ["))
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("bad yaml: err = %v", err)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

// parseCommand registers the command flags on a fresh flag set, parses args
// and resolves the configuration.
func parseCommand(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var cmd command
	set := flag.NewFlagSet("trianglerender", flag.ContinueOnError)
	cmd.register(set)
	if err := set.Parse(args); err != nil {
		t.Fatalf("parsing %q: %v", args, err)
	}
	return cmd.config(set)
}

func TestCommandConfig(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		args   []string
		want   string // error substring, empty for success
		width  int
		height int
		output string
	}{
		{
			name: "defaults", width: 640, height: 480, output: "triangle.png",
		},
		{
			name: "flags only", args: []string{"-width", "32", "-output", "x.bmp"},
			width: 32, height: 480, output: "x.bmp",
		},
		{
			name: "file only", body: "width: 50\nheight: 60\noutput: f.bmp",
			width: 50, height: 60, output: "f.bmp",
		},
		{
			name: "flags override file", body: "width: 50\nheight: 60\noutput: f.bmp",
			args:  []string{"-height", "7", "-output", "x.png"},
			width: 50, height: 7, output: "x.png",
		},
		{
			name: "flag replaces bad output", body: "output: frame.jpg",
			args:  []string{"-output", "x.png"},
			width: 640, height: 480, output: "x.png",
		},
		{
			name: "flag replaces bad width", body: "width: 0",
			args:  []string{"-width", "100"},
			width: 100, height: 480, output: "triangle.png",
		},
		{name: "bad output in file", body: "output: frame.jpg", want: "unsupported output format"},
		{name: "bad size in file", body: "height: 0", want: "invalid size"},
		{name: "bad size flag", args: []string{"-width", "-3"}, want: "invalid size"},
		{name: "short color", body: "clear_color: [1, 1, 1]", want: "clear_color"},
		{name: "color range", body: "fragment_color: [0, 0, 2, 1]", want: "outside"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			args := test.args
			if test.body != "" {
				args = append([]string{"-config", writeConfig(t, test.body)}, args...)
			}
			cfg, err := parseCommand(t, args...)
			if test.want != "" {
				if err == nil || !strings.Contains(err.Error(), test.want) {
					t.Fatalf("err = %v, want one mentioning %q", err, test.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			if cfg.Width != test.width || cfg.Height != test.height || cfg.Output != test.output {
				t.Errorf("got %dx%d %q, want %dx%d %q",
					cfg.Width, cfg.Height, cfg.Output, test.width, test.height, test.output)
			}
		})
	}
}
