// Command trianglerender draws the triangle scene without a window or GPU and
// writes the frame to an image file.
//
//	$ trianglerender -width 640 -height 480 -output triangle.png
//	$ trianglerender -config render.yaml -output triangle.bmp
//	$ trianglerender -config render.yaml -spirv triangle.spv
//
// Flags given on the command line override values read from -config. The
// SPIR-V module written by -spirv uses the configured fragment color.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/bmatsuo/gl-triangle/softgl"
	"github.com/bmatsuo/gl-triangle/tri"
	"golang.org/x/image/bmp"
)

// command holds the parsed command line.
type command struct {
	width      int
	height     int
	output     string
	configPath string
	spirv      string
	verbose    bool
}

func (c *command) register(fs *flag.FlagSet) {
	def := DefaultConfig()
	fs.IntVar(&c.width, "width", def.Width, "image width")
	fs.IntVar(&c.height, "height", def.Height, "image height")
	fs.StringVar(&c.output, "output", def.Output, "output file (.png or .bmp)")
	fs.StringVar(&c.configPath, "config", "", "YAML render configuration")
	fs.StringVar(&c.spirv, "spirv", "", "write the WGSL scene shaders as SPIR-V to this file and exit")
	fs.BoolVar(&c.verbose, "v", false, "log debug output")
}

// config loads the -config file, if any, applies the flags set explicitly
// in fs on top of it and validates the result.
func (c *command) config(fs *flag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	if c.configPath != "" {
		var err error
		cfg, err = LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = c.width
		case "height":
			cfg.Height = c.height
		case "output":
			cfg.Output = c.output
		}
	})
	if err := cfg.Validate(); err != nil {
		if c.configPath != "" {
			return nil, fmt.Errorf("config file %s: %w", c.configPath, err)
		}
		return nil, err
	}
	return cfg, nil
}

func main() {
	var cmd command
	cmd.register(flag.CommandLine)
	flag.Parse()

	if cmd.verbose {
		tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := cmd.config(flag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}

	if cmd.spirv != "" {
		if err := writeSPIRV(cmd.spirv, cfg); err != nil {
			log.Fatal(err)
		}
		log.Printf("SPIR-V saved to %s", cmd.spirv)
		return
	}

	img, err := render(cfg)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := save(cfg.Output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Triangle saved to %s (%dx%d)", cfg.Output, cfg.Width, cfg.Height)
}

// render draws one frame of the scene described by cfg into a fresh
// software context.
func render(cfg *Config) (*image.NRGBA, error) {
	ctx := softgl.New(cfg.Width, cfg.Height)
	s, err := tri.NewScene(ctx, tri.DefaultGeometry(), cfg.Options())
	if err != nil {
		return nil, err
	}
	defer s.Release()
	if err := s.Draw(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return ctx.Image(), nil
}

// save encodes img in the format named by the extension of path.
func save(path string, img image.Image) (err error) {
	format, err := outputFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case "bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

func writeSPIRV(path string, cfg *Config) error {
	code, err := tri.SPIRVColor(cfg.Options().FragmentColor)
	if err != nil {
		return err
	}
	return os.WriteFile(path, code, 0o644)
}
