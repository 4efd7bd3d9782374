package main

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/ggwin"
)

// Config holds the demo settings. Values come from the defaults, then the
// optional TOML file, then explicitly set flags.
type Config struct {
	Backend  string             `toml:"backend"`
	Width    int                `toml:"width"`
	Height   int                `toml:"height"`
	Title    string             `toml:"title"`
	Redraw   ggwin.RedrawPolicy `toml:"redraw"`
	Format   ggwin.PixelFormat  `toml:"format"`
	Samples  int                `toml:"samples"`
	Headless bool               `toml:"headless"`
	Output   string             `toml:"output"`
	Verbose  bool               `toml:"verbose"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Backend: "auto",
		Width:   800,
		Height:  600,
		Title:   "ggwin demo",
		Redraw:  ggwin.RedrawContinuous,
		Format:  ggwin.FormatBGRA8Premul,
		Samples: 4,
		Output:  "ggwin-demo.png",
	}
}

// Size returns the initial window size.
func (c Config) Size() ggwin.Size {
	return ggwin.Sz(c.Width, c.Height)
}

// Validate reports settings no window can be opened with.
func (c Config) Validate() error {
	if c.Size().Empty() {
		return fmt.Errorf("invalid window size %s", c.Size())
	}
	if c.Samples < 0 {
		return fmt.Errorf("invalid sample count %d", c.Samples)
	}
	if c.Headless && c.Output == "" {
		return fmt.Errorf("headless mode needs an output file")
	}
	return nil
}

// LoadConfigFile decodes the TOML file at path over cfg. Keys missing from
// the file keep their current values.
func LoadConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// ParseConfig builds the configuration from command-line arguments.
func ParseConfig(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("ggwin-demo", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file; flags override its values")
	backend := fs.String("backend", cfg.Backend, "render backend: auto, software, opengl or vulkan")
	width := fs.Int("width", cfg.Width, "initial window width in pixels")
	height := fs.Int("height", cfg.Height, "initial window height in pixels")
	title := fs.String("title", cfg.Title, "window title")
	samples := fs.Int("samples", cfg.Samples, "OpenGL multisample count")
	headless := fs.Bool("headless", cfg.Headless, "render one frame offscreen and write it to -output")
	output := fs.String("output", cfg.Output, "PNG file written in headless mode")
	verbose := fs.Bool("v", cfg.Verbose, "enable debug logging")
	redraw := cfg.Redraw
	fs.TextVar(&redraw, "redraw", cfg.Redraw, "redraw policy: continuous or on-demand")
	format := cfg.Format
	fs.TextVar(&format, "format", cfg.Format, "headless buffer byte order: bgra8-premul or rgba8-premul")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments %v", fs.Args())
	}

	if *configPath != "" {
		if err := LoadConfigFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "title":
			cfg.Title = *title
		case "samples":
			cfg.Samples = *samples
		case "headless":
			cfg.Headless = *headless
		case "output":
			cfg.Output = *output
		case "v":
			cfg.Verbose = *verbose
		case "redraw":
			cfg.Redraw = redraw
		case "format":
			cfg.Format = format
		}
	})
	return cfg, cfg.Validate()
}
