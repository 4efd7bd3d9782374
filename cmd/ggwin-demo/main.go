// Command ggwin-demo opens a window and draws a reference scene with gg
// through the selected render backend.
//
// Usage:
//
//	ggwin-demo [-backend auto|software|opengl|vulkan] [-width 800] [-height 600]
//	           [-redraw continuous|on-demand] [-config demo.toml] [-v]
//	ggwin-demo -headless -output frame.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/ggwin"
	"github.com/gogpu/ggwin/backend/opengl"
	"github.com/gogpu/ggwin/backend/software"
	"github.com/gogpu/ggwin/backend/vulkan"
	"github.com/gogpu/ggwin/platform/offscreen"
	"github.com/gogpu/ggwin/platform/shinywin"
)

func init() {
	// glfw and the shiny drivers must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := ParseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("ggwin-demo: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	ggwin.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sc, err := newScene()
	if err != nil {
		log.Fatalf("ggwin-demo: %v", err)
	}

	if cfg.Headless {
		err = runHeadless(cfg, sc)
	} else {
		err = shinywin.Run(shinywin.Options{
			Title: cfg.Title,
			Size:  cfg.Size(),
			Loop:  []ggwin.LoopOption{ggwin.WithRedrawPolicy(cfg.Redraw)},
		}, func(h *ggwin.Handle, c ggwin.Compositor) (*ggwin.Window, error) {
			return openWindow(cfg, h, c)
		}, sc.draw)
	}
	if err != nil {
		if ggwin.IsFatal(err) {
			log.Fatalf("ggwin-demo: %s backend cannot run on this system: %v", cfg.Backend, err)
		}
		log.Fatalf("ggwin-demo: %v", err)
	}
}

// openProvider creates the configured backend for the window behind h.
func openProvider(cfg Config, h *ggwin.Handle) (ggwin.Provider, error) {
	size := h.InnerSize()
	switch cfg.Backend {
	case "auto", "":
		return ggwin.OpenBestProvider(h, size)
	case opengl.Name:
		return opengl.New(h, size, opengl.WithSamples(cfg.Samples))
	case vulkan.Name:
		return vulkan.New(h, size)
	case software.Name:
		return software.New(h, size)
	default:
		return ggwin.OpenProvider(cfg.Backend, h, size)
	}
}

func openWindow(cfg Config, h *ggwin.Handle, c ggwin.Compositor) (*ggwin.Window, error) {
	p, err := openProvider(cfg, h)
	if err != nil {
		return nil, err
	}
	return ggwin.Open(h, p, c)
}

// runHeadless renders a single frame into an offscreen window and saves it.
func runHeadless(cfg Config, sc *scene) error {
	ow := offscreen.New(cfg.Title, cfg.Size(), offscreen.WithFormat(cfg.Format))

	loop := ggwin.NewFrameLoop(sc.draw, ggwin.WithRedrawPolicy(ggwin.RedrawOnDemand))
	err := loop.Open(ggwin.NewHandle(ow), func(h *ggwin.Handle) (*ggwin.Window, error) {
		return openWindow(cfg, h, ow)
	})
	if err != nil {
		return err
	}
	if err := loop.Redraw(); err != nil {
		_ = loop.Close()
		return err
	}
	backend := loop.Window().Provider().Name()
	if err := loop.Close(); err != nil {
		return err
	}

	if err := ow.SavePNG(cfg.Output); err != nil {
		return fmt.Errorf("save %s: %w", cfg.Output, err)
	}
	ggwin.Logger().Info("frame written", "backend", backend, "size", cfg.Size().String(), "path", cfg.Output)
	return nil
}
