// Command msfx runs the composites of an HCL scene for a number of frames.
//
// Every frame each composite is ticked and the visible ones are rendered
// into an output canvas on the selected backend. With bypass_cache set,
// edits to an effect file are picked up while the command runs.
//
//	msfx -scene examples/scene.hcl -frames 600 -fps 30 -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/spf13/afero"

	"github.com/gogpu/multisource"
	"github.com/gogpu/multisource/gfx"
	_ "github.com/gogpu/multisource/gfx/record"
	"github.com/gogpu/multisource/internal/scene"
	"github.com/gogpu/multisource/source"
)

func main() {
	var (
		scenePath = flag.String("scene", "examples/scene.hcl", "scene file")
		frames    = flag.Int("frames", 120, "frames to run, 0 runs until interrupted")
		fps       = flag.Int("fps", 30, "frame rate")
		backend   = flag.String("backend", "", "graphics backend (default: best registered)")
		width     = flag.Uint("width", 1280, "output canvas width")
		height    = flag.Uint("height", 720, "output canvas height")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	multisource.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config{
		fs:     afero.NewOsFs(),
		scene:  *scenePath,
		frames: *frames,
		fps:    *fps,
		name:   *backend,
		width:  uint32(*width),
		height: uint32(*height),
	}
	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("msfx failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	fs            afero.Fs
	scene         string
	frames, fps   int
	name          string
	width, height uint32
}

func run(ctx context.Context, logger *slog.Logger, cfg config) error {
	if cfg.fps <= 0 {
		return fmt.Errorf("bad frame rate %d", cfg.fps)
	}

	g, err := openBackend(cfg.name)
	if err != nil {
		return err
	}

	sc, err := scene.Load(cfg.fs, cfg.scene)
	if err != nil {
		return err
	}

	reg := source.NewRegistry()
	comps, err := sc.Populate(reg, g, multisource.WithFS(cfg.fs))
	if err != nil {
		return err
	}
	defer func() {
		for _, name := range reg.Names() {
			_ = reg.Remove(name)
		}
	}()
	logger.Info("scene loaded", "path", cfg.scene, "sources", len(sc.Sources), "composites", len(comps))

	g.Enter()
	canvas, err := g.CreateTarget(gfx.TargetDescriptor{
		Label:  "canvas",
		Width:  cfg.width,
		Height: cfg.height,
		Format: gfx.TargetFormat(g),
	})
	g.Leave()
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	defer func() {
		g.Enter()
		g.DestroyTarget(canvas)
		g.Leave()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.fps))
	defer ticker.Stop()

	start := time.Now()
	n := 0
loop:
	for cfg.frames == 0 || n < cfg.frames {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", "frames", n)
			break loop
		case <-ticker.C:
			frame(g, canvas, comps)
			n++
		}
	}

	elapsed := time.Since(start)
	for _, c := range comps {
		st := c.Stats()
		logger.Info("composite stats",
			"settings", c.Settings().String(),
			"frames", st.Frames,
			"slot_renders", st.SlotRenders,
			"cache_hits", st.CacheHits,
			"skipped", st.SkippedSlots,
			"draws", st.Draws,
			"resolves", st.Resolves,
			"effect_attempts", st.Effect.Attempts,
			"effect_failures", st.Effect.Failures,
			"effect_reloads", st.Effect.Reloads,
		)
	}
	logger.Info("done", "frames", n, "elapsed", elapsed.Round(time.Millisecond))
	return nil
}

// openBackend creates the named backend, or the best registered one.
func openBackend(name string) (gfx.Graphics, error) {
	if name != "" {
		return gfx.New(name)
	}
	g := gfx.Best()
	if g == nil {
		return nil, errors.New("no graphics backend registered")
	}
	return g, nil
}

// frame ticks every composite, then draws the visible ones into canvas
// the way a host draws its scene.
func frame(g gfx.Graphics, canvas gfx.Target, comps []*multisource.Composite) {
	for _, c := range comps {
		c.Tick()
	}
	if !g.BeginTarget(canvas) {
		return
	}
	defer g.EndTarget(canvas)
	g.Clear(gputypes.ColorBlack)
	g.SetProjection(gfx.Ortho(canvas.Width(), canvas.Height()))
	for _, c := range comps {
		if c.Visible() {
			c.Render(g)
		}
	}
}
