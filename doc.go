// Package multisource composites several video sources through one effect.
//
// # Overview
//
// A Composite takes up to MaxSources named sources, renders each of them
// into its own offscreen target at most once per frame, and hands the
// resulting textures to a WGSL effect that draws the output frame.
//
//	reg := source.NewRegistry()
//	g := gfx.Best()
//
//	data := multisource.MapData{}
//	multisource.Settings{
//	    Effect:     "examples/effects/crossfade.wgsl",
//	    NumSources: 2,
//	    Sources:    [multisource.MaxSources]string{"camera", "slides"},
//	}.Save(data)
//
//	c := multisource.New(data, g, reg)
//	defer c.Destroy()
//
//	for range frames {
//	    c.Tick()
//	    c.Render(g)
//	}
//
// # Frame model
//
// The host calls Tick once per frame and Render, Width, Height and
// EnumActiveSources any number of times. Tick resets the per-slot render
// flags, re-resolves slots whose source was removed or renamed and drives
// the effect staleness monitor. Render draws every resolvable slot whose
// flag is clear into its target, then runs every pass of the effect's
// "Draw" technique over a sprite the size of the largest source.
//
// # Effect parameters
//
// Slot i is bound to the texture parameter "src<i>". Slots without a
// source leave their parameter unbound. If the effect declares an integer
// parameter "n_src" it receives the active slot count.
//
// # Source references
//
// Slots store the configured source name and a *source.Weak. Composites
// never hold a strong reference across calls, so removing a source from
// the registry is never blocked by a composite that uses it. Composites are
// sources themselves and can be registered and used as inputs of other
// composites; width, height, enumeration and render are guarded against
// reentry on the same instance.
//
// # Logging
//
// The package logs through log/slog. By default nothing is logged; call
// SetLogger to enable it.
package multisource
