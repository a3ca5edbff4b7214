package multisource

import (
	"log/slog"

	"github.com/gogpu/multisource/effect"
	"github.com/gogpu/multisource/gfx"
	"github.com/gogpu/multisource/source"
)

// Stats counts what a composite has done since creation.
type Stats struct {
	Ticks        int // Tick calls
	Frames       int // Render calls that ran the effect
	SlotRenders  int // sources rendered into their targets
	CacheHits    int // slot renders skipped because the flag was set
	SkippedSlots int // slots whose target could not be begun or allocated
	Draws        int // sprite draws, one per technique pass
	Resolves     int // tick-time re-resolution attempts
	Effect       effect.LoaderStats
}

// Composite renders up to MaxSources sources through one effect.
//
// Composite is driven by a single host thread and is not safe for
// concurrent use.
type Composite struct {
	g      gfx.Graphics
	ns     Namespace
	opts   options
	loader *effect.Loader

	settings Settings
	n        int
	slots    [MaxSources]slot

	visible   bool
	destroyed bool

	inWidth  guard
	inHeight guard
	inEnum   guard
	inRender guard

	stats Stats
}

// New creates a composite from a settings snapshot. g is the backend
// offscreen targets and the effect are created on, ns resolves source
// names.
func New(d Data, g gfx.Graphics, ns Namespace, opts ...Option) *Composite {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Composite{
		g:       g,
		ns:      ns,
		opts:    o,
		visible: true,
		loader: effect.NewLoader(g,
			effect.WithFS(o.fs),
			effect.WithClock(o.now),
			effect.WithCache(o.cache),
		),
	}
	for i := range c.slots {
		c.slots[i].index = i
	}

	if dh, ok := g.(gfx.DeviceHandle); ok {
		info := dh.AdapterInfo()
		c.logger().Debug("multisource: created",
			"adapter", info.Name, "adapter_type", info.Type.String(),
			"format", gfx.TargetFormat(g))
	}

	c.Update(d)
	return c
}

func (c *Composite) logger() *slog.Logger {
	if c.opts.name == "" {
		return Logger()
	}
	return Logger().With("composite", c.opts.name)
}

// Update applies a new settings snapshot. Slots whose name changed are
// resolved immediately. The effect is reloaded when its path or the
// bypass flag changed, or when there is no program yet.
func (c *Composite) Update(d Data) {
	if c.destroyed {
		return
	}
	s := LoadSettings(d)
	c.settings = s
	c.n = s.NumSources

	for i := range c.slots {
		sl := &c.slots[i]
		if sl.setName(s.Sources[i], c.ns) {
			c.logger().Debug("multisource: slot configured",
				"slot", i, "source", sl.name, "resolved", sl.resolved())
		}
	}

	c.releaseInactiveTargets()

	c.loader.Update(s.Effect, s.BypassCache)
}

// releaseInactiveTargets destroys the targets of slots past n.
func (c *Composite) releaseInactiveTargets() {
	var stale bool
	for i := c.n; i < MaxSources; i++ {
		stale = stale || c.slots[i].target != nil
	}
	if !stale {
		return
	}
	c.g.Enter()
	defer c.g.Leave()
	for i := c.n; i < MaxSources; i++ {
		c.slots[i].releaseTarget(c.g)
	}
}

// Destroy releases the effect, all offscreen targets and all weak
// references. Calls after the first are no-ops.
func (c *Composite) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	c.g.Enter()
	c.loader.Destroy()
	for i := range c.slots {
		c.slots[i].releaseTarget(c.g)
	}
	c.g.Leave()

	for i := range c.slots {
		c.slots[i].releaseWeak()
	}
}

// Settings returns the effective configuration.
func (c *Composite) Settings() Settings {
	return c.settings
}

// Stats returns the composite's counters.
func (c *Composite) Stats() Stats {
	st := c.stats
	st.Effect = c.loader.Stats()
	return st
}

// Program returns the current effect program, or nil.
func (c *Composite) Program() *effect.Program {
	return c.loader.Program()
}

// Show marks the composite as visible. Only visible composites poll their
// effect file for changes.
func (c *Composite) Show() { c.visible = true }

// Hide marks the composite as hidden.
func (c *Composite) Hide() { c.visible = false }

// Visible reports whether the composite is shown.
func (c *Composite) Visible() bool { return c.visible }

// Width returns the largest width among the active slots' sources, or 0.
// A nested call on the same composite returns 0.
func (c *Composite) Width() uint32 {
	if !c.inWidth.enter() {
		return 0
	}
	defer c.inWidth.leave()
	return c.maxSize((*source.Ref).Width)
}

// Height returns the largest height among the active slots' sources, or 0.
// A nested call on the same composite returns 0.
func (c *Composite) Height() uint32 {
	if !c.inHeight.enter() {
		return 0
	}
	defer c.inHeight.leave()
	return c.maxSize((*source.Ref).Height)
}

func (c *Composite) maxSize(dim func(*source.Ref) uint32) uint32 {
	var size uint32
	for i := 0; i < c.n; i++ {
		ref := c.slots[i].acquire()
		if ref == nil {
			continue
		}
		size = max(size, dim(ref))
		ref.Release()
	}
	return size
}

// EnumActiveSources calls fn once for each distinct source resolved by an
// active slot. The ref is released after fn returns. A nested enumeration
// on the same composite returns immediately.
func (c *Composite) EnumActiveSources(fn func(child *source.Ref)) {
	if !c.inEnum.enter() {
		return
	}
	defer c.inEnum.leave()

	var seen []*source.Ref
	defer func() {
		for _, ref := range seen {
			ref.Release()
		}
	}()

	for i := 0; i < c.n; i++ {
		ref := c.slots[i].acquire()
		if ref == nil {
			continue
		}
		if containsRef(seen, ref) {
			ref.Release()
			continue
		}
		seen = append(seen, ref)
		fn(ref)
	}
}

func containsRef(refs []*source.Ref, ref *source.Ref) bool {
	for _, r := range refs {
		if r.Is(ref) {
			return true
		}
	}
	return false
}

// Tick starts a new frame: it clears the per-slot render flags,
// re-resolves stale slots and drives the effect staleness monitor.
func (c *Composite) Tick() {
	if c.destroyed {
		return
	}
	c.stats.Ticks++

	for i := range c.slots {
		c.slots[i].rendered = false
	}

	for i := 0; i < c.n; i++ {
		sl := &c.slots[i]
		if !sl.revalidate(c.ns) {
			continue
		}
		c.stats.Resolves++
		if sl.resolved() {
			c.logger().Info("multisource: source resolved", "slot", i, "source", sl.name)
		} else {
			c.logger().Debug("multisource: source not found", "slot", i, "source", sl.name)
		}
	}

	c.loader.Tick(c.visible)
}

var (
	_ source.Source     = (*Composite)(nil)
	_ source.Enumerator = (*Composite)(nil)
	_ source.Destroyer  = (*Composite)(nil)
)
