package multisource

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/multisource/effect"
	"github.com/gogpu/multisource/gfx"
)

// Render draws the composite into the currently bound target.
//
// Each active slot's source is rendered into the slot's offscreen target
// unless it already was since the last Tick. The effect then runs once
// over a sprite as large as the largest source. Without a program, or when
// no slot resolves, nothing is drawn.
//
// All drawing goes to the backend the composite was created with; the
// argument exists to satisfy source.Source and must be that backend. A
// nested Render of the same composite, as happens when it is its own
// input, draws nothing.
func (c *Composite) Render(gfx.Graphics) {
	if c.destroyed || !c.inRender.enter() {
		return
	}
	defer c.inRender.leave()

	prog := c.loader.Program()
	if prog == nil {
		return
	}

	g := c.g
	g.PushBlend()
	g.ResetBlend()
	defer g.PopBlend()

	var (
		width, height uint32
		textures      [MaxSources]gfx.Texture
	)
	for i := 0; i < c.n; i++ {
		w, h, tex := c.renderSlot(&c.slots[i])
		width = max(width, w)
		height = max(height, h)
		textures[i] = tex
	}

	if width == 0 || height == 0 {
		return
	}
	c.draw(prog, &textures, width, height)
}

// renderSlot brings the slot's target up to date for this frame. It
// returns the source size, and the target texture when the target holds
// this frame's render. Unresolved slots return zero size.
func (c *Composite) renderSlot(s *slot) (width, height uint32, tex gfx.Texture) {
	ref := s.acquire()
	if ref == nil {
		return 0, 0, nil
	}
	defer ref.Release()

	width, height = ref.Width(), ref.Height()

	if s.rendered && s.target != nil {
		c.stats.CacheHits++
		return width, height, s.target.Texture()
	}
	if width == 0 || height == 0 {
		return width, height, nil
	}
	if !c.ensureTarget(s, width, height) {
		c.stats.SkippedSlots++
		return width, height, nil
	}

	g := c.g
	if !g.BeginTarget(s.target) {
		c.stats.SkippedSlots++
		c.logger().Debug("multisource: cannot begin target", "slot", s.index, "source", s.name)
		return width, height, nil
	}
	g.PushProjection()
	g.Clear(gputypes.ColorTransparent)
	g.SetProjection(gfx.Ortho(width, height))

	// Translucent source pixels are stored as is, not blended over the clear.
	g.PushBlend()
	g.SetBlend(gputypes.BlendStateReplace())
	ref.Render(g)
	g.PopBlend()
	g.PopProjection()

	g.EndTarget(s.target)

	s.rendered = true
	c.stats.SlotRenders++
	return width, height, s.target.Texture()
}

// ensureTarget makes sure the slot has a target of exactly w×h.
func (c *Composite) ensureTarget(s *slot, w, h uint32) bool {
	if s.target != nil && s.target.Width() == w && s.target.Height() == h {
		return true
	}

	c.g.Enter()
	defer c.g.Leave()

	s.releaseTarget(c.g)
	t, err := c.g.CreateTarget(gfx.TargetDescriptor{
		Label:  c.targetLabel(s),
		Width:  w,
		Height: h,
		Format: gfx.TargetFormat(c.g),
	})
	if err != nil {
		c.logger().Warn("multisource: cannot create target",
			"slot", s.index, "width", w, "height", h, "err", err)
		return false
	}
	s.target = t
	return true
}

func (c *Composite) targetLabel(s *slot) string {
	key := SourceKey(s.index)
	if c.opts.name == "" {
		return key
	}
	return c.opts.name + "/" + key
}

// draw binds the slot textures and the slot count and runs every pass of
// the Draw technique.
func (c *Composite) draw(prog *effect.Program, textures *[MaxSources]gfx.Texture, width, height uint32) {
	eff := prog.Effect()
	for i, tex := range textures {
		key := SourceKey(i)
		if eff.HasParam(key, gfx.ParamTexture) {
			eff.SetTexture(key, tex)
		}
	}
	if eff.HasParam(KeyNumSources, gfx.ParamInt) {
		eff.SetInt(KeyNumSources, int32(c.n))
	}

	for range eff.Passes(effect.Technique) {
		c.g.DrawSprite(nil, width, height)
		c.stats.Draws++
	}
	c.stats.Frames++
}
