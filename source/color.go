package source

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/multisource/gfx"
)

// Color is a solid-colour source of fixed size.
type Color struct {
	W, H  uint32
	Fill  gputypes.Color
	Calls int // number of Render calls
}

// NewColor creates a w×h source filled with c.
func NewColor(w, h uint32, c gputypes.Color) *Color {
	return &Color{W: w, H: h, Fill: c}
}

// Width returns the source width.
func (c *Color) Width() uint32 { return c.W }

// Height returns the source height.
func (c *Color) Height() uint32 { return c.H }

// Render fills the bound target.
func (c *Color) Render(g gfx.Graphics) {
	c.Calls++
	g.Clear(c.Fill)
}
