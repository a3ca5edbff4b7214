// Package source provides the host namespace of video sources and the
// strong and weak handles the compositor uses to reach them.
//
// A Registry maps unique names to live sources. SourceByName returns a
// strong *Ref that must be released before the caller returns. A Ref can
// derive a *Weak, which does not keep the source alive: once the source is
// removed from the registry, Weak.Get returns nil even if strong refs are
// still outstanding. Sources are renamed in place, so a Weak keeps pointing
// at the same object across renames and callers compare Ref.Name against
// the name they expect.
//
// The registry is safe for concurrent use. Sources themselves are called
// without the registry lock held.
package source

import (
	"github.com/gogpu/multisource/gfx"
)

// Source is a video-producing node.
type Source interface {
	// Width returns the current output width in pixels.
	Width() uint32

	// Height returns the current output height in pixels.
	Height() uint32

	// Render draws the source into the currently bound target.
	Render(g gfx.Graphics)
}

// Destroyer is implemented by sources that hold resources. Destroy is
// called once, after the source was removed and its last strong ref was
// released.
type Destroyer interface {
	Destroy()
}

// Enumerator is implemented by sources that draw other sources.
type Enumerator interface {
	// EnumActiveSources calls fn once for each child that is currently
	// active. The ref passed to fn is released when fn returns.
	EnumActiveSources(fn func(child *Ref))
}

// EnumTree walks the active children of root depth-first, calling fn for
// every descendant. Cycles are the responsibility of the Enumerator
// implementations, which short-circuit nested enumeration of themselves.
func EnumTree(root *Ref, fn func(child *Ref)) {
	e, ok := root.Source().(Enumerator)
	if !ok {
		return
	}
	e.EnumActiveSources(func(child *Ref) {
		EnumTree(child, fn)
		fn(child)
	})
}
