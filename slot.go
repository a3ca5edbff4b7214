package multisource

import (
	"github.com/gogpu/multisource/gfx"
	"github.com/gogpu/multisource/source"
)

// Namespace resolves source names. *source.Registry implements it.
type Namespace interface {
	// SourceByName returns a strong ref to the named source, or nil.
	SourceByName(name string) *source.Ref
}

// slot is one input position of a composite.
type slot struct {
	index    int
	name     string
	weak     *source.Weak
	target   gfx.Target
	rendered bool
}

// acquire strengthens the weak reference. The caller must release the
// returned ref before returning.
func (s *slot) acquire() *source.Ref {
	return s.weak.Get()
}

// setName changes the configured name and resolves it right away. The
// target no longer holds this frame's render of the slot's source.
// It reports whether the name changed.
func (s *slot) setName(name string, ns Namespace) bool {
	if name == s.name {
		return false
	}
	s.name = name
	s.rendered = false
	s.resolve(ns)
	return true
}

// resolve drops the weak reference and looks the configured name up again.
func (s *slot) resolve(ns Namespace) {
	s.weak.Release()
	s.weak = nil
	if s.name == "" {
		return
	}
	ref := ns.SourceByName(s.name)
	if ref == nil {
		return
	}
	s.weak = ref.Weak()
	ref.Release()
}

// revalidate re-resolves the slot when its source is gone or no longer
// carries the configured name. A slot without a configured name is left
// alone. It reports whether a re-resolution was attempted.
func (s *slot) revalidate(ns Namespace) bool {
	if s.name == "" {
		return false
	}
	ref := s.acquire()
	stale := ref == nil || ref.Name() != s.name
	ref.Release()
	if !stale {
		return false
	}
	s.resolve(ns)
	return true
}

// resolved reports whether the slot currently holds a weak reference.
func (s *slot) resolved() bool {
	return s.weak != nil
}

// releaseTarget destroys the offscreen target.
// Must be called between Graphics Enter and Leave.
func (s *slot) releaseTarget(g gfx.Graphics) {
	if s.target == nil {
		return
	}
	g.DestroyTarget(s.target)
	s.target = nil
	s.rendered = false
}

// releaseWeak drops the weak reference.
func (s *slot) releaseWeak() {
	s.weak.Release()
	s.weak = nil
}
