package source

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/multisource/gfx"
)

// Registry errors.
var (
	// ErrEmptyName is returned when a source is added or renamed to "".
	ErrEmptyName = errors.New("source: empty name")

	// ErrDuplicateName is returned when the name is already taken.
	ErrDuplicateName = errors.New("source: duplicate name")

	// ErrNotFound is returned when no source has the given name.
	ErrNotFound = errors.New("source: not found")
)

// entry is the registry's record of one source.
type entry struct {
	id      uint64
	name    string
	src     Source
	strong  int
	removed bool
}

// Registry is the namespace of live sources.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*entry
	byID   map[uint64]*entry
	nextID uint64
	strong int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
		byID:   make(map[uint64]*entry),
	}
}

// Add registers src under name and returns a strong ref to it.
// The caller must release the returned ref.
func (r *Registry) Add(name string, src Source) (*Ref, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byName[name]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.nextID++
	e := &entry{id: r.nextID, name: name, src: src}
	r.byName[name] = e
	r.byID[e.id] = e
	return r.acquireLocked(e), nil
}

// Remove takes the named source out of the namespace. Weak refs to it stop
// resolving immediately. If the source implements Destroyer, Destroy runs
// once the last strong ref is released (or now, if there are none).
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	e, ok := r.byName[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.byName, name)
	e.removed = true
	d := r.finalizeLocked(e)
	r.mu.Unlock()

	if d != nil {
		d.Destroy()
	}
	return nil
}

// Rename changes the name of a live source. Existing refs and weak refs
// follow the source.
func (r *Registry) Rename(oldName, newName string) error {
	if newName == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, dup := r.byName[newName]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	delete(r.byName, oldName)
	e.name = newName
	r.byName[newName] = e
	return nil
}

// SourceByName returns a strong ref to the named source, or nil.
func (r *Registry) SourceByName(name string) *Ref {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[name]
	if !ok {
		return nil
	}
	return r.acquireLocked(e)
}

// Names returns the names of all live sources, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outstanding returns the number of strong refs not yet released.
func (r *Registry) Outstanding() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.strong
}

func (r *Registry) acquireLocked(e *entry) *Ref {
	e.strong++
	r.strong++
	return &Ref{reg: r, e: e}
}

// finalizeLocked drops a removed entry with no strong refs and returns its
// Destroyer, if any, to be called after the lock is released.
func (r *Registry) finalizeLocked(e *entry) Destroyer {
	if !e.removed || e.strong > 0 {
		return nil
	}
	if _, live := r.byID[e.id]; !live {
		return nil
	}
	delete(r.byID, e.id)
	d, _ := e.src.(Destroyer)
	return d
}

func (r *Registry) release(e *entry) {
	r.mu.Lock()
	e.strong--
	r.strong--
	d := r.finalizeLocked(e)
	r.mu.Unlock()

	if d != nil {
		d.Destroy()
	}
}

func (r *Registry) upgrade(id uint64) *Ref {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.removed {
		return nil
	}
	return r.acquireLocked(e)
}

func (r *Registry) name(e *entry) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return e.name
}

// Ref is a strong handle to a registered source. It keeps the source from
// being destroyed until Release is called.
type Ref struct {
	reg      *Registry
	e        *entry
	released bool
}

// Source returns the referenced source.
func (r *Ref) Source() Source {
	return r.e.src
}

// Name returns the source's current name.
func (r *Ref) Name() string {
	return r.reg.name(r.e)
}

// Width returns the source width.
func (r *Ref) Width() uint32 {
	return r.e.src.Width()
}

// Height returns the source height.
func (r *Ref) Height() uint32 {
	return r.e.src.Height()
}

// Render draws the source into the currently bound target.
func (r *Ref) Render(g gfx.Graphics) {
	r.e.src.Render(g)
}

// Is reports whether r and other refer to the same source.
func (r *Ref) Is(other *Ref) bool {
	return other != nil && r.e == other.e
}

// Weak derives a weak handle to the source.
func (r *Ref) Weak() *Weak {
	return &Weak{reg: r.reg, id: r.e.id}
}

// Release drops the strong handle. Releasing twice is a no-op.
func (r *Ref) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.reg.release(r.e)
}

// Weak is a non-owning handle to a source.
type Weak struct {
	reg *Registry
	id  uint64
}

// Get strengthens the handle. It returns nil once the source has been
// removed from its registry. The returned ref must be released.
func (w *Weak) Get() *Ref {
	if w == nil || w.reg == nil {
		return nil
	}
	return w.reg.upgrade(w.id)
}

// Release drops the weak handle. Get returns nil afterwards.
func (w *Weak) Release() {
	if w == nil {
		return
	}
	w.reg = nil
}
