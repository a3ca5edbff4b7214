package multisource

import (
	"os"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/spf13/afero"

	"github.com/gogpu/multisource/effect"
	"github.com/gogpu/multisource/gfx/record"
	"github.com/gogpu/multisource/source"
)

const (
	crossfadePath = "/fx/crossfade.wgsl"
	mosaicPath    = "/fx/mosaic.wgsl"
	brokenPath    = "/fx/broken.wgsl"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// testEnv bundles the collaborators of a composite.
type testEnv struct {
	t     *testing.T
	fs    afero.Fs
	clk   *fakeClock
	rec   *record.Backend
	reg   *source.Registry
	cache *effect.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		t:     t,
		fs:    afero.NewMemMapFs(),
		clk:   &fakeClock{t: epoch},
		rec:   record.New(),
		reg:   source.NewRegistry(),
		cache: effect.NewCache(8),
	}
	e.copyEffect("examples/effects/crossfade.wgsl", crossfadePath)
	e.copyEffect("examples/effects/mosaic.wgsl", mosaicPath)
	e.writeFile(brokenPath, "@fragment fn draw( {")
	return e
}

// copyEffect copies a shipped example effect into the test filesystem.
func (e *testEnv) copyEffect(from, to string) {
	e.t.Helper()
	data, err := os.ReadFile(from)
	if err != nil {
		e.t.Fatalf("ReadFile(%s) = %v", from, err)
	}
	e.writeFile(to, string(data))
}

func (e *testEnv) writeFile(path, content string) {
	e.t.Helper()
	if err := afero.WriteFile(e.fs, path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("WriteFile(%s) = %v", path, err)
	}
	e.touch(path, epoch)
}

func (e *testEnv) touch(path string, mtime time.Time) {
	e.t.Helper()
	if err := e.fs.Chtimes(path, mtime, mtime); err != nil {
		e.t.Fatalf("Chtimes(%s) = %v", path, err)
	}
}

// addColor registers a solid-colour source and returns it.
func (e *testEnv) addColor(name string, w, h uint32) *source.Color {
	e.t.Helper()
	c := source.NewColor(w, h, gputypes.ColorRed)
	e.add(name, c)
	return c
}

func (e *testEnv) add(name string, src source.Source) {
	e.t.Helper()
	ref, err := e.reg.Add(name, src)
	if err != nil {
		e.t.Fatalf("Add(%s) = %v", name, err)
	}
	ref.Release()
}

func (e *testEnv) composite(s Settings, opts ...Option) *Composite {
	e.t.Helper()
	d := MapData{}
	s.Save(d)
	return e.compositeFrom(d, opts...)
}

func (e *testEnv) compositeFrom(d Data, opts ...Option) *Composite {
	all := append([]Option{
		WithFS(e.fs),
		WithClock(e.clk.now),
		WithEffectCache(e.cache),
	}, opts...)
	return New(d, e.rec, e.reg, all...)
}

// check verifies the backend contract and that no strong refs leaked.
func (e *testEnv) check() {
	e.t.Helper()
	for _, v := range e.rec.Violations() {
		e.t.Errorf("backend violation: %s", v)
	}
	if n := e.reg.Outstanding(); n != 0 {
		e.t.Errorf("outstanding strong refs = %d, want 0", n)
	}
}

func sources(names ...string) [MaxSources]string {
	var out [MaxSources]string
	copy(out[:], names)
	return out
}

func recordEffect(t *testing.T, c *Composite) *record.Effect {
	t.Helper()
	p := c.Program()
	if p == nil {
		t.Fatal("composite has no program")
	}
	eff, ok := p.Effect().(*record.Effect)
	if !ok {
		t.Fatalf("effect is %T, want *record.Effect", p.Effect())
	}
	return eff
}
