// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"time"

	"github.com/spf13/afero"

	"github.com/gogpu/multisource/gfx"
)

// Technique is the technique whose passes draw the composite.
const Technique = "Draw"

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the filesystem effect files are read from.
// The default is the OS filesystem.
func WithFS(fsys afero.Fs) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithCache sets the cache used for non-bypass loads.
// The default is SharedCache().
func WithCache(c *Cache) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithClock sets the wall clock used by the staleness monitor.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// LoaderStats counts load attempts.
type LoaderStats struct {
	// Attempts is the number of loads of a non-empty path.
	Attempts int

	// Failures is the number of attempts that left no program.
	Failures int

	// Reloads is the number of attempts triggered by the monitor.
	Reloads int
}

// Loader owns the program of one composite.
//
// The program is replaced as a whole: the old one is destroyed before the
// new one is attempted, so a failed reload leaves no program rather than a
// stale one.
type Loader struct {
	g       gfx.Graphics
	fs      afero.Fs
	cache   *Cache
	now     func() time.Time
	path    string
	bypass  bool
	prog    *Program
	monitor *Monitor
	stats   LoaderStats
}

// NewLoader creates a loader that instantiates effects on g.
func NewLoader(g gfx.Graphics, opts ...LoaderOption) *Loader {
	l := &Loader{
		g:     g,
		fs:    afero.NewOsFs(),
		cache: shared,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Program returns the current program, or nil.
func (l *Loader) Program() *Program { return l.prog }

// Path returns the configured effect path.
func (l *Loader) Path() string { return l.path }

// Bypass reports whether the cache is bypassed.
func (l *Loader) Bypass() bool { return l.bypass }

// Monitor returns the staleness monitor, or nil when not in bypass mode.
func (l *Loader) Monitor() *Monitor { return l.monitor }

// Stats returns the load counters.
func (l *Loader) Stats() LoaderStats { return l.stats }

// Update loads path when it or the bypass flag differs from the current
// configuration, or when there is no program to show for path. It reports
// whether a load was performed.
func (l *Loader) Update(path string, bypass bool) bool {
	if path == l.path && bypass == l.bypass && (l.prog != nil || path == "") {
		return false
	}
	l.Load(path, bypass)
	return true
}

// Load destroys the current program and compiles path. An empty path
// leaves the loader without a program. Failures are logged.
func (l *Loader) Load(path string, bypass bool) {
	l.g.Enter()
	defer l.g.Leave()

	l.destroyProgram()
	l.path = path
	l.bypass = bypass
	l.monitor = nil

	if path == "" {
		return
	}
	l.stats.Attempts++

	var (
		mod     *Module
		modTime time.Time
		err     error
	)
	if bypass {
		l.monitor = NewMonitor(l.fs, path)
		mod, modTime, err = l.readAndCompile(path)
		// The monitor watches the file even when it did not compile, so
		// fixing it triggers the next attempt.
		l.monitor.Reset(modTime, l.now())
	} else {
		mod, err = l.cache.Load(l.fs, path)
	}
	if err != nil {
		l.stats.Failures++
		slogger().Error("effect: cannot load", "path", path, "bypass", bypass, "err", err)
		return
	}

	eff, err := l.g.CreateEffect(mod.Descriptor())
	if err != nil {
		l.stats.Failures++
		slogger().Error("effect: cannot create", "path", path, "err", err)
		return
	}

	l.prog = &Program{
		path:    path,
		module:  mod,
		effect:  eff,
		modTime: modTime,
		bypass:  bypass,
	}
	slogger().Info("effect: loaded", "path", path, "bypass", bypass,
		"passes", len(mod.Descriptor().Technique(Technique)))
}

// readAndCompile reads path directly, skipping the cache. The returned
// modification time is taken before the read so a write racing the read
// is seen as a later change.
func (l *Loader) readAndCompile(path string) (*Module, time.Time, error) {
	var modTime time.Time
	if info, err := l.fs.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, modTime, err
	}
	mod, err := Compile(path, string(data))
	return mod, modTime, err
}

// Tick drives the staleness monitor and reloads the effect when it asks
// for it. It does nothing unless the cache is bypassed and visible is true.
// It reports whether a reload was performed.
func (l *Loader) Tick(visible bool) bool {
	if !visible || !l.bypass || l.monitor == nil {
		return false
	}
	if !l.monitor.Tick(l.now()) {
		return false
	}
	l.stats.Reloads++
	slogger().Info("effect: reloading", "path", l.path)
	l.Load(l.path, true)
	return true
}

// Destroy releases the program. The loader can be reused afterwards.
func (l *Loader) Destroy() {
	l.g.Enter()
	defer l.g.Leave()

	l.destroyProgram()
	l.monitor = nil
}

// destroyProgram must be called between Enter and Leave.
func (l *Loader) destroyProgram() {
	if l.prog == nil {
		return
	}
	l.g.DestroyEffect(l.prog.effect)
	l.prog = nil
}
