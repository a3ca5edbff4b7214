// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"time"

	"github.com/gogpu/multisource/gfx"
)

// Program is a compiled effect instantiated on a Graphics backend.
// It is created and destroyed only by a Loader.
type Program struct {
	path    string
	module  *Module
	effect  gfx.Effect
	modTime time.Time
	bypass  bool
}

// Path returns the effect file path.
func (p *Program) Path() string { return p.path }

// Module returns the compiled module the program was created from.
func (p *Program) Module() *Module { return p.module }

// Effect returns the host effect object.
func (p *Program) Effect() gfx.Effect { return p.effect }

// ModTime returns the file modification time read before compiling.
// It is zero for programs loaded through the cache.
func (p *Program) ModTime() time.Time { return p.modTime }

// Bypass reports whether the program was compiled from a direct file read.
func (p *Program) Bypass() bool { return p.bypass }

// HasParam reports whether the effect declares a parameter of that kind.
func (p *Program) HasParam(name string, kind gfx.ParamKind) bool {
	return p.effect.HasParam(name, kind)
}
