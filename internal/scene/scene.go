// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene loads the HCL scene files used by the msfx command.
//
// A scene declares solid-colour test sources and the composites drawing
// them:
//
//	source "cam" {
//	  width  = 1280
//	  height = 720
//	  color  = "steelblue"
//	}
//
//	composite "fx" {
//	  effect       = "effects/crossfade.wgsl"
//	  bypass_cache = true
//	  n_src        = 2
//	  sources      = ["cam", "screen"]
//	}
//
// Relative effect paths are resolved against the scene file's directory.
package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"golang.org/x/image/colornames"

	"github.com/gogpu/multisource"
	"github.com/gogpu/multisource/gfx"
	"github.com/gogpu/multisource/source"
)

// Errors returned by Load and Populate.
var (
	ErrDuplicateName = errors.New("scene: duplicate name")
	ErrTooManySlots  = errors.New("scene: too many sources")
	ErrBadColor      = errors.New("scene: bad color")
	ErrBadSize       = errors.New("scene: bad size")
)

// Scene is a decoded scene file.
type Scene struct {
	Sources    []*Source    `hcl:"source,block"`
	Composites []*Composite `hcl:"composite,block"`
}

// Source is a `source` block.
type Source struct {
	Name   string `hcl:"name,label"`
	Width  int    `hcl:"width"`
	Height int    `hcl:"height"`
	Color  string `hcl:"color,optional"`
}

// Composite is a `composite` block.
type Composite struct {
	Name        string   `hcl:"name,label"`
	Effect      string   `hcl:"effect,optional"`
	BypassCache bool     `hcl:"bypass_cache,optional"`
	NumSources  *int     `hcl:"n_src,optional"`
	Sources     []string `hcl:"sources,optional"`
	Hidden      bool     `hcl:"hidden,optional"`
}

// Load reads and validates the scene at path.
func Load(fsys afero.Fs, path string) (*Scene, error) {
	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes scene source. filename is used in diagnostics and as the
// base for relative effect paths.
func Parse(src []byte, filename string) (*Scene, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("scene: parse %s: %w", filename, diags)
	}

	var s Scene
	if diags := gohcl.DecodeBody(file.Body, nil, &s); diags.HasErrors() {
		return nil, fmt.Errorf("scene: decode %s: %w", filename, diags)
	}

	dir := filepath.Dir(filename)
	for _, c := range s.Composites {
		if c.Effect != "" && !filepath.IsAbs(c.Effect) {
			c.Effect = filepath.Join(dir, c.Effect)
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	seen := make(map[string]bool)
	claim := func(name string) error {
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		return nil
	}

	for _, src := range s.Sources {
		if err := claim(src.Name); err != nil {
			return err
		}
		if src.Width < 0 || src.Height < 0 {
			return fmt.Errorf("%w: source %q is %dx%d", ErrBadSize, src.Name, src.Width, src.Height)
		}
		if _, err := ParseColor(src.Color); err != nil {
			return fmt.Errorf("source %q: %w", src.Name, err)
		}
	}
	for _, c := range s.Composites {
		if err := claim(c.Name); err != nil {
			return err
		}
		if len(c.Sources) > multisource.MaxSources {
			return fmt.Errorf("%w: composite %q lists %d", ErrTooManySlots, c.Name, len(c.Sources))
		}
	}
	return nil
}

// Data returns the composite's settings snapshot. Without n_src the
// number of listed sources is used, or the default when none are listed.
func (c *Composite) Data() multisource.MapData {
	d := multisource.MapData{}
	d.SetString(multisource.KeyEffect, c.Effect)
	d.SetBool(multisource.KeyBypassCache, c.BypassCache)
	switch {
	case c.NumSources != nil:
		d.SetInt(multisource.KeyNumSources, int64(*c.NumSources))
	case len(c.Sources) > 0:
		d.SetInt(multisource.KeyNumSources, int64(len(c.Sources)))
	}
	for i, name := range c.Sources {
		d.SetString(multisource.SourceKey(i), name)
	}
	multisource.Defaults(d)
	return d
}

// Populate registers the scene's sources and composites in reg. The
// composites draw on g and are returned in declaration order; they are
// destroyed by the registry when removed.
func (s *Scene) Populate(reg *source.Registry, g gfx.Graphics, opts ...multisource.Option) ([]*multisource.Composite, error) {
	for _, src := range s.Sources {
		col, err := ParseColor(src.Color)
		if err != nil {
			return nil, err
		}
		ref, err := reg.Add(src.Name, source.NewColor(uint32(src.Width), uint32(src.Height), col))
		if err != nil {
			return nil, err
		}
		ref.Release()
	}

	out := make([]*multisource.Composite, 0, len(s.Composites))
	for _, sc := range s.Composites {
		c := multisource.New(sc.Data(), g, reg, append(opts, multisource.WithName(sc.Name))...)
		if sc.Hidden {
			c.Hide()
		}
		ref, err := reg.Add(sc.Name, c)
		if err != nil {
			c.Destroy()
			return nil, err
		}
		ref.Release()
		out = append(out, c)
	}
	return out, nil
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or an SVG colour name.
// The empty string is opaque black.
func ParseColor(s string) (gputypes.Color, error) {
	if s == "" {
		return gputypes.ColorBlack, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return rgb8(rgba.R, rgba.G, rgba.B, rgba.A), nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return gputypes.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return gputypes.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return gputypes.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return rgb8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func rgb8(r, g, b, a uint8) gputypes.Color {
	return gputypes.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}
