// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// ParamKind classifies an effect parameter.
type ParamKind uint8

const (
	// ParamOther is any parameter the compositor does not bind.
	ParamOther ParamKind = iota

	// ParamTexture is a sampled texture.
	ParamTexture

	// ParamSampler is a texture sampler.
	ParamSampler

	// ParamInt is a signed or unsigned 32-bit integer.
	ParamInt

	// ParamFloat is a 32-bit float.
	ParamFloat
)

// String returns the parameter kind name.
func (k ParamKind) String() string {
	switch k {
	case ParamTexture:
		return "texture"
	case ParamSampler:
		return "sampler"
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	default:
		return "other"
	}
}

// ParamDesc describes one module-scope parameter of an effect.
type ParamDesc struct {
	Name    string
	Kind    ParamKind
	Group   uint32
	Binding uint32
}

// PassDesc describes one entry point of an effect.
type PassDesc struct {
	Name  string
	Stage gputypes.ShaderStage
}

// EffectDescriptor carries a compiled shader module to the backend.
type EffectDescriptor struct {
	// Label is the diagnostic label, usually the effect file path.
	Label string

	// SPIRV is the compiled module as little-endian SPIR-V words.
	SPIRV []uint32

	// Params lists the module-scope parameters in declaration order.
	Params []ParamDesc

	// Entries lists the entry points in declaration order.
	Entries []PassDesc
}

// Param returns the parameter with the given name.
func (d EffectDescriptor) Param(name string) (ParamDesc, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDesc{}, false
}

// Technique returns the passes of the named technique.
//
// A technique is the set of fragment entry points whose name equals the
// technique name or starts with it followed by an underscore, compared
// case-insensitively. "Draw" therefore selects "draw", "draw_blur" and
// "Draw_1" in declaration order.
func (d EffectDescriptor) Technique(name string) []PassDesc {
	var passes []PassDesc
	for _, e := range d.Entries {
		if e.Stage != gputypes.ShaderStageFragment {
			continue
		}
		if matchTechnique(e.Name, name) {
			passes = append(passes, e)
		}
	}
	return passes
}

func matchTechnique(entry, technique string) bool {
	if len(entry) < len(technique) {
		return false
	}
	if !strings.EqualFold(entry[:len(technique)], technique) {
		return false
	}
	return len(entry) == len(technique) || entry[len(technique)] == '_'
}
