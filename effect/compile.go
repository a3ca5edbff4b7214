// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/multisource/gfx"
)

// Module is a compiled effect: SPIR-V code plus the reflected parameter
// and entry point tables. A Module holds no GPU objects and may be shared.
type Module struct {
	Label   string
	SPIRV   []uint32
	Params  []gfx.ParamDesc
	Entries []gfx.PassDesc
}

// Descriptor returns the descriptor used to create a host effect.
func (m *Module) Descriptor() gfx.EffectDescriptor {
	return gfx.EffectDescriptor{
		Label:   m.Label,
		SPIRV:   m.SPIRV,
		Params:  m.Params,
		Entries: m.Entries,
	}
}

// CompileError reports a failure to compile an effect file.
type CompileError struct {
	Path  string
	Stage string // parse, lower, validate or spirv
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("effect: %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile compiles WGSL source text. label names the source in errors and
// is normally the file path.
func Compile(label, source string) (*Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, &CompileError{Path: label, Stage: "parse", Err: err}
	}

	mod, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, &CompileError{Path: label, Stage: "lower", Err: err}
	}

	verrs, err := naga.Validate(mod)
	if err != nil {
		return nil, &CompileError{Path: label, Stage: "validate", Err: err}
	}
	if len(verrs) > 0 {
		return nil, &CompileError{Path: label, Stage: "validate", Err: &verrs[0]}
	}

	spirvBytes, err := naga.GenerateSPIRV(mod, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, &CompileError{Path: label, Stage: "spirv", Err: err}
	}

	return &Module{
		Label:   label,
		SPIRV:   spirvWords(spirvBytes),
		Params:  reflectParams(mod),
		Entries: reflectEntries(mod),
	}, nil
}

// spirvWords converts SPIR-V bytes to little-endian 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// reflectParams lists the bound module-scope variables.
func reflectParams(mod *ir.Module) []gfx.ParamDesc {
	var params []gfx.ParamDesc
	for _, gv := range mod.GlobalVariables {
		if gv.Binding == nil || gv.Name == "" {
			continue
		}
		p := gfx.ParamDesc{
			Name:    gv.Name,
			Kind:    gfx.ParamOther,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
		}
		if int(gv.Type) < len(mod.Types) {
			p.Kind = paramKind(mod.Types[gv.Type].Inner)
		}
		params = append(params, p)
	}
	return params
}

func paramKind(inner ir.TypeInner) gfx.ParamKind {
	switch t := inner.(type) {
	case ir.ImageType:
		return gfx.ParamTexture
	case ir.SamplerType:
		return gfx.ParamSampler
	case ir.ScalarType:
		switch t.Kind {
		case ir.ScalarSint, ir.ScalarUint:
			return gfx.ParamInt
		case ir.ScalarFloat:
			return gfx.ParamFloat
		}
	}
	return gfx.ParamOther
}

func reflectEntries(mod *ir.Module) []gfx.PassDesc {
	entries := make([]gfx.PassDesc, 0, len(mod.EntryPoints))
	for _, ep := range mod.EntryPoints {
		entries = append(entries, gfx.PassDesc{
			Name:  ep.Name,
			Stage: shaderStage(ep.Stage),
		})
	}
	return entries
}

func shaderStage(s ir.ShaderStage) gputypes.ShaderStage {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex
	case ir.StageFragment:
		return gputypes.ShaderStageFragment
	case ir.StageCompute:
		return gputypes.ShaderStageCompute
	default:
		return gputypes.ShaderStageNone
	}
}
