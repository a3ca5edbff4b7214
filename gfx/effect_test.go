// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestMatchTechnique(t *testing.T) {
	tests := []struct {
		entry string
		want  bool
	}{
		{"draw", true},
		{"Draw", true},
		{"DRAW_blur", true},
		{"draw_", true},
		{"drawing", false},
		{"dra", false},
		{"redraw", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := matchTechnique(tt.entry, "Draw"); got != tt.want {
			t.Errorf("matchTechnique(%q) = %v, want %v", tt.entry, got, tt.want)
		}
	}
}

func TestDescriptorTechnique(t *testing.T) {
	d := EffectDescriptor{
		Entries: []PassDesc{
			{Name: "vs_main", Stage: gputypes.ShaderStageVertex},
			{Name: "draw", Stage: gputypes.ShaderStageFragment},
			{Name: "draw_vs", Stage: gputypes.ShaderStageVertex},
			{Name: "blur", Stage: gputypes.ShaderStageFragment},
			{Name: "Draw_2", Stage: gputypes.ShaderStageFragment},
		},
	}
	passes := d.Technique("Draw")
	if len(passes) != 2 || passes[0].Name != "draw" || passes[1].Name != "Draw_2" {
		t.Errorf("Technique(Draw) = %+v", passes)
	}
	if got := d.Technique("Missing"); len(got) != 0 {
		t.Errorf("Technique(Missing) = %+v, want none", got)
	}
}

func TestDescriptorParam(t *testing.T) {
	d := EffectDescriptor{Params: []ParamDesc{
		{Name: "src0", Kind: ParamTexture, Binding: 0},
		{Name: "n_src", Kind: ParamInt, Binding: 3},
	}}
	p, ok := d.Param("n_src")
	if !ok || p.Kind != ParamInt || p.Binding != 3 {
		t.Errorf("Param(n_src) = %+v, %v", p, ok)
	}
	if _, ok := d.Param("src1"); ok {
		t.Error("Param(src1) found an undeclared parameter")
	}
}

func TestDescriptorLookupOnReturnedValue(t *testing.T) {
	desc := func() EffectDescriptor {
		return EffectDescriptor{
			Params:  []ParamDesc{{Name: "n_src", Kind: ParamInt}},
			Entries: []PassDesc{{Name: "draw", Stage: gputypes.ShaderStageFragment}},
		}
	}
	if _, ok := desc().Param("n_src"); !ok {
		t.Error("Param(n_src) not found")
	}
	if n := len(desc().Technique("Draw")); n != 1 {
		t.Errorf("len(Technique(Draw)) = %d, want 1", n)
	}
}

func TestParamKindString(t *testing.T) {
	if ParamTexture.String() != "texture" || ParamInt.String() != "int" || ParamOther.String() != "other" {
		t.Errorf("unexpected names: %s %s %s", ParamTexture, ParamInt, ParamOther)
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(200, 100)
	// The top-right pixel corner maps to clip (1, 1).
	v := m.Mul4x1([4]float32{200, 100, 0, 1})
	if !near(v[0], 1) || !near(v[1], 1) {
		t.Errorf("Ortho(200, 100) * (200, 100) = (%v, %v), want (1, 1)", v[0], v[1])
	}
	v = m.Mul4x1([4]float32{0, 0, 0, 1})
	if !near(v[0], -1) || !near(v[1], -1) {
		t.Errorf("Ortho(200, 100) * (0, 0) = (%v, %v), want (-1, -1)", v[0], v[1])
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -1e-5 && d < 1e-5
}
