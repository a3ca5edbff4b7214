// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package record provides a gfx.Graphics backend that records every call
// instead of drawing.
//
// The recorder keeps no pixels. It is used for dry runs of a scene and as
// the graphics double in tests: the command log shows exactly what a real
// backend would have been asked to do, and contract violations (creating or
// destroying GPU objects outside Enter/Leave, unbalanced blend stacks,
// drawing into a destroyed target) are collected in Violations.
//
// Importing the package registers the backend under gfx.BackendRecord.
package record

import (
	"errors"
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/multisource/gfx"
)

func init() {
	gfx.Register(gfx.BackendRecord, func() gfx.Graphics { return New() })
}

// Op identifies a recorded call.
type Op uint8

// Recorded operations.
const (
	OpEnter Op = iota
	OpLeave
	OpCreateTarget
	OpDestroyTarget
	OpBeginTarget
	OpEndTarget
	OpClear
	OpProjection
	OpPushProjection
	OpPopProjection
	OpPushBlend
	OpPopBlend
	OpResetBlend
	OpSetBlend
	OpCreateEffect
	OpDestroyEffect
	OpSetTexture
	OpSetInt
	OpPassBegin
	OpPassEnd
	OpDrawSprite
)

var opNames = [...]string{
	OpEnter:          "enter",
	OpLeave:          "leave",
	OpCreateTarget:   "create_target",
	OpDestroyTarget:  "destroy_target",
	OpBeginTarget:    "begin_target",
	OpEndTarget:      "end_target",
	OpClear:          "clear",
	OpProjection:     "projection",
	OpPushProjection: "push_projection",
	OpPopProjection:  "pop_projection",
	OpPushBlend:      "push_blend",
	OpPopBlend:       "pop_blend",
	OpResetBlend:     "reset_blend",
	OpSetBlend:       "set_blend",
	OpCreateEffect:   "create_effect",
	OpDestroyEffect:  "destroy_effect",
	OpSetTexture:     "set_texture",
	OpSetInt:         "set_int",
	OpPassBegin:      "pass_begin",
	OpPassEnd:        "pass_end",
	OpDrawSprite:     "draw_sprite",
}

// String returns the operation name.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Command is one recorded call.
type Command struct {
	Op     Op
	Name   string // target/effect label, parameter or pass name
	Width  uint32
	Height uint32
	Value  int32
	Color  gputypes.Color
	Blend  gputypes.BlendState
	Matrix mgl32.Mat4
}

// ErrZeroSize is returned when a target with a zero dimension is requested.
var ErrZeroSize = errors.New("record: zero-sized target")

// Backend records graphics calls. The zero value is not usable; use New.
type Backend struct {
	// FailBegin, when set, makes BeginTarget fail for the targets it
	// returns true for.
	FailBegin func(t gfx.Target) bool

	// FailEffect, when set, makes CreateEffect fail with the returned error.
	FailEffect func(desc gfx.EffectDescriptor) error

	format     gputypes.TextureFormat
	depth      int
	blend      gputypes.BlendState
	blendStack []gputypes.BlendState
	proj       mgl32.Mat4
	projStack  []mgl32.Mat4
	bound      []*Target

	commands   []Command
	violations []string

	nextID  int
	targets map[int]*Target
	effects map[*Effect]struct{}
}

// Option configures a Backend.
type Option func(*Backend)

// WithFormat sets the surface format the backend reports.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(b *Backend) {
		b.format = f
	}
}

// New creates a recording backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		format:  gputypes.TextureFormatUndefined,
		blend:   gputypes.BlendStateAlpha(),
		proj:    mgl32.Ident4(),
		targets: make(map[int]*Target),
		effects: make(map[*Effect]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) record(c Command) {
	b.commands = append(b.commands, c)
}

func (b *Backend) violate(format string, args ...any) {
	b.violations = append(b.violations, fmt.Sprintf(format, args...))
}

func (b *Backend) requireSection(op Op) {
	if b.depth == 0 {
		b.violate("%s outside graphics section", op)
	}
}

// Commands returns the recorded commands in call order.
func (b *Backend) Commands() []Command {
	return b.commands
}

// Count returns how many commands with the given op were recorded.
func (b *Backend) Count(op Op) int {
	n := 0
	for _, c := range b.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset clears the command log. Violations and live objects are kept.
func (b *Backend) Reset() {
	b.commands = b.commands[:0]
}

// Violations returns the contract violations observed so far.
func (b *Backend) Violations() []string {
	return b.violations
}

// LiveTargets returns the number of targets created and not destroyed.
func (b *Backend) LiveTargets() int {
	return len(b.targets)
}

// LiveEffects returns the number of effects created and not destroyed.
func (b *Backend) LiveEffects() int {
	return len(b.effects)
}

// Blend returns the current blend state.
func (b *Backend) Blend() gputypes.BlendState {
	return b.blend
}

// BlendDepth returns the number of pushed blend states.
func (b *Backend) BlendDepth() int {
	return len(b.blendStack)
}

// Projection returns the current projection matrix.
func (b *Backend) Projection() mgl32.Mat4 {
	return b.proj
}

// ProjectionDepth returns the number of pushed projections.
func (b *Backend) ProjectionDepth() int {
	return len(b.projStack)
}

// Enter acquires the graphics section. Nested calls are counted.
func (b *Backend) Enter() {
	b.depth++
	b.record(Command{Op: OpEnter})
}

// Leave releases one level of the graphics section.
func (b *Backend) Leave() {
	if b.depth == 0 {
		b.violate("leave without enter")
		return
	}
	b.depth--
	b.record(Command{Op: OpLeave})
}

// CreateTarget allocates a recorded target.
func (b *Backend) CreateTarget(desc gfx.TargetDescriptor) (gfx.Target, error) {
	b.requireSection(OpCreateTarget)
	if desc.Width == 0 || desc.Height == 0 {
		return nil, ErrZeroSize
	}
	b.nextID++
	t := &Target{
		id:     b.nextID,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}
	t.tex = &Texture{target: t}
	b.targets[t.id] = t
	b.record(Command{Op: OpCreateTarget, Name: desc.Label, Width: desc.Width, Height: desc.Height})
	return t, nil
}

// DestroyTarget releases a recorded target.
func (b *Backend) DestroyTarget(t gfx.Target) {
	if t == nil {
		return
	}
	b.requireSection(OpDestroyTarget)
	rt, ok := t.(*Target)
	if !ok {
		b.violate("destroy of foreign target %T", t)
		return
	}
	if rt.destroyed {
		b.violate("double destroy of target %q", rt.label)
		return
	}
	rt.destroyed = true
	delete(b.targets, rt.id)
	b.record(Command{Op: OpDestroyTarget, Name: rt.label, Width: rt.width, Height: rt.height})
}

// BeginTarget binds t as the render target.
func (b *Backend) BeginTarget(t gfx.Target) bool {
	rt, ok := t.(*Target)
	if !ok || rt.destroyed {
		b.violate("begin of invalid target")
		return false
	}
	if b.FailBegin != nil && b.FailBegin(t) {
		return false
	}
	b.bound = append(b.bound, rt)
	b.record(Command{Op: OpBeginTarget, Name: rt.label, Width: rt.width, Height: rt.height})
	return true
}

// EndTarget unbinds t.
func (b *Backend) EndTarget(t gfx.Target) {
	n := len(b.bound)
	if n == 0 || gfx.Target(b.bound[n-1]) != t {
		b.violate("end of target that is not bound")
		return
	}
	rt := b.bound[n-1]
	b.bound = b.bound[:n-1]
	rt.tex.version++
	b.record(Command{Op: OpEndTarget, Name: rt.label})
}

// Clear records a clear of the bound target.
func (b *Backend) Clear(c gputypes.Color) {
	b.record(Command{Op: OpClear, Color: c})
}

// SetProjection records a projection change.
func (b *Backend) SetProjection(m mgl32.Mat4) {
	b.proj = m
	b.record(Command{Op: OpProjection, Matrix: m})
}

// PushProjection saves the projection.
func (b *Backend) PushProjection() {
	b.projStack = append(b.projStack, b.proj)
	b.record(Command{Op: OpPushProjection})
}

// PopProjection restores the projection.
func (b *Backend) PopProjection() {
	n := len(b.projStack)
	if n == 0 {
		b.violate("pop of empty projection stack")
		return
	}
	b.proj = b.projStack[n-1]
	b.projStack = b.projStack[:n-1]
	b.record(Command{Op: OpPopProjection, Matrix: b.proj})
}

// PushBlend saves the blend state.
func (b *Backend) PushBlend() {
	b.blendStack = append(b.blendStack, b.blend)
	b.record(Command{Op: OpPushBlend})
}

// PopBlend restores the blend state.
func (b *Backend) PopBlend() {
	n := len(b.blendStack)
	if n == 0 {
		b.violate("pop of empty blend stack")
		return
	}
	b.blend = b.blendStack[n-1]
	b.blendStack = b.blendStack[:n-1]
	b.record(Command{Op: OpPopBlend})
}

// ResetBlend restores the default alpha blend state.
func (b *Backend) ResetBlend() {
	b.blend = gputypes.BlendStateAlpha()
	b.record(Command{Op: OpResetBlend})
}

// SetBlend sets the blend state.
func (b *Backend) SetBlend(s gputypes.BlendState) {
	b.blend = s
	b.record(Command{Op: OpSetBlend, Blend: s})
}

// CreateEffect creates a recorded effect from desc.
func (b *Backend) CreateEffect(desc gfx.EffectDescriptor) (gfx.Effect, error) {
	b.requireSection(OpCreateEffect)
	if b.FailEffect != nil {
		if err := b.FailEffect(desc); err != nil {
			return nil, err
		}
	}
	e := &Effect{
		backend: b,
		desc:    desc,
		tex:     make(map[string]gfx.Texture),
		ints:    make(map[string]int32),
	}
	b.effects[e] = struct{}{}
	b.record(Command{Op: OpCreateEffect, Name: desc.Label})
	return e, nil
}

// DestroyEffect releases a recorded effect.
func (b *Backend) DestroyEffect(e gfx.Effect) {
	if e == nil {
		return
	}
	b.requireSection(OpDestroyEffect)
	re, ok := e.(*Effect)
	if !ok {
		b.violate("destroy of foreign effect %T", e)
		return
	}
	if _, live := b.effects[re]; !live {
		b.violate("double destroy of effect %q", re.desc.Label)
		return
	}
	delete(b.effects, re)
	b.record(Command{Op: OpDestroyEffect, Name: re.desc.Label})
}

// DrawSprite records a sprite draw along with the projection it is drawn
// under.
func (b *Backend) DrawSprite(_ gfx.Texture, width, height uint32) {
	b.record(Command{Op: OpDrawSprite, Width: width, Height: height, Matrix: b.proj})
}

// Device returns nil; the recorder has no device.
func (b *Backend) Device() gpucontext.Device { return nil }

// Queue returns nil; the recorder has no queue.
func (b *Backend) Queue() gpucontext.Queue { return nil }

// Adapter returns nil; the recorder has no adapter.
func (b *Backend) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the format configured with WithFormat.
func (b *Backend) SurfaceFormat() gputypes.TextureFormat { return b.format }

// AdapterInfo describes the recorder as a software adapter.
func (b *Backend) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "record", Type: gpucontext.AdapterTypeSoftware}
}

var (
	_ gfx.Graphics     = (*Backend)(nil)
	_ gfx.DeviceHandle = (*Backend)(nil)
)

// Target is a recorded render target.
type Target struct {
	id        int
	label     string
	width     uint32
	height    uint32
	format    gputypes.TextureFormat
	tex       *Texture
	destroyed bool
}

// Width returns the target width.
func (t *Target) Width() uint32 { return t.width }

// Height returns the target height.
func (t *Target) Height() uint32 { return t.height }

// Format returns the target format.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// Texture returns the target's texture.
func (t *Target) Texture() gfx.Texture { return t.tex }

// Label returns the debug label.
func (t *Target) Label() string { return t.label }

// Destroyed reports whether the target was destroyed.
func (t *Target) Destroyed() bool { return t.destroyed }

// Texture is the texture view of a recorded target.
type Texture struct {
	target  *Target
	version int
}

// Width returns the texture width.
func (t *Texture) Width() uint32 { return t.target.width }

// Height returns the texture height.
func (t *Texture) Height() uint32 { return t.target.height }

// Target returns the owning target.
func (t *Texture) Target() *Target { return t.target }

// Version returns how many times the owning target finished rendering.
func (t *Texture) Version() int { return t.version }

// Effect is a recorded effect.
type Effect struct {
	backend *Backend
	desc    gfx.EffectDescriptor
	tex     map[string]gfx.Texture
	ints    map[string]int32
}

// Label returns the effect label.
func (e *Effect) Label() string { return e.desc.Label }

// Descriptor returns the descriptor the effect was created from.
func (e *Effect) Descriptor() gfx.EffectDescriptor { return e.desc }

// HasParam reports whether the effect declares the parameter.
func (e *Effect) HasParam(name string, kind gfx.ParamKind) bool {
	p, ok := e.desc.Param(name)
	return ok && p.Kind == kind
}

// SetTexture binds a texture parameter.
func (e *Effect) SetTexture(name string, tex gfx.Texture) {
	if !e.HasParam(name, gfx.ParamTexture) {
		return
	}
	if tex == nil {
		delete(e.tex, name)
	} else {
		e.tex[name] = tex
	}
	c := Command{Op: OpSetTexture, Name: name}
	if tex != nil {
		c.Width, c.Height = tex.Width(), tex.Height()
	}
	e.backend.record(c)
}

// SetInt sets an integer parameter.
func (e *Effect) SetInt(name string, v int32) {
	if !e.HasParam(name, gfx.ParamInt) {
		return
	}
	e.ints[name] = v
	e.backend.record(Command{Op: OpSetInt, Name: name, Value: v})
}

// Texture returns the texture bound to the named parameter.
func (e *Effect) Texture(name string) gfx.Texture {
	return e.tex[name]
}

// Int returns the value of the named integer parameter.
func (e *Effect) Int(name string) (int32, bool) {
	v, ok := e.ints[name]
	return v, ok
}

// Passes iterates over the technique's passes, recording pass boundaries.
func (e *Effect) Passes(technique string) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, p := range e.desc.Technique(technique) {
			e.backend.record(Command{Op: OpPassBegin, Name: p.Name})
			more := yield(i)
			e.backend.record(Command{Op: OpPassEnd, Name: p.Name})
			if !more {
				return
			}
		}
	}
}
