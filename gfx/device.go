// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// A Graphics backend that is backed by a real device may also implement
// DeviceHandle. The compositor uses it only to pick the offscreen target
// format and to report the adapter in debug logs.
type DeviceHandle = gpucontext.DeviceProvider

// Graphics is the host-provided immediate-mode compositing API.
//
// All methods are called from the host's graphics thread. Implementations
// are not required to be safe for concurrent use.
type Graphics interface {
	// Enter acquires exclusive access to the graphics context.
	// It is reentrant and must be paired with Leave.
	Enter()

	// Leave releases the access acquired by the matching Enter.
	Leave()

	// CreateTarget allocates an offscreen render target.
	// Must be called between Enter and Leave.
	CreateTarget(desc TargetDescriptor) (Target, error)

	// DestroyTarget releases a target created by CreateTarget.
	// Must be called between Enter and Leave. A nil target is ignored.
	DestroyTarget(t Target)

	// BeginTarget redirects drawing into t at its full size.
	// Returns false if the target cannot be bound this frame.
	BeginTarget(t Target) bool

	// EndTarget restores the previous render target. The projection is
	// left as is; callers that change it use PushProjection.
	EndTarget(t Target)

	// Clear fills the bound target with c.
	Clear(c gputypes.Color)

	// SetProjection replaces the current projection matrix.
	SetProjection(m mgl32.Mat4)

	// PushProjection saves the current projection matrix.
	PushProjection()

	// PopProjection restores the projection saved by the matching
	// PushProjection.
	PopProjection()

	// PushBlend saves the current blend state.
	PushBlend()

	// PopBlend restores the blend state saved by the matching PushBlend.
	PopBlend()

	// ResetBlend sets the default (alpha) blend state.
	ResetBlend()

	// SetBlend sets the current blend state.
	SetBlend(b gputypes.BlendState)

	// CreateEffect builds a GPU effect from a compiled module.
	// Must be called between Enter and Leave.
	CreateEffect(desc EffectDescriptor) (Effect, error)

	// DestroyEffect releases an effect. Must be called between Enter and
	// Leave. A nil effect is ignored.
	DestroyEffect(e Effect)

	// DrawSprite draws a width×height rectangle. A nil texture draws with
	// whatever textures are bound to the active effect pass.
	DrawSprite(tex Texture, width, height uint32)
}

// Effect is a compiled shader program created by Graphics.CreateEffect.
type Effect interface {
	// Label returns the diagnostic label the effect was created with.
	Label() string

	// HasParam reports whether the effect declares a parameter with the
	// given name and kind.
	HasParam(name string, kind ParamKind) bool

	// SetTexture binds tex to the named texture parameter.
	// A nil tex unbinds it. Unknown names are ignored.
	SetTexture(name string, tex Texture)

	// SetInt sets the named integer parameter. Unknown names are ignored.
	SetInt(name string, v int32)

	// Passes iterates over the passes of the named technique. Each pass is
	// active while the loop body runs.
	Passes(technique string) iter.Seq[int]
}

// Texture is a sampled view of a render target.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32
}

// Target is an offscreen render target.
type Target interface {
	// Width returns the target width in pixels.
	Width() uint32

	// Height returns the target height in pixels.
	Height() uint32

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Texture returns the texture holding the target's last rendered
	// contents.
	Texture() Texture
}

// TargetDescriptor describes parameters for creating a render target.
type TargetDescriptor struct {
	// Label is an optional debug label for the target.
	Label string

	// Width is the target width in pixels.
	Width uint32

	// Height is the target height in pixels.
	Height uint32

	// Format is the target pixel format.
	Format gputypes.TextureFormat
}

// DefaultTargetFormat is used when the backend does not report a surface
// format.
const DefaultTargetFormat = gputypes.TextureFormatBGRA8Unorm

// TargetFormat returns the format offscreen targets should use on g.
// Backends implementing DeviceHandle may override DefaultTargetFormat by
// reporting a surface format.
func TargetFormat(g Graphics) gputypes.TextureFormat {
	if h, ok := g.(DeviceHandle); ok {
		if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			return f
		}
	}
	return DefaultTargetFormat
}

// Ortho returns the orthographic projection mapping the pixel coordinates
// of a width×height target to clip space.
func Ortho(width, height uint32) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), 0, float32(height), -100, 100)
}
