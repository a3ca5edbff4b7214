// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx defines the graphics backend a host application injects into
// the compositor.
//
// # Key Principle
//
// The compositor RECEIVES its graphics backend from the host, it does NOT
// create a GPU device. The host owns the device, the render loop and the
// thread affinity rules; the compositor only orchestrates offscreen targets,
// blend state and effect passes through the Graphics interface.
//
// # Core Interfaces
//
//   - Graphics: immediate-mode 2D compositing API provided by the host
//   - Target: offscreen render target owned by the caller that created it
//   - Texture: sampled view of a Target
//   - Effect: compiled shader program with named parameters and passes
//   - DeviceHandle: optional GPU device access (gpucontext.DeviceProvider)
//
// # Exclusive Section
//
// Creating and destroying targets and effects must happen between
// Graphics.Enter and Graphics.Leave. Enter is reentrant: nested Enter/Leave
// pairs on the same thread are allowed. Per-frame drawing (BeginTarget,
// Clear, DrawSprite, ...) runs inside the host's render callback and does
// not take the section.
//
// # Backends
//
// Backends register themselves by name, following the database/sql driver
// pattern:
//
//	import _ "github.com/gogpu/multisource/gfx/record"
//
//	g := gfx.Best()
package gfx
