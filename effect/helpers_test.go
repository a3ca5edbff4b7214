// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// blendWGSL mixes two sources in a two-pass Draw technique.
const blendWGSL = `
struct VertexOutput {
  @location(0) uv : vec2<f32>,
  @builtin(position) position : vec4<f32>,
}

@group(0) @binding(0) var src0 : texture_2d<f32>;
@group(0) @binding(1) var src1 : texture_2d<f32>;
@group(0) @binding(2) var smp : sampler;
@group(0) @binding(3) var<uniform> n_src : u32;

@vertex
fn vs_main(@location(0) pos : vec2<f32>, @location(1) uv : vec2<f32>) -> VertexOutput {
  return VertexOutput(uv, vec4<f32>(pos, 0.0, 1.0));
}

@fragment
fn draw(@location(0) uv : vec2<f32>) -> @location(0) vec4<f32> {
  let a = textureSample(src0, smp, uv);
  let b = textureSample(src1, smp, uv);
  if n_src > 1u {
    return (a + b) * 0.5;
  }
  return a;
}

@fragment
fn draw_tint(@location(0) uv : vec2<f32>) -> @location(0) vec4<f32> {
  return textureSample(src0, smp, uv) * vec4<f32>(1.0, 0.9, 0.8, 1.0);
}
`

// passWGSL passes one source through.
const passWGSL = `
struct VertexOutput {
  @location(0) uv : vec2<f32>,
  @builtin(position) position : vec4<f32>,
}

@group(0) @binding(0) var src0 : texture_2d<f32>;
@group(0) @binding(1) var smp : sampler;

@vertex
fn vs_main(@location(0) pos : vec2<f32>, @location(1) uv : vec2<f32>) -> VertexOutput {
  return VertexOutput(uv, vec4<f32>(pos, 0.0, 1.0));
}

@fragment
fn draw(@location(0) uv : vec2<f32>) -> @location(0) vec4<f32> {
  return textureSample(src0, smp, uv);
}
`

const brokenWGSL = `
@fragment
fn draw( -> @location(0) vec4<f32> {
`

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: epoch} }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// writeEffect writes src to path and sets its modification time.
func writeEffect(t *testing.T, fsys afero.Fs, path, src string, mtime time.Time) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) = %v", path, err)
	}
	touch(t, fsys, path, mtime)
}

func touch(t *testing.T, fsys afero.Fs, path string, mtime time.Time) {
	t.Helper()
	if err := fsys.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes(%s) = %v", path, err)
	}
}

// captureLogs routes package logging into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}
