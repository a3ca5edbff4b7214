// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect compiles WGSL effect files into host effects and keeps
// them fresh while the file changes on disk.
//
// An effect is a WGSL module whose bindings form the parameter table and
// whose fragment entry points form techniques. A technique named "Draw"
// consists of every fragment entry point called "draw" or starting with
// "draw_", in declaration order; each one is a pass.
//
// # Loading
//
// [Loader] owns at most one [Program] at a time and replaces it as a whole.
// Two load paths exist:
//
//   - Cached: the compiled [Module] comes from a shared [Cache] keyed by
//     path, so the file is parsed once per process.
//   - Bypass: the file is read and compiled on every load, and its
//     modification time is remembered. A [Monitor] polls the file once per
//     [CheckInterval] and schedules a reload for the following tick when
//     the modification time changes.
//
// GPU objects are created and destroyed between gfx.Graphics Enter and
// Leave. Compile errors are logged and leave the loader without a program.
package effect
