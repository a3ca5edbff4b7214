// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Backend names in selection priority order.
const (
	BackendWGPU   = "wgpu"
	BackendRecord = "record"
)

// Factory creates a new Graphics backend instance.
type Factory func() Graphics

var backends = gpucontext.NewRegistry[Graphics](
	gpucontext.WithPriority(BackendWGPU, BackendRecord),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("gfx: Register factory is nil")
	}
	backends.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	backends.Unregister(name)
}

// Backends returns a sorted list of registered backend names.
func Backends() []string {
	names := backends.Available()
	sort.Strings(names)
	return names
}

// New creates a backend instance by name.
// Returns an error if the backend is not registered.
func New(name string) (Graphics, error) {
	if !backends.Has(name) {
		return nil, fmt.Errorf("gfx: unknown backend %q (forgotten import?)", name)
	}
	return backends.Get(name), nil
}

// Best returns an instance of the highest-priority registered backend,
// or nil if none is registered.
func Best() Graphics {
	return backends.Best()
}

// BestName returns the name of the backend Best would create.
func BestName() string {
	return backends.BestName()
}
