// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
)

func TestCacheLoadOnce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEffect(t, fsys, "/fx/pass.wgsl", passWGSL, epoch)
	c := NewCache(4)

	first, err := c.Load(fsys, "/fx/pass.wgsl")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	// A changed file is not seen through the cache.
	writeEffect(t, fsys, "/fx/pass.wgsl", brokenWGSL, epoch)
	second, err := c.Load(fsys, "/fx/pass.wgsl")
	if err != nil {
		t.Fatalf("second Load() = %v", err)
	}
	if first != second {
		t.Error("second Load() returned a different module")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", st)
	}
}

func TestCacheFailuresNotCached(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEffect(t, fsys, "/fx/broken.wgsl", brokenWGSL, epoch)
	c := NewCache(4)

	if _, err := c.Load(fsys, "/fx/broken.wgsl"); err == nil {
		t.Fatal("Load() of broken effect should fail")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}

	writeEffect(t, fsys, "/fx/broken.wgsl", passWGSL, epoch)
	if _, err := c.Load(fsys, "/fx/broken.wgsl"); err != nil {
		t.Fatalf("Load() after fix = %v", err)
	}

	if _, err := c.Load(fsys, "/fx/missing.wgsl"); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestCacheEviction(t *testing.T) {
	fsys := afero.NewMemMapFs()
	c := NewCache(4)
	for i := range 5 {
		path := fmt.Sprintf("/fx/%d.wgsl", i)
		writeEffect(t, fsys, path, passWGSL, epoch)
		if _, err := c.Load(fsys, path); err != nil {
			t.Fatalf("Load(%s) = %v", path, err)
		}
	}
	// Exceeding 4 evicts down to 3, oldest first.
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if c.Forget("/fx/0.wgsl") {
		t.Error("oldest entry should have been evicted")
	}
	if !c.Forget("/fx/4.wgsl") {
		t.Error("newest entry should be cached")
	}
}

func TestCacheClear(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEffect(t, fsys, "/fx/pass.wgsl", passWGSL, epoch)
	c := NewCache(0)
	if _, err := c.Load(fsys, "/fx/pass.wgsl"); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.Stats().Capacity; got != 0 {
		t.Errorf("Capacity = %d, want 0", got)
	}
}
