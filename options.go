package multisource

import (
	"time"

	"github.com/spf13/afero"

	"github.com/gogpu/multisource/effect"
)

// Option configures a Composite during creation.
//
// Example:
//
//	// Effects read from an in-memory filesystem with a private cache.
//	c := multisource.New(data, g, reg,
//	    multisource.WithFS(afero.NewMemMapFs()),
//	    multisource.WithEffectCache(effect.NewCache(16)),
//	)
type Option func(*options)

// options holds optional configuration for Composite creation.
type options struct {
	name  string
	fs    afero.Fs
	now   func() time.Time
	cache *effect.Cache
}

// defaultOptions returns the default composite options.
func defaultOptions() options {
	return options{
		fs:    afero.NewOsFs(),
		now:   time.Now,
		cache: effect.SharedCache(),
	}
}

// WithName sets the name the composite is registered under. It labels log
// records and offscreen targets and is left out of the source choices
// returned by Properties.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithFS sets the filesystem effect files are read from.
func WithFS(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithClock sets the wall clock driving the effect staleness monitor.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithEffectCache sets the cache used when bypass_cache is off.
// By default all composites share effect.SharedCache().
func WithEffectCache(c *effect.Cache) Option {
	return func(o *options) {
		if c != nil {
			o.cache = c
		}
	}
}
