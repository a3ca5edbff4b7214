package multisource

import (
	"fmt"
	"strconv"
)

const (
	// MaxSources is the number of slots a composite has.
	MaxSources = 10

	// DefaultSources is the active slot count when none is configured.
	DefaultSources = 2
)

// Settings keys.
const (
	KeyEffect      = "effect"
	KeyBypassCache = "bypass_cache"
	KeyNumSources  = "n_src"
)

// sourceKeys holds "src0".."src9".
var sourceKeys = func() [MaxSources]string {
	var keys [MaxSources]string
	for i := range keys {
		keys[i] = "src" + strconv.Itoa(i)
	}
	return keys
}()

// SourceKey returns the settings key of slot i ("src<i>").
// It panics if i is out of range.
func SourceKey(i int) string {
	return sourceKeys[i]
}

// Data is the host's settings snapshot. Getters return the zero value for
// absent keys.
type Data interface {
	Has(key string) bool
	String(key string) string
	Bool(key string) bool
	Int(key string) int64
	SetString(key, v string)
	SetBool(key string, v bool)
	SetInt(key string, v int64)
}

// MapData is an in-memory Data.
type MapData map[string]any

// Has reports whether key is set.
func (d MapData) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the string stored under key.
func (d MapData) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the bool stored under key.
func (d MapData) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Int returns the integer stored under key.
func (d MapData) Int(key string) int64 {
	switch v := d[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	default:
		return 0
	}
}

// SetString stores v under key.
func (d MapData) SetString(key, v string) { d[key] = v }

// SetBool stores v under key.
func (d MapData) SetBool(key string, v bool) { d[key] = v }

// SetInt stores v under key.
func (d MapData) SetInt(key string, v int64) { d[key] = v }

// Settings is the effective configuration of a composite.
type Settings struct {
	// Effect is the effect file path. Empty means nothing is drawn.
	Effect string

	// BypassCache compiles the effect from a direct file read and reloads
	// it when the file changes.
	BypassCache bool

	// NumSources is the active slot count, in [1, MaxSources].
	NumSources int

	// Sources holds the configured source name of each slot.
	Sources [MaxSources]string
}

// ClampSources clamps n to [1, MaxSources].
func ClampSources(n int64) int {
	switch {
	case n < 1:
		return 1
	case n > MaxSources:
		return MaxSources
	default:
		return int(n)
	}
}

// Defaults stores the default values of unset keys in d.
func Defaults(d Data) {
	if !d.Has(KeyNumSources) {
		d.SetInt(KeyNumSources, DefaultSources)
	}
	if !d.Has(KeyBypassCache) {
		d.SetBool(KeyBypassCache, false)
	}
}

// LoadSettings reads the effective configuration from d. An absent n_src
// means DefaultSources; any other value is clamped.
func LoadSettings(d Data) Settings {
	s := Settings{
		Effect:      d.String(KeyEffect),
		BypassCache: d.Bool(KeyBypassCache),
		NumSources:  DefaultSources,
	}
	if d.Has(KeyNumSources) {
		s.NumSources = ClampSources(d.Int(KeyNumSources))
	}
	for i := range s.Sources {
		s.Sources[i] = d.String(sourceKeys[i])
	}
	return s
}

// Save writes every key of s to d.
func (s Settings) Save(d Data) {
	d.SetString(KeyEffect, s.Effect)
	d.SetBool(KeyBypassCache, s.BypassCache)
	d.SetInt(KeyNumSources, int64(ClampSources(int64(s.NumSources))))
	for i, name := range s.Sources {
		d.SetString(sourceKeys[i], name)
	}
}

// Active returns the configured names of the active slots.
func (s Settings) Active() []string {
	return s.Sources[:ClampSources(int64(s.NumSources))]
}

func (s Settings) String() string {
	return fmt.Sprintf("effect=%q bypass=%v n_src=%d sources=%q",
		s.Effect, s.BypassCache, s.NumSources, s.Active())
}
