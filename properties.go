package multisource

import (
	"slices"
	"strconv"
)

// PropertyKind is the kind of value a property edits.
type PropertyKind uint8

const (
	// PropertyPath is an effect file path.
	PropertyPath PropertyKind = iota

	// PropertyBool is a checkbox.
	PropertyBool

	// PropertyInt is a bounded integer.
	PropertyInt

	// PropertySource is a choice among source names.
	PropertySource
)

// Property describes one entry of the composite's settings sheet along
// with its current value.
type Property struct {
	Key         string
	Description string
	Kind        PropertyKind
	Value       any

	// Min and Max bound PropertyInt values.
	Min, Max int

	// Options lists the choices of a PropertySource.
	Options []string
}

// nameLister is implemented by namespaces that can list their sources.
// *source.Registry implements it.
type nameLister interface {
	Names() []string
}

// Properties describes the settings sheet: the effect path, the bypass
// flag, the slot count and one source choice per active slot. Source
// choices are the namespace's current names, without the composite's own.
func (c *Composite) Properties() []Property {
	s := c.settings
	props := []Property{
		{Key: KeyEffect, Description: "Effect file", Kind: PropertyPath, Value: s.Effect},
		{Key: KeyBypassCache, Description: "Bypass effect cache", Kind: PropertyBool, Value: s.BypassCache},
		{
			Key:         KeyNumSources,
			Description: "Number of sources",
			Kind:        PropertyInt,
			Value:       s.NumSources,
			Min:         1,
			Max:         MaxSources,
		},
	}

	var names []string
	if nl, ok := c.ns.(nameLister); ok {
		names = slices.DeleteFunc(nl.Names(), func(n string) bool {
			return n == c.opts.name
		})
	}

	for i := 0; i < s.NumSources; i++ {
		props = append(props, Property{
			Key:         SourceKey(i),
			Description: "Source " + strconv.Itoa(i),
			Kind:        PropertySource,
			Value:       s.Sources[i],
			Options:     names,
		})
	}
	return props
}

// SettingsFromProperties rebuilds a configuration from property values as
// returned by Properties. Unknown keys are ignored.
func SettingsFromProperties(props []Property) Settings {
	d := MapData{}
	for _, p := range props {
		switch v := p.Value.(type) {
		case string:
			d.SetString(p.Key, v)
		case bool:
			d.SetBool(p.Key, v)
		case int:
			d.SetInt(p.Key, int64(v))
		}
	}
	return LoadSettings(d)
}
