// Package flags provides feature flag support for optional behavior.
// Flags are read-only after initialization; unknown flags read as disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/glint/internal/log"
)

const (
	// FlagPersistentCache keeps rendered blocks in the SQLite store so they
	// survive restarts. When disabled only the in-process cache is used.
	FlagPersistentCache = "persistent-cache"

	// FlagParallelBlocks processes page blocks concurrently.
	// When disabled blocks are processed one at a time in document order.
	FlagParallelBlocks = "parallel-blocks"
)

// Defaults returns the value of every known flag when config leaves it unset.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagPersistentCache: false,
		FlagParallelBlocks:  true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map layered over Defaults().
// Config entries win; names that are not known flags are kept so that
// All() reports exactly what was configured.
func New(flags map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, flags)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}

// Unknown returns configured names that are not glint flags, sorted.
// Callers log these so typos in config are visible.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	known := Defaults()
	var out []string
	for name := range r.flags {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
