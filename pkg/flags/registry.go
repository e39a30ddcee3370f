package flags

import (
	"fmt"
)

// FlagRegistry keeps flags in registration order.
type FlagRegistry struct {
	flags []Flag
	index map[string]Flag
}

// NewFlagRegistry creates an empty registry.
func NewFlagRegistry() *FlagRegistry {
	return &FlagRegistry{index: make(map[string]Flag)}
}

// Register adds a flag. Registering the same name twice panics since it is a
// programming error that cobra would also reject.
func (r *FlagRegistry) Register(f Flag) {
	if _, exists := r.index[f.GetName()]; exists {
		panic(fmt.Sprintf("flag %q registered twice", f.GetName()))
	}
	r.flags = append(r.flags, f)
	r.index[f.GetName()] = f
}

// Get returns the flag with the given name, or nil.
func (r *FlagRegistry) Get(name string) Flag {
	return r.index[name]
}

// All returns the registered flags in registration order.
func (r *FlagRegistry) All() []Flag {
	out := make([]Flag, len(r.flags))
	copy(out, r.flags)
	return out
}

// Len returns the number of registered flags.
func (r *FlagRegistry) Len() int {
	return len(r.flags)
}
