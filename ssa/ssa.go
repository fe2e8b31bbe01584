// Package ssa tracks, for every named mutable value, which SSA
// definition is current at the point of emission together with the
// definitions that were live when given blocks were recorded.
//
package ssa // import "github.com/RobotoSkunk/mascal/ssa"

import (
	"sort"

	"github.com/nikandfor/tlog"
	"tinygo.org/x/go-llvm"
)

// Com is the SSA state of one named value.
type Com struct {
	Name    string
	Origin  llvm.Value            // Definition at declaration
	Current llvm.Value            // Definition live at the emission point
	States  map[string]llvm.Value // Definition live per recorded block
}

// Registry maps names to their SSA state. A registry belongs to a
// single compilation unit.
type Registry struct {
	coms map[string]*Com
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{coms: make(map[string]*Com)}
}

// Declare creates the record for name with v as origin and current
// definition. An existing record of the same name is replaced. The
// empty name is never registered.
func (r *Registry) Declare(name string, v llvm.Value) *Com {
	if name == "" {
		return nil
	}
	if _, ok := r.coms[name]; ok {
		tlog.V("ssa").Printw("redeclare", "name", name)
	}
	com := &Com{
		Name:    name,
		Origin:  v,
		Current: v,
		States:  make(map[string]llvm.Value),
	}
	r.coms[name] = com
	return com
}

// Lookup returns the record for name.
func (r *Registry) Lookup(name string) (*Com, bool) {
	com, ok := r.coms[name]
	return com, ok
}

// Current returns the current definition of name.
func (r *Registry) Current(name string) (llvm.Value, bool) {
	if com, ok := r.coms[name]; ok {
		return com.Current, true
	}
	return llvm.Value{}, false
}

// SetCurrent makes v the current definition of name. Unknown names are
// ignored and false is returned.
func (r *Registry) SetCurrent(name string, v llvm.Value) bool {
	com, ok := r.coms[name]
	if !ok {
		return false
	}
	com.Current = v
	return true
}

// Save records the current definition of name under block. The first
// recorded state of a block is kept; later saves are ignored.
func (r *Registry) Save(name, block string) {
	com, ok := r.coms[name]
	if !ok {
		return
	}
	if _, ok := com.States[block]; !ok {
		com.States[block] = com.Current
	}
}

// State returns the definition of name recorded under block.
func (r *Registry) State(name, block string) (llvm.Value, bool) {
	if com, ok := r.coms[name]; ok {
		v, ok := com.States[block]
		return v, ok
	}
	return llvm.Value{}, false
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.coms))
	for name := range r.coms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.coms) }
