package ssa

import (
	"reflect"
	"testing"

	"tinygo.org/x/go-llvm"
)

func constants(t *testing.T, ns ...uint64) []llvm.Value {
	t.Helper()
	ctx := llvm.NewContext()
	t.Cleanup(ctx.Dispose)
	vals := make([]llvm.Value, len(ns))
	for i, n := range ns {
		vals[i] = llvm.ConstInt(ctx.Int32Type(), n, false)
	}
	return vals
}

func TestDeclare(t *testing.T) {
	v := constants(t, 5, 6)
	r := NewRegistry()
	com := r.Declare("x", v[0])
	if com.Origin != v[0] || com.Current != v[0] {
		t.Errorf("got origin %v current %v, want both 5", com.Origin, com.Current)
	}
	if cur, ok := r.Current("x"); !ok || cur != v[0] {
		t.Error("declared value is not current")
	}

	// Redeclaration replaces the record.
	r.Save("x", "entry")
	r.Declare("x", v[1])
	if _, ok := r.State("x", "entry"); ok {
		t.Error("redeclaration kept old states")
	}
	if cur, _ := r.Current("x"); cur != v[1] {
		t.Error("redeclaration did not replace current value")
	}

	if r.Declare("", v[0]) != nil || r.Len() != 1 {
		t.Error("empty name registered")
	}
}

func TestSetCurrent(t *testing.T) {
	v := constants(t, 1, 2)
	r := NewRegistry()
	r.Declare("x", v[0])
	if !r.SetCurrent("x", v[1]) {
		t.Error("SetCurrent on declared name failed")
	}
	if com, _ := r.Lookup("x"); com.Current != v[1] || com.Origin != v[0] {
		t.Error("SetCurrent changed origin or did not change current")
	}
	if r.SetCurrent("y", v[1]) {
		t.Error("SetCurrent on unknown name succeeded")
	}
	if _, ok := r.Lookup("y"); ok {
		t.Error("SetCurrent registered unknown name")
	}
}

func TestSaveFirstWins(t *testing.T) {
	v := constants(t, 1, 2, 3)
	r := NewRegistry()
	r.Declare("x", v[0])
	r.Save("x", "entry")
	r.SetCurrent("x", v[1])
	r.Save("x", "entry")
	r.Save("x", "if")
	r.SetCurrent("x", v[2])
	r.Save("y", "entry")

	for _, test := range []struct {
		Block string
		Want  llvm.Value
		Ok    bool
	}{
		{"entry", v[0], true},
		{"if", v[1], true},
		{"else", llvm.Value{}, false},
	} {
		got, ok := r.State("x", test.Block)
		if ok != test.Ok || got != test.Want {
			t.Errorf("State(x, %s) = %v, %t, want %v, %t", test.Block, got, ok, test.Want, test.Ok)
		}
	}
	if _, ok := r.State("y", "entry"); ok {
		t.Error("saved state of unknown name")
	}
}

func TestNames(t *testing.T) {
	v := constants(t, 0)
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b", "a"} {
		r.Declare(name, v[0])
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("got names %v, want [a b c]", names)
	}
}
