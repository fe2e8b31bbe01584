package ast

import (
	"reflect"
	"testing"
)

func inc() *Procedure {
	return &Procedure{
		Name:   "inc",
		Params: []Param{{"a", Int32}},
		Result: Int32,
		Body:   []Expression{&ArithExpr{Add, ref("a"), num(1)}, &ReturnStmt{ref("a")}},
	}
}

func TestExpand(t *testing.T) {
	proc := inc()
	arg := ref("x")
	call, err := proc.Expand([]Expression{arg})
	if err != nil {
		t.Fatal(err)
	}
	want := &CallExpr{
		Body:   []Expression{&Decl{"a", Int32, ref("x")}, &ArithExpr{Add, ref("a"), num(1)}},
		Result: ref("a"),
	}
	if !reflect.DeepEqual(call, want) {
		t.Errorf("got\n%s\nwant\n%s", Before(call), Before(want))
	}
	if call.Body[0].(*Decl).Init == Expression(arg) {
		t.Error("argument not copied")
	}
	if !reflect.DeepEqual(proc, inc()) {
		t.Error("expansion modified the procedure")
	}
}

func TestExpandNoReturn(t *testing.T) {
	proc := &Procedure{Name: "one", Body: []Expression{num(1)}}
	call, err := proc.Expand(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(call.Body) != 0 || !reflect.DeepEqual(call.Result, num(1)) {
		t.Errorf("got %s", Format(call))
	}
}

func TestExpandErrors(t *testing.T) {
	_, err := inc().Expand(nil)
	if arity, ok := err.(*ArityError); !ok || arity.Want != 1 || arity.Got != 0 {
		t.Errorf("got error %v, want arity error", err)
	}
	if _, err := (&Procedure{Name: "empty"}).Expand(nil); err == nil {
		t.Error("expanded empty procedure")
	}
}

func TestProcedureLookup(t *testing.T) {
	p := &Program{Procedures: []*Procedure{inc()}}
	if proc, ok := p.Procedure("inc"); !ok || proc.Name != "inc" {
		t.Error("inc not found")
	}
	if _, ok := p.Procedure("dec"); ok {
		t.Error("found undefined procedure")
	}
	clone := p.Clone()
	clone.Procedures[0].Params[0].Ident = "b"
	if p.Procedures[0].Params[0].Ident != "a" {
		t.Error("clone shares parameters")
	}
}
