package ast

import (
	"reflect"
	"testing"
)

func num(n int64) *Constant { return &Constant{n, Int32} }
func ref(name string) *Var  { return &Var{name} }

// sample is `com x: i32 = 5; if COMPARE.IsEquals(x, 5) then add x, 3;
// else then sub x, 1; end; llreturn x;`.
func sample() []Expression {
	return []Expression{
		&Decl{"x", Int32, num(5)},
		&IfStmt{
			Cond: &CompareExpr{Eq, ref("x"), num(5)},
			Then: []Expression{&ArithExpr{Add, ref("x"), num(3)}},
			Else: []Expression{&ArithExpr{Sub, ref("x"), num(1)}},
		},
		&ReturnStmt{ref("x")},
	}
}

func TestName(t *testing.T) {
	for _, test := range []struct {
		Expr Expression
		Name string
	}{
		{num(1), ""},
		{ref("x"), "x"},
		{&Decl{"y", Int1, num(0)}, "y"},
		{&Assign{ref("a"), ref("b")}, "a"},
		{&ArithExpr{Sub, ref("c"), num(1)}, "c"},
		{&CompareExpr{Lt, ref("a"), ref("b")}, ""},
		{&IfStmt{Cond: num(1)}, ""},
		{&ReturnStmt{ref("r")}, ""},
		{&CallExpr{nil, ref("r")}, ""},
	} {
		if name := test.Expr.Name(); name != test.Name {
			t.Errorf("%s: got name %q, want %q", Format(test.Expr), name, test.Name)
		}
	}
}

func TestClone(t *testing.T) {
	body := sample()
	clone := CloneList(body)
	if !reflect.DeepEqual(clone, body) {
		t.Fatalf("clone differs:\n%s", Format(clone[1]))
	}

	// Mutating the clone must leave the original intact.
	clone[0].(*Decl).Init.(*Constant).Value = 7
	clone[1].(*IfStmt).Then[0].(*ArithExpr).Target.(*Var).Ident = "y"
	clone[1].(*IfStmt).Else = nil
	if !reflect.DeepEqual(body, sample()) {
		t.Errorf("original modified through clone:\n%s", Format(body[1]))
	}

	if CloneList(nil) != nil {
		t.Error("clone of nil list is not nil")
	}
}

func TestNames(t *testing.T) {
	for _, test := range []struct {
		Body  []Expression
		Names []string
	}{
		{nil, nil},
		{[]Expression{num(1)}, nil},
		{sample(), []string{"x"}},
		{[]Expression{&Assign{ref("b"), ref("a")}, &ArithExpr{Add, ref("a"), ref("c")}}, []string{"b", "a", "c"}},
		{[]Expression{&IfStmt{
			Cond: &CompareExpr{Gt, ref("p"), num(0)},
			Then: []Expression{&IfStmt{Cond: ref("q"), Then: []Expression{&Assign{ref("r"), ref("p")}}}},
		}}, []string{"p", "q", "r"}},
	} {
		if names := Names(test.Body...); !reflect.DeepEqual(names, test.Names) {
			t.Errorf("got names %v, want %v", names, test.Names)
		}
	}
}

func TestInspectSkip(t *testing.T) {
	var visited int
	Inspect(sample()[1], func(e Expression) bool {
		visited++
		_, isIf := e.(*IfStmt)
		return isIf
	})
	// The if statement, its condition and one statement per arm.
	if visited != 4 {
		t.Errorf("visited %d nodes, want 4", visited)
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{Int32, Int1} {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %v, %v, want %v", typ.String(), got, err, typ)
		}
	}
	if typ, err := ParseType("i64"); err == nil || typ != Illegal {
		t.Errorf("ParseType(i64) = %v, %v, want error", typ, err)
	}
	if Int32.Bits() != 32 || Int1.Bits() != 1 || Illegal.Bits() != 0 {
		t.Error("wrong bit widths")
	}
}
