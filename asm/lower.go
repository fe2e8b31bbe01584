package asm

import (
	"fmt"
	"strings"

	"github.com/RobotoSkunk/mascal/ast"
)

// Lower converts a function to a mascal program. Every register and
// stack slot becomes a zero-initialized com; moves and arithmetic
// become stores and updates and ret returns eax. Instructions without
// a mascal equivalent are dropped.
func Lower(fn *Function) *ast.Program {
	p := &ast.Program{Name: fn.Name, Body: declare(fn)}
	for _, inst := range fn.Body {
		if e, ok := lower(fn, inst); ok {
			p.Body = append(p.Body, e)
		}
	}
	return p
}

// Translate renders the unit as mascal source. Functions become
// programs; directives and instructions without a mascal equivalent
// become comments.
func Translate(u *Unit) string {
	var b strings.Builder
	for _, inst := range u.Body {
		if fn, ok := inst.(*Function); ok {
			translateFunction(&b, fn)
			continue
		}
		fmt.Fprintf(&b, "// %s\n", describe(inst))
	}
	return b.String()
}

func translateFunction(b *strings.Builder, fn *Function) {
	fmt.Fprintf(b, "// [Assembly] Function '%s'.", fn.Name)
	if fn.StackProtected {
		b.WriteString(" Stack protected.")
	}
	b.WriteString("\nprogram begin\n")
	for _, e := range declare(fn) {
		fmt.Fprintf(b, "\t%s\n", ast.Format(e))
	}
	for _, inst := range fn.Body {
		if e, ok := lower(fn, inst); ok {
			fmt.Fprintf(b, "\t%s\n", ast.Format(e))
		} else {
			fmt.Fprintf(b, "\t// %s\n", describe(inst))
		}
	}
	b.WriteString("end\n")
}

func declare(fn *Function) []ast.Expression {
	decls := make([]ast.Expression, 0, len(fn.Registers)+len(fn.Slots))
	for _, reg := range fn.Registers {
		decls = append(decls, &ast.Decl{Ident: reg.Name, Type: ast.Int32, Init: &ast.Constant{Type: ast.Int32}})
	}
	for _, slot := range fn.Slots {
		decls = append(decls, &ast.Decl{Ident: slot.Name, Type: ast.Int32, Init: &ast.Constant{Type: ast.Int32}})
	}
	return decls
}

func lower(fn *Function, inst Inst) (ast.Expression, bool) {
	switch n := inst.(type) {
	case *Mov:
		src, ok1 := value(n.Src)
		dst, ok2 := target(n.Dst)
		if !ok1 || !ok2 {
			return nil, false
		}
		return &ast.Assign{Target: dst, Value: src}, true
	case *Arith:
		src, ok1 := value(n.Src)
		dst, ok2 := target(n.Dst)
		if !ok1 || !ok2 {
			return nil, false
		}
		op := ast.Add
		if n.Op == Sub {
			op = ast.Sub
		}
		return &ast.ArithExpr{Op: op, Target: dst, Value: src}, true
	case *Ret:
		for _, reg := range fn.Registers {
			if reg.Name == "eax" {
				return &ast.ReturnStmt{Target: &ast.Var{Ident: "eax"}}, true
			}
		}
		return &ast.ReturnStmt{Target: &ast.Constant{Type: ast.Int32}}, true
	default:
		return nil, false
	}
}

func value(op Operand) (ast.Expression, bool) {
	if imm, ok := op.(*Imm); ok {
		return &ast.Constant{Value: imm.Value, Type: ast.Int32}, true
	}
	return target(op)
}

func target(op Operand) (ast.Expression, bool) {
	switch o := op.(type) {
	case *Reg:
		return &ast.Var{Ident: o.Name}, true
	case *Slot:
		return &ast.Var{Ident: o.Name}, true
	default:
		return nil, false
	}
}

// describe returns the comment text for an item without a mascal
// equivalent.
func describe(inst Inst) string {
	switch n := inst.(type) {
	case *Comment:
		return n.Text
	case *Def:
		return fmt.Sprintf("[Assembly] Definition '%s', storage class %d, type %d.", n.Name, n.Class, n.Type)
	case *Set:
		return fmt.Sprintf("[Assembly] Set '%s' to %s.", n.Name, n.Value)
	case *File:
		return fmt.Sprintf("[Assembly] Source file '%s'.", n.Name)
	case *P2Align:
		return fmt.Sprintf("[Assembly] Align to %d bytes, skipping at most %d.", 1<<uint(n.Bytes), n.Limit)
	case *Label:
		return fmt.Sprintf("[Assembly] Label %s.", n.Name)
	default:
		return "[Assembly] " + inst.String()
	}
}
