package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Before returns the statements that must be emitted ahead of the
// value form of e, such as the body of an inlined call used as an
// operand. It is empty for most nodes.
func Before(e Expression) string {
	return strings.Join(beforeLines(e), "\n")
}

// Value returns the source form of e itself.
func Value(e Expression) string {
	return strings.Join(valueLines(e), "\n")
}

// Format returns e as a complete statement: its preamble followed by
// its value form.
func Format(e Expression) string {
	return strings.Join(stmtLines(e), "\n")
}

// FormatProgram reconstructs the source of a program.
func FormatProgram(p *Program) string {
	var b strings.Builder
	b.WriteString("program begin\n")
	for _, e := range p.Body {
		for _, line := range stmtLines(e) {
			b.WriteByte('\t')
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString("end\n")
	return b.String()
}

func stmtLines(e Expression) []string {
	return append(beforeLines(e), valueLines(e)...)
}

func beforeLines(e Expression) []string {
	switch n := e.(type) {
	case *Constant, *Var:
		return nil
	case *Decl:
		return beforeLines(n.Init)
	case *Assign:
		return append(beforeLines(n.Target), beforeLines(n.Value)...)
	case *ArithExpr:
		return append(beforeLines(n.Target), beforeLines(n.Value)...)
	case *CompareExpr:
		return append(beforeLines(n.LHS), beforeLines(n.RHS)...)
	case *IfStmt:
		return beforeLines(n.Cond)
	case *ReturnStmt:
		return beforeLines(n.Target)
	case *CallExpr:
		var lines []string
		for _, stmt := range n.Body {
			lines = append(lines, stmtLines(stmt)...)
		}
		return append(lines, beforeLines(n.Result)...)
	default:
		panic(fmt.Sprintf("ast: unrecognized node type %T", e))
	}
}

func valueLines(e Expression) []string {
	switch n := e.(type) {
	case *Constant:
		return []string{strconv.FormatInt(n.Value, 10)}
	case *Var:
		return []string{n.Ident}
	case *Decl:
		return []string{fmt.Sprintf("com %s: %s = %s;", n.Ident, n.Type, inline(n.Init))}
	case *Assign:
		return []string{fmt.Sprintf("comstore %s, %s;", inline(n.Target), inline(n.Value))}
	case *ArithExpr:
		return []string{fmt.Sprintf("%s %s, %s;", n.Op, inline(n.Target), inline(n.Value))}
	case *CompareExpr:
		return []string{fmt.Sprintf("COMPARE.%s(%s, %s)", n.Op, inline(n.LHS), inline(n.RHS))}
	case *ReturnStmt:
		return []string{fmt.Sprintf("llreturn %s;", inline(n.Target))}
	case *IfStmt:
		lines := []string{fmt.Sprintf("if %s then", inline(n.Cond))}
		lines = append(lines, indentBody(n.Then)...)
		if len(n.Else) != 0 {
			lines = append(lines, "else then")
			lines = append(lines, indentBody(n.Else)...)
		}
		return append(lines, "end;")
	case *CallExpr:
		return valueLines(n.Result)
	default:
		panic(fmt.Sprintf("ast: unrecognized node type %T", e))
	}
}

// inline renders an operand on a single line.
func inline(e Expression) string {
	return strings.Join(valueLines(e), " ")
}

func indentBody(body []Expression) []string {
	var lines []string
	for _, stmt := range body {
		for _, line := range stmtLines(stmt) {
			lines = append(lines, "\t"+line)
		}
	}
	return lines
}
