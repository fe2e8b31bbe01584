package ast

import "fmt"

// Inspect traverses a tree in depth-first order, calling f for each
// node. When f returns false, the children of that node are skipped.
func Inspect(e Expression, f func(Expression) bool) {
	if e == nil || !f(e) {
		return
	}
	switch n := e.(type) {
	case *Constant, *Var:
	case *Decl:
		Inspect(n.Init, f)
	case *Assign:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *ArithExpr:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CompareExpr:
		Inspect(n.LHS, f)
		Inspect(n.RHS, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		inspectList(n.Then, f)
		inspectList(n.Else, f)
	case *ReturnStmt:
		Inspect(n.Target, f)
	case *CallExpr:
		inspectList(n.Body, f)
		Inspect(n.Result, f)
	default:
		panic(fmt.Sprintf("ast: unrecognized node type %T", e))
	}
}

func inspectList(exprs []Expression, f func(Expression) bool) {
	for _, e := range exprs {
		Inspect(e, f)
	}
}

// Names returns the names of the coms referenced anywhere in a
// statement list, in order of first appearance.
func Names(exprs ...Expression) []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range exprs {
		Inspect(e, func(n Expression) bool {
			if name := n.Name(); name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			return true
		})
	}
	return names
}
