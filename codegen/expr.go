package codegen

import (
	"fmt"

	"github.com/RobotoSkunk/mascal/ast"
	"tinygo.org/x/go-llvm"
)

func (c *Context) emit(e ast.Expression) llvm.Value {
	switch n := e.(type) {
	case *ast.Constant:
		typ := c.llvmType(n.Type)
		if typ.TypeKind() != llvm.IntegerTypeKind {
			c.fatalf(MalformedType, "", "constant %d has non-integer type %s", n.Value, n.Type)
		}
		return llvm.ConstInt(typ, uint64(n.Value), false)

	case *ast.Var:
		v, ok := c.reg.Current(n.Ident)
		if !ok {
			c.fatalf(UnknownIdentifier, n.Ident, "unknown variable '%s'", n.Ident)
		}
		return v

	case *ast.Decl:
		if n.Init == nil {
			c.fatalf(MalformedType, n.Ident, "com %s has no initializer", n.Ident)
		}
		v := c.emit(n.Init)
		c.reg.Declare(n.Ident, v)
		return v

	case *ast.Assign:
		v := c.valueOf(n.Value)
		c.reg.SetCurrent(n.Target.Name(), v)
		return v

	case *ast.ArithExpr:
		lhs, rhs := c.valueOf(n.Target), c.valueOf(n.Value)
		var v llvm.Value
		switch n.Op {
		case ast.Add:
			v = c.b.CreateAdd(lhs, rhs, "")
		case ast.Sub:
			v = c.b.CreateSub(lhs, rhs, "")
		default:
			panic(fmt.Sprintf("codegen: illegal arithmetic operation: %v", n.Op))
		}
		c.reg.SetCurrent(n.Target.Name(), v)
		return v

	case *ast.CompareExpr:
		return c.emitCompare(n)

	case *ast.IfStmt:
		c.emitIf(n)
		return llvm.Value{}

	case *ast.ReturnStmt:
		v := c.b.CreateRet(c.valueOf(n.Target))
		c.terminate()
		return v

	case *ast.CallExpr:
		for _, stmt := range n.Body {
			c.emit(stmt)
		}
		return c.emit(n.Result)

	default:
		panic(fmt.Sprintf("codegen: unrecognized node type %T", e))
	}
}

// valueOf returns the current definition of a named operand and
// generates anonymous or not yet defined operands.
func (c *Context) valueOf(e ast.Expression) llvm.Value {
	if name := e.Name(); name != "" {
		if v, ok := c.reg.Current(name); ok {
			return v
		}
	}
	return c.emit(e)
}

// emitCompare generates an unsigned comparison. Less-than forms swap
// their operands.
func (c *Context) emitCompare(n *ast.CompareExpr) llvm.Value {
	lhs, rhs := c.valueOf(n.LHS), c.valueOf(n.RHS)
	switch n.Op {
	case ast.Lt:
		return c.b.CreateICmp(llvm.IntUGT, rhs, lhs, "cmptmp")
	case ast.Gt:
		return c.b.CreateICmp(llvm.IntUGT, lhs, rhs, "cmptmp")
	case ast.Eq:
		return c.b.CreateICmp(llvm.IntEQ, lhs, rhs, "cmptmp")
	case ast.Ne:
		return c.b.CreateICmp(llvm.IntNE, lhs, rhs, "cmptmp")
	case ast.Le:
		return c.b.CreateICmp(llvm.IntUGE, rhs, lhs, "cmptmp")
	case ast.Ge:
		return c.b.CreateICmp(llvm.IntUGE, lhs, rhs, "cmptmp")
	default:
		panic(fmt.Sprintf("codegen: illegal comparison: %v", n.Op))
	}
}

func (c *Context) llvmType(typ ast.Type) llvm.Type {
	switch typ {
	case ast.Int32:
		return c.ctx.Int32Type()
	case ast.Int1:
		return c.ctx.Int1Type()
	default:
		c.fatalf(MalformedType, "", "illegal type %s", typ)
		panic("unreachable")
	}
}
