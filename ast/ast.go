// Package ast defines the syntax tree of mascal programs: typed
// constants, named mutable values ("coms"), arithmetic updates,
// comparisons, structured conditionals, returns and inlined procedure
// bodies.
//
package ast // import "github.com/RobotoSkunk/mascal/ast"

// Expression is any node of the tree. The set of implementations is
// closed: Constant, Var, Decl, Assign, ArithExpr, CompareExpr, IfStmt,
// ReturnStmt and CallExpr.
type Expression interface {
	// Name returns the name of the value the node addresses or the
	// empty string for anonymous nodes.
	Name() string
	// Clone returns a deep copy sharing no nodes with the receiver.
	Clone() Expression
	exprNode()
}

// Constant is an integer literal of a given type.
type Constant struct {
	Value int64
	Type  Type
}

// Var references the current value of a com.
type Var struct {
	Ident string
}

// Decl declares a com and initializes it ("com x: i32 = 5;").
type Decl struct {
	Ident string
	Type  Type
	Init  Expression
}

// Assign stores a value into a com ("comstore x, y;").
type Assign struct {
	Target Expression
	Value  Expression
}

// ArithExpr updates a com with a binary arithmetic operation. Valid
// operations are add and sub.
type ArithExpr struct {
	Op     ArithOp
	Target Expression
	Value  Expression
}

// CompareExpr compares two operands as unsigned integers.
type CompareExpr struct {
	Op  CompareOp
	LHS Expression
	RHS Expression
}

// IfStmt conditionally executes Then or, when present, Else.
type IfStmt struct {
	Cond Expression
	Then []Expression
	Else []Expression
}

// ReturnStmt returns a value from the generated routine.
type ReturnStmt struct {
	Target Expression
}

// CallExpr splices a sequence of statements at a use site and yields
// the value of Result. It is the inlined form of a procedure call.
type CallExpr struct {
	Body   []Expression
	Result Expression
}

// ArithOp is the operation of an ArithExpr.
type ArithOp uint8

// Arithmetic operations.
const (
	Add ArithOp = iota + 1
	Sub
)

// CompareOp is the ordering tested by a CompareExpr.
type CompareOp uint8

// Comparison orderings.
const (
	Lt CompareOp = iota + 1
	Gt
	Eq
	Ne
	Le
	Ge
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	default:
		return "illegal"
	}
}

func (op CompareOp) String() string {
	switch op {
	case Lt:
		return "IsLessThan"
	case Gt:
		return "IsMoreThan"
	case Eq:
		return "IsEquals"
	case Ne:
		return "IsNotEquals"
	case Le:
		return "IsLessThanOrEquals"
	case Ge:
		return "IsMoreThanOrEquals"
	default:
		return "Illegal"
	}
}

// Name returns the empty string.
func (c *Constant) Name() string { return "" }

// Name returns the referenced identifier.
func (v *Var) Name() string { return v.Ident }

// Name returns the declared identifier.
func (d *Decl) Name() string { return d.Ident }

// Name returns the name of the assigned target.
func (a *Assign) Name() string { return a.Target.Name() }

// Name returns the name of the updated target.
func (a *ArithExpr) Name() string { return a.Target.Name() }

func (c *CompareExpr) Name() string { return "" }
func (s *IfStmt) Name() string      { return "" }
func (r *ReturnStmt) Name() string  { return "" }
func (c *CallExpr) Name() string    { return "" }

func (c *Constant) Clone() Expression { return &Constant{c.Value, c.Type} }
func (v *Var) Clone() Expression      { return &Var{v.Ident} }

func (d *Decl) Clone() Expression {
	return &Decl{d.Ident, d.Type, d.Init.Clone()}
}

func (a *Assign) Clone() Expression {
	return &Assign{a.Target.Clone(), a.Value.Clone()}
}

func (a *ArithExpr) Clone() Expression {
	return &ArithExpr{a.Op, a.Target.Clone(), a.Value.Clone()}
}

func (c *CompareExpr) Clone() Expression {
	return &CompareExpr{c.Op, c.LHS.Clone(), c.RHS.Clone()}
}

func (s *IfStmt) Clone() Expression {
	return &IfStmt{s.Cond.Clone(), CloneList(s.Then), CloneList(s.Else)}
}

func (r *ReturnStmt) Clone() Expression {
	return &ReturnStmt{r.Target.Clone()}
}

func (c *CallExpr) Clone() Expression {
	return &CallExpr{CloneList(c.Body), c.Result.Clone()}
}

// CloneList deep copies a statement list. A nil list stays nil.
func CloneList(exprs []Expression) []Expression {
	if exprs == nil {
		return nil
	}
	clones := make([]Expression, len(exprs))
	for i, e := range exprs {
		clones[i] = e.Clone()
	}
	return clones
}

func (*Constant) exprNode()    {}
func (*Var) exprNode()         {}
func (*Decl) exprNode()        {}
func (*Assign) exprNode()      {}
func (*ArithExpr) exprNode()   {}
func (*CompareExpr) exprNode() {}
func (*IfStmt) exprNode()      {}
func (*ReturnStmt) exprNode()  {}
func (*CallExpr) exprNode()    {}
