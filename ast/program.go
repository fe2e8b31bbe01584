package ast

import (
	"fmt"

	"github.com/nikandfor/errors"
)

// Program is an ordered list of top-level statements together with the
// procedures they may expand.
type Program struct {
	Name       string
	Body       []Expression
	Procedures []*Procedure
}

// Procedure is a named, parameterized statement list. Procedures are
// never lowered to routines of their own; each use site expands the
// body inline.
type Procedure struct {
	Name   string
	Params []Param
	Result Type
	Body   []Expression
}

// Param is a typed procedure parameter.
type Param struct {
	Ident string
	Type  Type
}

// ArityError is returned when a procedure is expanded with the wrong
// number of arguments.
type ArityError struct {
	Proc      string
	Want, Got int
}

func (err *ArityError) Error() string {
	return fmt.Sprintf("ast: procedure %s takes %d arguments, got %d", err.Proc, err.Want, err.Got)
}

// Clone deep copies the program.
func (p *Program) Clone() *Program {
	procs := make([]*Procedure, len(p.Procedures))
	for i, proc := range p.Procedures {
		procs[i] = proc.Clone()
	}
	return &Program{
		Name:       p.Name,
		Body:       CloneList(p.Body),
		Procedures: procs,
	}
}

// Procedure returns the procedure with the given name.
func (p *Program) Procedure(name string) (*Procedure, bool) {
	for _, proc := range p.Procedures {
		if proc.Name == name {
			return proc, true
		}
	}
	return nil, false
}

// Clone deep copies the procedure.
func (proc *Procedure) Clone() *Procedure {
	params := make([]Param, len(proc.Params))
	copy(params, proc.Params)
	return &Procedure{
		Name:   proc.Name,
		Params: params,
		Result: proc.Result,
		Body:   CloneList(proc.Body),
	}
}

// Expand instantiates the procedure at a use site. Each parameter
// becomes a declaration initialized with its argument, followed by a
// copy of the body. A trailing return supplies the result; without one
// the value of the last statement is the result.
func (proc *Procedure) Expand(args []Expression) (*CallExpr, error) {
	if len(args) != len(proc.Params) {
		return nil, &ArityError{proc.Name, len(proc.Params), len(args)}
	}
	if len(proc.Body) == 0 {
		return nil, errors.New("ast: procedure %s has an empty body", proc.Name)
	}
	body := make([]Expression, 0, len(args)+len(proc.Body))
	for i, param := range proc.Params {
		body = append(body, &Decl{param.Ident, param.Type, args[i].Clone()})
	}
	stmts := CloneList(proc.Body)
	last := stmts[len(stmts)-1]
	stmts = stmts[:len(stmts)-1]
	result := last
	if ret, ok := last.(*ReturnStmt); ok {
		result = ret.Target
	}
	return &CallExpr{Body: append(body, stmts...), Result: result}, nil
}
