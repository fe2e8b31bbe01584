package codegen

import (
	"github.com/RobotoSkunk/mascal/ast"
	"github.com/RobotoSkunk/mascal/ssa"
	"github.com/nikandfor/errors"
	"github.com/nikandfor/tlog"
	"tinygo.org/x/go-llvm"
)

// EmitProgram generates the program into the entry routine and
// finishes it. A routine opened by Emit is continued. On error the
// routine is removed from the module and the per-unit state is reset,
// so the context can be reused for another program.
func (c *Context) EmitProgram(p *ast.Program) (fn llvm.Value, err error) {
	tr := tlog.V("codegen").Start("codegen_program", "name", p.Name, "stmts", len(p.Body))
	defer tr.Finish("err", &err)

	defer func() {
		if err != nil && !fn.IsNil() {
			fn.EraseFromParentAsFunction()
			c.reset()
			fn = llvm.Value{}
		}
	}()
	defer c.catch(&err)

	if c.finished {
		return llvm.Value{}, errors.New("codegen: %s already emitted", c.config.EntryName)
	}
	if fn = c.main; fn.IsNil() {
		fn = c.beginMain()
	}
	for _, e := range p.Body {
		c.emit(e)
	}
	c.finishMain()
	tr.Printw("generated", "blocks", len(c.blockNames), "coms", c.reg.Len())
	return fn, nil
}

// EmitCall expands the named procedure of p with args and generates it
// inline at the current insertion point.
func (c *Context) EmitCall(p *ast.Program, name string, args ...ast.Expression) (llvm.Value, error) {
	proc, ok := p.Procedure(name)
	if !ok {
		return llvm.Value{}, errors.New("codegen: unknown procedure %s", name)
	}
	call, err := proc.Expand(args)
	if err != nil {
		return llvm.Value{}, errors.Wrap(err, "expand %s", name)
	}
	return c.Emit(call)
}

func (c *Context) beginMain() llvm.Value {
	typ := llvm.FunctionType(c.ctx.Int32Type(), nil, false)
	c.main = llvm.AddFunction(c.module, c.config.EntryName, typ)
	entry := c.addBlock(c.main, "entry")
	c.b.SetInsertPointAtEnd(entry)
	return c.main
}

func (c *Context) finishMain() {
	last := c.b.GetInsertBlock()
	if c.config.ImplicitReturn && !c.isTerminated(last) {
		c.b.CreateRet(llvm.ConstInt(c.ctx.Int32Type(), 0, false))
		c.terminate()
	}
	for _, attr := range c.config.FuncAttrs {
		c.addFuncAttr(c.main, attr)
	}
	c.main.SetFunctionCallConv(c.config.CallingConv)
	c.finished = true
}

// reset discards the state of a unit whose routine was erased.
func (c *Context) reset() {
	c.b.ClearInsertionPoint()
	c.reg = ssa.NewRegistry()
	c.main = llvm.Value{}
	c.finished = false
	c.cfg = nil
	c.blockIDs = make(map[string]int)
	c.blockNames, c.terminated, c.entries = nil, nil, nil
}

func (c *Context) addFuncAttr(fn llvm.Value, name string) {
	kind := llvm.AttributeKindID(name)
	if kind == 0 && name == "readnone" {
		// LLVM 16 replaced readnone with memory(none).
		kind = llvm.AttributeKindID("memory")
	}
	if kind == 0 {
		c.fatalf(UnknownAttribute, name, "unknown function attribute %s", name)
	}
	fn.AddFunctionAttr(c.ctx.CreateEnumAttribute(kind, 0))
}

// Compile generates the program into a fresh module, verifies it and
// returns its textual IR.
func Compile(p *ast.Program, config Config) (string, error) {
	c := NewContext(config)
	defer c.Close()
	if _, err := c.EmitProgram(p); err != nil {
		return "", errors.Wrap(err, "compile %s", p.Name)
	}
	if err := llvm.VerifyModule(c.module, llvm.ReturnStatusAction); err != nil {
		return "", errors.Wrap(err, "verify %s", p.Name)
	}
	return c.module.String(), nil
}

// String returns the textual IR of the module.
func (c *Context) String() string {
	return c.module.String()
}
