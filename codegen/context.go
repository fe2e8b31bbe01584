// Package codegen lowers mascal syntax trees to LLVM IR in SSA form.
//
package codegen // import "github.com/RobotoSkunk/mascal/codegen"

import (
	"fmt"

	"github.com/RobotoSkunk/mascal/ast"
	"github.com/RobotoSkunk/mascal/digraph"
	"github.com/RobotoSkunk/mascal/ssa"
	"github.com/nikandfor/errors"
	"tinygo.org/x/go-llvm"
)

// Context holds the state of one compilation unit. A Context must not
// be shared between goroutines; independent contexts may be used
// concurrently.
type Context struct {
	ctx    llvm.Context
	b      llvm.Builder
	module llvm.Module
	config Config
	reg    *ssa.Registry

	main       llvm.Value
	finished   bool // main has its terminator, attributes and calling convention
	cfg        digraph.Digraph
	blockIDs   map[string]int
	blockNames []string
	terminated []bool
	entries    []string // Entry keys of the enclosing conditionals
}

// NewContext constructs a compilation context with its own LLVM
// context, module and builder.
func NewContext(config Config) *Context {
	ctx := llvm.NewContext()
	return &Context{
		ctx:      ctx,
		b:        ctx.NewBuilder(),
		module:   ctx.NewModule(config.ModuleName),
		config:   config,
		reg:      ssa.NewRegistry(),
		blockIDs: make(map[string]int),
	}
}

// Close releases the LLVM objects owned by the context. Values obtained
// from the context are invalid afterwards.
func (c *Context) Close() {
	c.b.Dispose()
	c.module.Dispose()
	c.ctx.Dispose()
}

// Module returns the module being generated.
func (c *Context) Module() llvm.Module { return c.module }

// Registry returns the SSA state of the named values.
func (c *Context) Registry() *ssa.Registry { return c.reg }

// Emit generates a single expression at the current insertion point,
// opening the entry routine first if needed, and returns its value.
// Statements without a value return the zero llvm.Value. The routine
// stays open: a following EmitProgram continues and finishes it.
func (c *Context) Emit(e ast.Expression) (v llvm.Value, err error) {
	defer c.catch(&err)
	if c.finished {
		return llvm.Value{}, errors.New("codegen: %s already finished", c.config.EntryName)
	}
	if c.main.IsNil() {
		c.beginMain()
	}
	return c.emit(e), nil
}

// Blocks returns the names of the blocks reachable from the entry
// block, every block listed before its successors.
func (c *Context) Blocks() []string {
	if len(c.cfg) == 0 {
		return nil
	}
	order := c.cfg.ReversePostOrder(0)
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = c.blockNames[id]
	}
	return names
}

// Preds returns the names of the predecessors of the named block in
// the order their branches were emitted.
func (c *Context) Preds(block string) []string {
	id, ok := c.blockIDs[block]
	if !ok {
		return nil
	}
	var names []string
	for _, pred := range c.cfg.Preds(id) {
		names = append(names, c.blockNames[pred])
	}
	return names
}

// addBlock appends a block to fn and registers it in the control flow
// graph under the name LLVM assigned to it.
func (c *Context) addBlock(fn llvm.Value, name string) llvm.BasicBlock {
	bb := c.ctx.AddBasicBlock(fn, name)
	name = blockName(bb)
	c.blockIDs[name] = c.cfg.AddNode()
	c.blockNames = append(c.blockNames, name)
	c.terminated = append(c.terminated, false)
	return bb
}

func blockName(bb llvm.BasicBlock) string {
	return bb.AsValue().Name()
}

func (c *Context) blockID(bb llvm.BasicBlock) int {
	name := blockName(bb)
	id, ok := c.blockIDs[name]
	if !ok {
		panic(fmt.Sprintf("codegen: block %s not registered", name))
	}
	return id
}

// moveToEnd places bb after the last block of its function.
func (c *Context) moveToEnd(bb llvm.BasicBlock) {
	last := bb.Parent().LastBasicBlock()
	if last != bb {
		bb.MoveAfter(last)
	}
}

func (c *Context) isTerminated(bb llvm.BasicBlock) bool {
	return c.terminated[c.blockID(bb)]
}

// terminate marks the current block as ended by a terminator.
func (c *Context) terminate() {
	c.terminated[c.blockID(c.b.GetInsertBlock())] = true
}

func (c *Context) br(dest llvm.BasicBlock) {
	from := c.b.GetInsertBlock()
	c.b.CreateBr(dest)
	c.cfg.AddEdge(c.blockID(from), c.blockID(dest))
	c.terminate()
}

func (c *Context) condBr(cond llvm.Value, then, els llvm.BasicBlock) {
	from := c.b.GetInsertBlock()
	c.b.CreateCondBr(cond, then, els)
	c.cfg.AddEdge(c.blockID(from), c.blockID(then))
	c.cfg.AddEdge(c.blockID(from), c.blockID(els))
	c.terminate()
}

// entryKey returns the key under which the state before a conditional
// starting in block entry is recorded. Nested conditionals share the
// key of the outermost one.
func (c *Context) entryKey(entry llvm.BasicBlock) string {
	if n := len(c.entries); n != 0 {
		return c.entries[n-1]
	}
	return blockName(entry)
}
