package codegen

import (
	"fmt"

	"github.com/RobotoSkunk/mascal/ast"
	"github.com/nikandfor/tlog"
	"tinygo.org/x/go-llvm"
)

// armExit is the state at the end of one arm of a conditional.
type armExit struct {
	block  llvm.BasicBlock
	values map[string]llvm.Value
	dead   bool // Arm ended with a return and does not reach the join
}

// emitIf generates Entry -> {If | If, Else} -> Continue and reconciles
// the definitions of both arms with phi nodes in Continue.
func (c *Context) emitIf(s *ast.IfStmt) {
	cond := c.valueOf(s.Cond)
	entry := c.b.GetInsertBlock()
	fn := entry.Parent()
	key := c.entryKey(entry)

	thenNames := ast.Names(s.Then...)
	elseNames := ast.Names(s.Else...)
	baseline := c.capture(append(append([]string(nil), thenNames...), elseNames...))
	for _, name := range thenNames {
		c.reg.Save(name, key)
		c.reg.Save(name, blockName(entry))
	}

	thenBlock := c.addBlock(fn, "if")
	contBlock := c.addBlock(fn, "continue")
	var elseBlock llvm.BasicBlock
	if len(s.Else) != 0 {
		elseBlock = c.addBlock(fn, "else")
		c.condBr(cond, thenBlock, elseBlock)
	} else {
		c.condBr(cond, thenBlock, contBlock)
	}

	c.b.SetInsertPointAtEnd(thenBlock)
	then := c.emitArm(s.Then, key, thenNames, contBlock)

	other := armExit{block: entry, values: baseline}
	if len(s.Else) != 0 {
		c.moveToEnd(elseBlock)
		c.b.SetInsertPointAtEnd(elseBlock)
		c.restore(baseline)
		other = c.emitArm(s.Else, key, elseNames, contBlock)
	}

	c.moveToEnd(contBlock)
	c.b.SetInsertPointAtEnd(contBlock)
	c.join(contBlock, then, other, baseline)
	for _, name := range thenNames {
		c.reg.Save(name, blockName(contBlock))
	}
}

// emitArm generates the statements of one arm with key as the entry
// key of nested conditionals and branches to cont unless the arm
// returned.
func (c *Context) emitArm(body []ast.Expression, key string, names []string, cont llvm.BasicBlock) armExit {
	c.entries = append(c.entries, key)
	for _, e := range body {
		c.emit(e)
	}
	c.entries = c.entries[:len(c.entries)-1]

	exit := c.b.GetInsertBlock()
	if c.isTerminated(exit) {
		return armExit{block: exit, dead: true}
	}
	for _, name := range names {
		c.reg.Save(name, blockName(exit))
	}
	values := c.capture(names)
	c.br(cont)
	return armExit{block: exit, values: values}
}

// capture returns the current definitions of the registered names.
func (c *Context) capture(names []string) map[string]llvm.Value {
	values := make(map[string]llvm.Value, len(names))
	for _, name := range names {
		if v, ok := c.reg.Current(name); ok {
			values[name] = v
		}
	}
	return values
}

func (c *Context) restore(values map[string]llvm.Value) {
	for name, v := range values {
		c.reg.SetCurrent(name, v)
	}
}

// join reconciles the arm exits in cont. A name without a definition
// from either side takes the baseline for that side. Names with no
// pair keep their current definition.
func (c *Context) join(cont llvm.BasicBlock, then, other armExit, baseline map[string]llvm.Value) {
	switch {
	case then.dead && other.dead:
		return
	case then.dead:
		c.restore(baseline)
		c.restore(other.values)
		return
	case other.dead:
		c.restore(baseline)
		c.restore(then.values)
		return
	}

	for _, name := range c.reg.Names() {
		a, okA := then.values[name]
		b, okB := other.values[name]
		if !okA && !okB {
			continue
		}
		if !okA {
			a, okA = baseline[name]
		}
		if !okB {
			b, okB = baseline[name]
		}
		if !okA || !okB {
			continue
		}
		if a == b {
			c.reg.SetCurrent(name, a)
			continue
		}
		c.checkJoin(cont, then.block, other.block)
		phi := c.b.CreatePHI(a.Type(), "phi")
		phi.AddIncoming([]llvm.Value{a, b}, []llvm.BasicBlock{then.block, other.block})
		c.reg.SetCurrent(name, phi)
		tlog.V("phi").Printw("phi", "name", name, "block", blockName(cont),
			"if", blockName(then.block), "else", blockName(other.block))
	}
}

// checkJoin panics unless both arm exits are recorded predecessors of
// cont.
func (c *Context) checkJoin(cont, then, other llvm.BasicBlock) {
	preds := c.cfg.Preds(c.blockID(cont))
	if len(preds) < 2 {
		panic(fmt.Sprintf("codegen: join block %s has %d predecessors", blockName(cont), len(preds)))
	}
	for _, bb := range []llvm.BasicBlock{then, other} {
		id, found := c.blockID(bb), false
		for _, pred := range preds {
			if pred == id {
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("codegen: block %s is not a predecessor of %s", blockName(bb), blockName(cont)))
		}
	}
}
