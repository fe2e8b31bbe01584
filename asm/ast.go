// Package asm parses GNU-style x86 assembly, as emitted by compilers
// for small integer routines, and translates it into mascal source.
//
package asm // import "github.com/RobotoSkunk/mascal/asm"

import (
	"fmt"
	"strconv"
	"strings"
)

// Operand is an instruction operand: Reg, Slot, Mem, Imm or Symbol.
type Operand interface {
	fmt.Stringer
	operand()
}

// Reg is a register, named without its '%' sigil.
type Reg struct {
	Name string
}

// Slot is an interned stack operand of the form offset(%rbp).
type Slot struct {
	Name string // stackMemoryN
	Addr string // -4(%rbp)
}

// Mem is a memory operand relative to a register other than rbp.
type Mem struct {
	Offset string
	Base   string
}

// Imm is an immediate value.
type Imm struct {
	Value int64
}

// Symbol is a bare identifier operand, such as a call target.
type Symbol struct {
	Name string
}

func (r *Reg) String() string    { return "%" + r.Name }
func (s *Slot) String() string   { return s.Addr }
func (m *Mem) String() string    { return fmt.Sprintf("%s(%%%s)", m.Offset, m.Base) }
func (i *Imm) String() string    { return "$" + strconv.FormatInt(i.Value, 10) }
func (s *Symbol) String() string { return s.Name }

func (*Reg) operand()    {}
func (*Slot) operand()   {}
func (*Mem) operand()    {}
func (*Imm) operand()    {}
func (*Symbol) operand() {}

// Inst is a top-level item or an instruction in a function body.
type Inst interface {
	fmt.Stringer
	inst()
}

// Mov copies Src to Dst. ToSlot is set when Dst is a stack slot.
type Mov struct {
	Suffix byte
	Src    Operand
	Dst    Operand
	ToSlot bool
}

// Arith adds Src to or subtracts it from Dst.
type Arith struct {
	Op     ArithOp
	Suffix byte
	Src    Operand
	Dst    Operand
}

// ArithOp is the operation of an Arith instruction.
type ArithOp uint8

// Arithmetic operations.
const (
	Add ArithOp = iota + 1
	Sub
)

// Lea loads the address of Src into Dst.
type Lea struct {
	Suffix byte
	Src    Operand
	Dst    Operand
}

type Push struct {
	Suffix byte
	Src    Operand
}

type Pop struct {
	Suffix byte
	Dst    Operand
}

type Call struct {
	Suffix byte
	Target Operand
}

type Ret struct{}

// Comment is a note emitted verbatim into the translation.
type Comment struct {
	Text string
}

// Def is a COFF symbol definition: .def name; .scl N; .type N; .endef
type Def struct {
	Name  string
	Class int
	Type  int
}

// Set is the .set directive.
type Set struct {
	Name  string
	Value Operand
}

// File is the .file directive.
type File struct {
	Name string
}

// P2Align is the .p2align directive: align to 2^Bytes, padding with at
// most Limit bytes.
type P2Align struct {
	Bytes int
	Limit int
}

// Label is a local label inside a function body.
type Label struct {
	Name string
}

// Function is the code following a global label up to its return.
// Registers and Slots are listed in order of first use.
type Function struct {
	Name           string
	StackProtected bool
	Body           []Inst
	Registers      []*Reg
	Slots          []*Slot
}

// Unit is a parsed assembly file.
type Unit struct {
	Name string
	Body []Inst
}

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

func suffix(b byte) string {
	if b == 0 {
		return ""
	}
	return string(b)
}

func (m *Mov) String() string   { return fmt.Sprintf("mov%s %s, %s", suffix(m.Suffix), m.Src, m.Dst) }
func (a *Arith) String() string { return fmt.Sprintf("%s%s %s, %s", a.Op, suffix(a.Suffix), a.Src, a.Dst) }
func (l *Lea) String() string   { return fmt.Sprintf("lea%s %s, %s", suffix(l.Suffix), l.Src, l.Dst) }
func (p *Push) String() string  { return fmt.Sprintf("push%s %s", suffix(p.Suffix), p.Src) }
func (p *Pop) String() string   { return fmt.Sprintf("pop%s %s", suffix(p.Suffix), p.Dst) }
func (c *Call) String() string  { return fmt.Sprintf("call%s %s", suffix(c.Suffix), c.Target) }
func (*Ret) String() string     { return "ret" }
func (c *Comment) String() string {
	return "# " + c.Text
}
func (d *Def) String() string {
	return fmt.Sprintf(".def %s; .scl %d; .type %d; .endef", d.Name, d.Class, d.Type)
}
func (s *Set) String() string     { return fmt.Sprintf(".set %s, %s", s.Name, s.Value) }
func (f *File) String() string    { return fmt.Sprintf(".file %q", f.Name) }
func (p *P2Align) String() string { return fmt.Sprintf(".p2align %d, %d", p.Bytes, p.Limit) }
func (l *Label) String() string   { return l.Name + ":" }

func (fn *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", fn.Name)
	for _, inst := range fn.Body {
		fmt.Fprintf(&b, "\n\t%s", inst)
	}
	return b.String()
}

func (u *Unit) String() string {
	lines := make([]string, len(u.Body))
	for i, inst := range u.Body {
		lines[i] = inst.String()
	}
	return strings.Join(lines, "\n")
}

func (*Mov) inst()      {}
func (*Arith) inst()    {}
func (*Lea) inst()      {}
func (*Push) inst()     {}
func (*Pop) inst()      {}
func (*Call) inst()     {}
func (*Ret) inst()      {}
func (*Comment) inst()  {}
func (*Def) inst()      {}
func (*Set) inst()      {}
func (*File) inst()     {}
func (*P2Align) inst()  {}
func (*Label) inst()    {}
func (*Function) inst() {}

// Functions returns the functions of the unit in source order.
func (u *Unit) Functions() []*Function {
	var fns []*Function
	for _, inst := range u.Body {
		if fn, ok := inst.(*Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
