package asm

import (
	"fmt"
	"strconv"

	"github.com/nikandfor/loc"
	"github.com/nikandfor/tlog"
)

// ErrorKind classifies a syntax error.
type ErrorKind uint8

// Syntax error kinds.
const (
	SyntaxExpectation ErrorKind = iota + 1 // Construct requires a different token
	UnsupportedToken                       // Token outside the dispatch table
)

// SyntaxError is an unrecoverable parse error. The first error aborts
// parsing of the whole unit.
type SyntaxError struct {
	Kind ErrorKind
	Pos  Pos
	Msg  string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("asm: %s: %s", err.Pos, err.Msg)
}

func (kind ErrorKind) String() string {
	switch kind {
	case SyntaxExpectation:
		return "syntax expectation"
	case UnsupportedToken:
		return "unsupported token"
	default:
		return "illegal"
	}
}

// Parser is a recursive descent parser over a token slice. Registers
// and stack slots are interned per function.
type Parser struct {
	toks []Token
	i    int

	regs      []*Reg
	regIndex  map[string]*Reg
	slots     []*Slot
	slotIndex map[string]*Slot

	inFunc     bool
	pendingSEH bool // .seh_proc seen before the function label
}

// sehMarker is a structured exception handling directive. Markers are
// not kept; they set Function.StackProtected.
type sehMarker struct{}

func (sehMarker) String() string { return ".seh" }
func (sehMarker) inst()          {}

type (
	mnemonicFunc  func(p *Parser, suffix byte) Inst
	directiveFunc func(p *Parser) Inst
)

var mnemonics map[string]struct {
	parse  mnemonicFunc
	suffix byte
}

var directives map[string]directiveFunc

func init() {
	type entry = struct {
		parse  mnemonicFunc
		suffix byte
	}
	mnemonics = map[string]entry{
		"movl":  {(*Parser).parseMov, 'l'},
		"movq":  {(*Parser).parseMov, 'q'},
		"addl":  {arith(Add), 'l'},
		"addq":  {arith(Add), 'q'},
		"subl":  {arith(Sub), 'l'},
		"subq":  {arith(Sub), 'q'},
		"leaq":  {(*Parser).parseLea, 'q'},
		"pushq": {(*Parser).parsePush, 'q'},
		"popq":  {(*Parser).parsePop, 'q'},
		"call":  {(*Parser).parseCall, 0},
		"callq": {(*Parser).parseCall, 'q'},
		"ret":   {(*Parser).parseRet, 0},
		"retq":  {(*Parser).parseRet, 'q'},
	}
	directives = map[string]directiveFunc{
		".text":            (*Parser).parseText,
		".def":             (*Parser).parseDef,
		".globl":           (*Parser).parseGlobl,
		".set":             (*Parser).parseSet,
		".file":            (*Parser).parseFile,
		".p2align":         (*Parser).parseP2Align,
		".seh_proc":        (*Parser).parseSEHProc,
		".seh_pushreg":     (*Parser).parseSEHOperand,
		".seh_stackalloc":  (*Parser).parseSEHOperand,
		".seh_setframe":    (*Parser).parseSEHSetFrame,
		".seh_endprologue": (*Parser).parseSEH,
		".seh_endproc":     (*Parser).parseSEH,
	}
}

// Parse parses a complete assembly file.
func Parse(file, src string) (*Unit, error) {
	toks, err := Lex(file, src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks).ParseUnit(file)
}

// NewParser constructs a parser over toks, which must end with EOF.
func NewParser(toks []Token) *Parser {
	p := &Parser{toks: toks}
	p.resetTables()
	return p
}

// ParseUnit parses all remaining tokens.
func (p *Parser) ParseUnit(name string) (u *Unit, err error) {
	defer p.catch(&err)
	u = &Unit{Name: name}
	for p.more() {
		inst := p.parseInst()
		if _, ok := inst.(sehMarker); ok {
			continue
		}
		u.Body = append(u.Body, inst)
	}
	tlog.V("asm").Printw("parsed unit", "name", name, "items", len(u.Body), "functions", len(u.Functions()))
	return u, nil
}

func (p *Parser) parseInst() Inst {
	tok := p.next()
	switch tok.Kind {
	case Ident:
		if p.peek().Kind == Colon {
			p.next()
			if p.inFunc {
				return &Label{tok.Text}
			}
			return p.parseFunction(tok.Text)
		}
		m, ok := mnemonics[tok.Text]
		if !ok {
			p.errorf(UnsupportedToken, tok.Pos, "unsupported instruction %s", tok.Text)
		}
		return m.parse(p, m.suffix)
	case Directive:
		if p.peek().Kind == Colon {
			p.next()
			return &Label{tok.Text}
		}
		d, ok := directives[tok.Text]
		if !ok {
			p.errorf(UnsupportedToken, tok.Pos, "unsupported directive %s", tok.Text)
		}
		return d(p)
	default:
		p.errorf(UnsupportedToken, tok.Pos, "unexpected %s", tok)
		panic("unreachable")
	}
}

// parseFunction parses the body following a global label up to and
// including its return.
func (p *Parser) parseFunction(name string) *Function {
	fn := &Function{Name: name, StackProtected: p.pendingSEH}
	p.pendingSEH = false
	p.resetTables()
	p.inFunc = true
	for p.more() {
		inst := p.parseInst()
		if _, ok := inst.(sehMarker); ok {
			fn.StackProtected = true
			continue
		}
		fn.Body = append(fn.Body, inst)
		if _, ok := inst.(*Ret); ok {
			break
		}
	}
	p.inFunc = false
	fn.Registers, fn.Slots = p.regs, p.slots
	tlog.V("asm").Printw("parsed function", "name", name, "insts", len(fn.Body),
		"registers", len(fn.Registers), "slots", len(fn.Slots), "seh", fn.StackProtected)
	return fn
}

func (p *Parser) parseMov(suffix byte) Inst {
	src, dst := p.parseOperandPair()
	_, toSlot := dst.(*Slot)
	return &Mov{suffix, src, dst, toSlot}
}

func arith(op ArithOp) mnemonicFunc {
	return func(p *Parser, suffix byte) Inst {
		src, dst := p.parseOperandPair()
		return &Arith{op, suffix, src, dst}
	}
}

func (p *Parser) parseLea(suffix byte) Inst {
	src, dst := p.parseOperandPair()
	return &Lea{suffix, src, dst}
}

func (p *Parser) parsePush(suffix byte) Inst { return &Push{suffix, p.parseOperand()} }
func (p *Parser) parsePop(suffix byte) Inst  { return &Pop{suffix, p.parseOperand()} }
func (p *Parser) parseCall(suffix byte) Inst { return &Call{suffix, p.parseOperand()} }
func (p *Parser) parseRet(suffix byte) Inst  { return &Ret{} }

func (p *Parser) parseOperandPair() (Operand, Operand) {
	src := p.parseOperand()
	p.expect(Comma)
	return src, p.parseOperand()
}

// parseOperand parses a register, immediate, symbol or memory operand.
func (p *Parser) parseOperand() Operand {
	tok := p.next()
	switch tok.Kind {
	case Register:
		return p.internReg(tok.Text)
	case Immediate:
		if n, err := strconv.ParseInt(tok.Text, 0, 64); err == nil {
			return &Imm{n}
		}
		return &Symbol{"$" + tok.Text}
	case Number, Ident, Directive:
		if p.peek().Kind == LParen {
			return p.parseMemory(tok.Text)
		}
		if tok.Kind == Number {
			return &Imm{int64(p.parseInt(tok))}
		}
		return &Symbol{tok.Text}
	case LParen:
		p.i--
		return p.parseMemory("")
	default:
		p.errorf(SyntaxExpectation, tok.Pos, "expected operand, found %s", tok)
		panic("unreachable")
	}
}

// parseMemory parses (%base) following an offset. Offsets from rbp are
// interned as stack slots.
func (p *Parser) parseMemory(offset string) Operand {
	p.expect(LParen)
	base := p.expect(Register)
	p.expect(RParen)
	if base.Text == "rbp" {
		return p.internSlot(offset + "(%rbp)")
	}
	return &Mem{offset, base.Text}
}

func (p *Parser) parseText() Inst {
	return &Comment{"[Assembly] Begin of .text section."}
}

// parseDef parses .def name; .scl N; .type N; .endef
func (p *Parser) parseDef() Inst {
	name := p.expect(Ident).Text
	p.expect(Semi)
	scl := p.parseDefField(".scl")
	typ := p.parseDefField(".type")
	p.expectDirective(".endef")
	return &Def{name, scl, typ}
}

func (p *Parser) parseDefField(directive string) int {
	p.expectDirective(directive)
	n := p.parseInt(p.expect(Number))
	p.expect(Semi)
	return n
}

func (p *Parser) parseGlobl() Inst {
	name := p.expect(Ident).Text
	return &Comment{fmt.Sprintf("[Assembly] Set definition '%s' as Global for the Linker.", name)}
}

func (p *Parser) parseSet() Inst {
	name := p.expect(Ident).Text
	p.expect(Comma)
	return &Set{name, p.parseOperand()}
}

func (p *Parser) parseFile() Inst {
	return &File{p.expect(String).Text}
}

func (p *Parser) parseP2Align() Inst {
	bytes := p.parseInt(p.expect(Number))
	limit := 0
	if p.peek().Kind == Comma {
		p.next()
		limit = p.parseInt(p.expect(Number))
	}
	return &P2Align{bytes, limit}
}

func (p *Parser) parseSEH() Inst {
	return sehMarker{}
}

// parseSEHProc parses .seh_proc, which precedes the label of the
// function it protects.
func (p *Parser) parseSEHProc() Inst {
	p.parseOperand()
	if !p.inFunc {
		p.pendingSEH = true
	}
	return sehMarker{}
}

func (p *Parser) parseSEHOperand() Inst {
	p.parseOperand()
	return p.parseSEH()
}

func (p *Parser) parseSEHSetFrame() Inst {
	p.parseOperandPair()
	return p.parseSEH()
}

func (p *Parser) internReg(name string) *Reg {
	if reg, ok := p.regIndex[name]; ok {
		return reg
	}
	reg := &Reg{name}
	p.regIndex[name] = reg
	p.regs = append(p.regs, reg)
	return reg
}

// internSlot returns the slot for addr, creating stackMemoryN on first
// use.
func (p *Parser) internSlot(addr string) *Slot {
	if slot, ok := p.slotIndex[addr]; ok {
		return slot
	}
	slot := &Slot{fmt.Sprintf("stackMemory%d", len(p.slots)), addr}
	p.slotIndex[addr] = slot
	p.slots = append(p.slots, slot)
	return slot
}

func (p *Parser) resetTables() {
	p.regs, p.regIndex = nil, make(map[string]*Reg)
	p.slots, p.slotIndex = nil, make(map[string]*Slot)
}

func (p *Parser) parseInt(tok Token) int {
	n, err := strconv.ParseInt(tok.Text, 0, 64)
	if err != nil {
		p.errorf(SyntaxExpectation, tok.Pos, "expected integer, found %s", tok)
	}
	return int(n)
}

// more skips statement separators and reports whether tokens remain.
func (p *Parser) more() bool {
	for p.peek().Kind == Semi {
		p.next()
	}
	return p.peek().Kind != EOF
}

func (p *Parser) peek() Token {
	if p.i >= len(p.toks) {
		return Token{Kind: EOF}
	}
	return p.toks[p.i]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return tok
}

func (p *Parser) expect(kind Kind) Token {
	tok := p.next()
	if tok.Kind != kind {
		p.errorf(SyntaxExpectation, tok.Pos, "expected %s, found %s", kind, tok)
	}
	return tok
}

func (p *Parser) expectDirective(name string) {
	tok := p.next()
	if tok.Kind != Directive || tok.Text != name {
		p.errorf(SyntaxExpectation, tok.Pos, "expected '%s', found %s", name, tok)
	}
}

func (p *Parser) errorf(kind ErrorKind, pos Pos, format string, args ...interface{}) {
	err := &SyntaxError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
	tlog.V("asm").Printw("syntax error", "kind", kind.String(), "pos", pos.String(), "msg", err.Msg, "from", loc.Caller(1))
	panic(err)
}

func (p *Parser) catch(err *error) {
	if r := recover(); r != nil {
		e, ok := r.(*SyntaxError)
		if !ok {
			panic(r)
		}
		*err = e
	}
}
