package asm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/RobotoSkunk/mascal/codegen"
)

const fiveSrc = `	.file	"five.c"
	.text
	.def	main;	.scl	2;	.type	32;	.endef
	.globl	main
	.seh_proc	main
main:
	pushq	%rbp
	.seh_pushreg	%rbp
	movq	%rsp, %rbp
	.seh_setframe	%rbp, 0
	subq	$16, %rsp
	.seh_stackalloc	16
	.seh_endprologue
	movl	$5, -4(%rbp)      # x = 5
	addl	$3, -4(%rbp)
	movl	-4(%rbp), %eax
	addq	$16, %rsp
	popq	%rbp
	ret
	.seh_endproc
`

func TestLex(t *testing.T) {
	toks, err := Lex("", "movl $5, -4(%rbp) # store\n.file \"a.c\"\nmain:")
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		{Ident, "movl", Pos{Line: 1, Col: 1}},
		{Immediate, "5", Pos{Line: 1, Col: 6}},
		{Comma, ",", Pos{Line: 1, Col: 8}},
		{Number, "-4", Pos{Line: 1, Col: 10}},
		{LParen, "(", Pos{Line: 1, Col: 12}},
		{Register, "rbp", Pos{Line: 1, Col: 13}},
		{RParen, ")", Pos{Line: 1, Col: 17}},
		{Directive, ".file", Pos{Line: 2, Col: 1}},
		{String, "a.c", Pos{Line: 2, Col: 7}},
		{Ident, "main", Pos{Line: 3, Col: 1}},
		{Colon, ":", Pos{Line: 3, Col: 5}},
		{EOF, "", Pos{Line: 3, Col: 6}},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("got tokens\n%v\nwant\n%v", toks, want)
	}
}

func TestLexIllegal(t *testing.T) {
	toks, err := Lex("", "movl ?")
	if err != nil {
		t.Fatal(err)
	}
	if tok := toks[1]; tok.Kind != Illegal || tok.Text != "?" {
		t.Errorf("got %v, want illegal '?'", tok)
	}
}

func TestParseUnit(t *testing.T) {
	u, err := Parse("five.s", fiveSrc)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Body) != 5 {
		t.Fatalf("got %d items, want 5:\n%s", len(u.Body), u)
	}
	if f, ok := u.Body[0].(*File); !ok || f.Name != "five.c" {
		t.Errorf("got %v, want .file", u.Body[0])
	}
	if d, ok := u.Body[2].(*Def); !ok || *d != (Def{"main", 2, 32}) {
		t.Errorf("got %v, want .def main", u.Body[2])
	}

	fns := u.Functions()
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
	fn := fns[0]
	if fn.Name != "main" || !fn.StackProtected {
		t.Errorf("got function %s protected=%t, want main protected", fn.Name, fn.StackProtected)
	}
	var regs []string
	for _, reg := range fn.Registers {
		regs = append(regs, reg.Name)
	}
	if want := []string{"rbp", "rsp", "eax"}; !reflect.DeepEqual(regs, want) {
		t.Errorf("got registers %v, want %v", regs, want)
	}
	if len(fn.Body) != 9 {
		t.Errorf("got %d instructions, want 9:\n%s", len(fn.Body), fn)
	}
	if _, ok := fn.Body[len(fn.Body)-1].(*Ret); !ok {
		t.Errorf("function does not end with ret:\n%s", fn)
	}
}

func TestSlotInterning(t *testing.T) {
	u, err := Parse("", "f:\n\tmovl $5, -4(%rbp)\n\taddl $1, -8(%rbp)\n\tmovl -4(%rbp), %eax\n\tret\n")
	if err != nil {
		t.Fatal(err)
	}
	fn := u.Functions()[0]
	want := []*Slot{{"stackMemory0", "-4(%rbp)"}, {"stackMemory1", "-8(%rbp)"}}
	if !reflect.DeepEqual(fn.Slots, want) {
		t.Fatalf("got slots %v, want %v", fn.Slots, want)
	}
	store := fn.Body[0].(*Mov)
	load := fn.Body[2].(*Mov)
	if !store.ToSlot || load.ToSlot {
		t.Errorf("got ToSlot %t, %t, want true, false", store.ToSlot, load.ToSlot)
	}
	if store.Dst != load.Src {
		t.Errorf("-4(%%rbp) interned twice: %p, %p", store.Dst, load.Src)
	}
	if imm, ok := store.Src.(*Imm); !ok || imm.Value != 5 {
		t.Errorf("got source %v, want $5", store.Src)
	}
}

func TestSlotsPerFunction(t *testing.T) {
	u, err := Parse("", "f:\n\tmovl $1, -4(%rbp)\n\tret\ng:\n\tmovl $2, -8(%rbp)\n\tret\n")
	if err != nil {
		t.Fatal(err)
	}
	fns := u.Functions()
	if len(fns) != 2 {
		t.Fatalf("got %d functions, want 2", len(fns))
	}
	if slot := fns[1].Slots[0]; slot.Name != "stackMemory0" || slot.Addr != "-8(%rbp)" {
		t.Errorf("got slot %s %s, want stackMemory0 -8(%%rbp)", slot.Name, slot.Addr)
	}
	if fns[0].StackProtected || fns[1].StackProtected {
		t.Error("function without SEH markers is stack protected")
	}
}

func TestOperands(t *testing.T) {
	u, err := Parse("", "f:\n\tleaq .LC0(%rip), %rcx\n\tcall printf\n\tmovq (%rax), %rdx\n\t.set x, 0x10\n\tret\n")
	if err != nil {
		t.Fatal(err)
	}
	fn := u.Functions()[0]
	want := []Inst{
		&Lea{'q', &Mem{".LC0", "rip"}, &Reg{"rcx"}},
		&Call{0, &Symbol{"printf"}},
		&Mov{'q', &Mem{"", "rax"}, &Reg{"rdx"}, false},
		&Set{"x", &Imm{16}},
		&Ret{},
	}
	if !reflect.DeepEqual(fn.Body, want) {
		t.Errorf("got\n%s\nwant\n%v", fn, want)
	}
}

func TestSyntaxErrors(t *testing.T) {
	for _, test := range []struct {
		Src  string
		Kind ErrorKind
		Msg  string
	}{
		{"movl $5 -4(%rbp)", SyntaxExpectation, "asm: 1:9: expected ',', found -4"},
		{"movl $5, -4(%rbp", SyntaxExpectation, "asm: 1:17: expected ')', found eof"},
		{"foo %eax", UnsupportedToken, "asm: 1:1: unsupported instruction foo"},
		{".section .rdata", UnsupportedToken, "asm: 1:1: unsupported directive .section"},
		{".def main; .scl 2; .type 32; .ende", SyntaxExpectation, "asm: 1:30: expected '.endef', found .ende"},
		{".file main", SyntaxExpectation, "asm: 1:7: expected string, found main"},
		{"$5", UnsupportedToken, "asm: 1:1: unexpected $5"},
	} {
		_, err := Parse("", test.Src)
		e, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("%q: got error %v, want *SyntaxError", test.Src, err)
			continue
		}
		if e.Kind != test.Kind || e.Error() != test.Msg {
			t.Errorf("%q: got %s %q, want %s %q", test.Src, e.Kind, e.Error(), test.Kind, test.Msg)
		}
	}
}

func TestTranslate(t *testing.T) {
	u, err := Parse("five.s", fiveSrc)
	if err != nil {
		t.Fatal(err)
	}
	want := `// [Assembly] Source file 'five.c'.
// [Assembly] Begin of .text section.
// [Assembly] Definition 'main', storage class 2, type 32.
// [Assembly] Set definition 'main' as Global for the Linker.
// [Assembly] Function 'main'. Stack protected.
program begin
	com rbp: i32 = 0;
	com rsp: i32 = 0;
	com eax: i32 = 0;
	com stackMemory0: i32 = 0;
	// [Assembly] pushq %rbp
	comstore rbp, rsp;
	sub rsp, 16;
	comstore stackMemory0, 5;
	add stackMemory0, 3;
	comstore eax, stackMemory0;
	add rsp, 16;
	// [Assembly] popq %rbp
	llreturn eax;
end
`
	if got := Translate(u); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestLowerCompiles(t *testing.T) {
	u, err := Parse("five.s", fiveSrc)
	if err != nil {
		t.Fatal(err)
	}
	ir, err := codegen.Compile(Lower(u.Functions()[0]), codegen.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ir, "ret i32 8") {
		t.Errorf("IR does not return 8:\n%s", ir)
	}
}
