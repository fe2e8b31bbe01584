package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RobotoSkunk/mascal/asm"
	"github.com/RobotoSkunk/mascal/ast"
	"github.com/RobotoSkunk/mascal/codegen"
	"github.com/nikandfor/errors"
	"github.com/nikandfor/tlog"
	"github.com/xyproto/env/v2"
)

const usage = `mascal asm [-emit-llvm] [-o file] file.s
mascal demo

Environment:
	MASCAL_LOG     tlog verbosity topics, e.g. "ssa,phi,asm"
	MASCAL_MODULE  name of generated LLVM modules`

func main() {
	if v := env.Str("MASCAL_LOG"); v != "" {
		tlog.SetVerbosity(v)
	}
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch mode := os.Args[1]; mode {
	case "asm":
		err = runAsm(os.Args[2:])
	case "demo":
		err = runDemo(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unrecognized mode: %s\n%s\n", mode, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func config() codegen.Config {
	c := codegen.DefaultConfig()
	c.ModuleName = env.Str("MASCAL_MODULE", codegen.DefaultModuleName)
	return c
}

func runAsm(args []string) error {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	emitLLVM := fs.Bool("emit-llvm", false, "compile each function to LLVM IR instead of printing mascal source")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("asm: expected one input file")
	}
	filename := fs.Arg(0)

	src, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	u, err := asm.Parse(filepath.Base(filename), string(src))
	if err != nil {
		return err
	}

	var text string
	if *emitLLVM {
		var mods []string
		for _, fn := range u.Functions() {
			ir, err := codegen.Compile(asm.Lower(fn), config())
			if err != nil {
				return errors.Wrap(err, "function %s", fn.Name)
			}
			mods = append(mods, ir)
		}
		text = strings.Join(mods, "\n")
	} else {
		text = asm.Translate(u)
	}

	if *out == "" {
		_, err = io.WriteString(os.Stdout, text)
		return err
	}
	return os.WriteFile(*out, []byte(text), 0o644)
}

// demo is the conditional update used to show phi synthesis.
func demo() *ast.Program {
	x := func() *ast.Var { return &ast.Var{Ident: "x"} }
	five := &ast.Constant{Value: 5, Type: ast.Int32}
	return &ast.Program{Name: "demo", Body: []ast.Expression{
		&ast.Decl{Ident: "x", Type: ast.Int32, Init: five},
		&ast.IfStmt{
			Cond: &ast.CompareExpr{Op: ast.Eq, LHS: x(), RHS: five.Clone()},
			Then: []ast.Expression{&ast.ArithExpr{Op: ast.Add, Target: x(), Value: &ast.Constant{Value: 3, Type: ast.Int32}}},
			Else: []ast.Expression{&ast.ArithExpr{Op: ast.Sub, Target: x(), Value: &ast.Constant{Value: 1, Type: ast.Int32}}},
		},
		&ast.ReturnStmt{Target: x()},
	}}
}

func runDemo(w io.Writer) error {
	p := demo()
	ir, err := codegen.Compile(p, config())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s", ast.FormatProgram(p), ir)
	return err
}
