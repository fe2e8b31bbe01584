package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDemo(t *testing.T) {
	var b bytes.Buffer
	if err := runDemo(&b); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"program begin", "add x, 3;", "phi i32 [ 8, %if ], [ 4, %else ]", "ghccc"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, b.String())
		}
	}
}

func TestAsm(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "f.s")
	out := filepath.Join(dir, "f.ll")
	src := "f:\n\tmovl $2, -4(%rbp)\n\tsubl $1, -4(%rbp)\n\tmovl -4(%rbp), %eax\n\tret\n"
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runAsm([]string{"-emit-llvm", "-o", out, in}); err != nil {
		t.Fatal(err)
	}
	ir, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ir), "ret i32 1") {
		t.Errorf("IR does not return 1:\n%s", ir)
	}

	if err := runAsm([]string{filepath.Join(dir, "missing.s")}); err == nil {
		t.Error("missing input accepted")
	}
}
