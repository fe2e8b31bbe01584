package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/nikandfor/errors"
)

// Lexer splits GNU assembler text into tokens. Comments start with '#'
// and run to the end of the line.
type Lexer struct {
	br   *bufio.Reader
	file string
	line int
	col  int
	prev int // Column before the last newline, for unread
}

// NewLexer constructs a lexer reading from r. The file name is used
// in token positions only.
func NewLexer(file string, r io.Reader) *Lexer {
	return &Lexer{br: bufio.NewReader(r), file: file, line: 1, col: 1}
}

// Lex tokenizes src completely. The last token is EOF.
func Lex(file, src string) ([]Token, error) {
	l := NewLexer(file, strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. Bytes outside the lexical grammar are
// returned as Illegal tokens.
func (l *Lexer) Next() (Token, error) {
	for {
		pos := l.pos()
		b, err := l.read()
		if err == io.EOF {
			return Token{Kind: EOF, Pos: pos}, nil
		}
		if err != nil {
			return Token{}, errors.Wrap(err, "read %s", pos)
		}

		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			continue
		case b == '#':
			if err := l.skipLine(); err != nil {
				return Token{}, err
			}
			continue
		case b == ',':
			return Token{Kind: Comma, Text: ",", Pos: pos}, nil
		case b == '(':
			return Token{Kind: LParen, Text: "(", Pos: pos}, nil
		case b == ')':
			return Token{Kind: RParen, Text: ")", Pos: pos}, nil
		case b == ':':
			return Token{Kind: Colon, Text: ":", Pos: pos}, nil
		case b == ';':
			return Token{Kind: Semi, Text: ";", Pos: pos}, nil
		case b == '"':
			return l.lexString(pos)
		case b == '%':
			text, err := l.readWhile(isIdent)
			return Token{Kind: Register, Text: text, Pos: pos}, err
		case b == '$':
			text, err := l.readWhile(isImmediate)
			return Token{Kind: Immediate, Text: text, Pos: pos}, err
		case b == '.':
			text, err := l.readWhile(isIdent)
			return Token{Kind: Directive, Text: "." + text, Pos: pos}, err
		case b == '-' || isDigit(b):
			text, err := l.readWhile(isIdent)
			return Token{Kind: Number, Text: string(b) + text, Pos: pos}, err
		case isIdentStart(b):
			text, err := l.readWhile(isIdent)
			return Token{Kind: Ident, Text: string(b) + text, Pos: pos}, err
		default:
			return Token{Kind: Illegal, Text: string(b), Pos: pos}, nil
		}
	}
}

func (l *Lexer) lexString(pos Pos) (Token, error) {
	var b strings.Builder
	for {
		c, err := l.read()
		if err == io.EOF {
			return Token{Kind: Illegal, Text: `"` + b.String(), Pos: pos}, nil
		}
		if err != nil {
			return Token{}, errors.Wrap(err, "read %s", pos)
		}
		switch c {
		case '"':
			return Token{Kind: String, Text: b.String(), Pos: pos}, nil
		case '\\':
			esc, err := l.read()
			if err != nil {
				return Token{Kind: Illegal, Text: `"` + b.String(), Pos: pos}, nil
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (l *Lexer) readWhile(accept func(byte) bool) (string, error) {
	var b strings.Builder
	for {
		c, err := l.read()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if !accept(c) {
			l.unread(c)
			return b.String(), nil
		}
		b.WriteByte(c)
	}
}

func (l *Lexer) skipLine() error {
	for {
		c, err := l.read()
		if err == io.EOF || c == '\n' {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (l *Lexer) read() (byte, error) {
	b, err := l.br.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		l.line++
		l.prev, l.col = l.col, 1
	} else {
		l.col++
	}
	return b, nil
}

func (l *Lexer) unread(b byte) {
	if err := l.br.UnreadByte(); err != nil {
		panic(err)
	}
	if b == '\n' {
		l.line--
		l.col = l.prev
	} else {
		l.col--
	}
}

func (l *Lexer) pos() Pos { return Pos{File: l.file, Line: l.line, Col: l.col} }

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func isIdentStart(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}

func isIdent(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '.' || b == '$' || b == '@'
}

func isImmediate(b byte) bool { return isIdent(b) || b == '-' }
