package asm

import "fmt"

// Kind is the lexical class of a token.
type Kind uint8

// Token kinds.
const (
	Illegal Kind = iota
	EOF
	Ident     // main, printf
	Register  // %rbp
	Immediate // $5
	Number    // -4, 0x10
	Directive // .text
	String    // "a.c"

	Comma
	LParen
	RParen
	Colon
	Semi
)

// Token is a lexical token. Text holds the token without its sigil:
// registers omit '%', immediates omit '$' and strings their quotes.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case Register:
		return "register"
	case Immediate:
		return "immediate"
	case Number:
		return "number"
	case Directive:
		return "directive"
	case String:
		return "string"
	case Comma:
		return "','"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Colon:
		return "':'"
	case Semi:
		return "';'"
	default:
		return "illegal"
	}
}

func (tok Token) String() string {
	switch tok.Kind {
	case EOF, Comma, LParen, RParen, Colon, Semi:
		return tok.Kind.String()
	case Register:
		return "%" + tok.Text
	case Immediate:
		return "$" + tok.Text
	case String:
		return fmt.Sprintf("%q", tok.Text)
	default:
		return tok.Text
	}
}
