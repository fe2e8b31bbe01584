package asm

import "fmt"

// Pos is a line and column in an assembly file. Lines and columns
// start at 1; the zero Pos is unknown.
type Pos struct {
	File      string
	Line, Col int
}

// IsKnown reports whether the position refers to a source location.
func (pos Pos) IsKnown() bool { return pos.Line > 0 }

func (pos Pos) String() string {
	switch {
	case !pos.IsKnown() && pos.File == "":
		return "<unknown position>"
	case !pos.IsKnown():
		return pos.File
	case pos.File == "":
		return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
	default:
		return fmt.Sprintf("%s:%d:%d", pos.File, pos.Line, pos.Col)
	}
}
