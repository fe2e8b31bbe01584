package ast // import "github.com/RobotoSkunk/mascal/ast"

import "github.com/nikandfor/errors"

// Type is the scalar type of a typed node. Only two fixed-width
// integer types exist.
type Type uint8

// Types of typed nodes. Illegal marks an absent or malformed type.
const (
	Illegal Type = iota
	Int32
	Int1
)

// ParseType parses the source keyword of a type.
func ParseType(keyword string) (Type, error) {
	switch keyword {
	case "i32":
		return Int32, nil
	case "i1":
		return Int1, nil
	}
	return Illegal, errors.New("ast: unknown type %q", keyword)
}

// Bits returns the bit width of the type or 0 for Illegal.
func (typ Type) Bits() int {
	switch typ {
	case Int32:
		return 32
	case Int1:
		return 1
	default:
		return 0
	}
}

func (typ Type) String() string {
	switch typ {
	case Int32:
		return "i32"
	case Int1:
		return "i1"
	default:
		return "illegal"
	}
}
