package codegen

import (
	"fmt"

	"github.com/nikandfor/loc"
	"github.com/nikandfor/tlog"
)

// ErrorKind classifies a codegen error.
type ErrorKind uint8

// Codegen error kinds.
const (
	UnknownIdentifier ErrorKind = iota + 1 // Com read before any definition
	MalformedType                          // Typed node without an integer type
	UnknownAttribute                       // Function attribute unknown to LLVM
)

// Error is an unrecoverable codegen error. The first error aborts
// generation of the whole unit.
type Error struct {
	Kind ErrorKind
	Name string // Offending identifier, if any
	Msg  string
}

func (kind ErrorKind) String() string {
	switch kind {
	case UnknownIdentifier:
		return "unknown identifier"
	case MalformedType:
		return "malformed type"
	case UnknownAttribute:
		return "unknown attribute"
	default:
		return "illegal"
	}
}

func (err *Error) Error() string {
	return "codegen: " + err.Msg
}

// fatalf aborts generation. The panic is recovered at the API boundary
// by catch.
func (c *Context) fatalf(kind ErrorKind, name, format string, args ...interface{}) {
	err := &Error{Kind: kind, Name: name, Msg: fmt.Sprintf(format, args...)}
	tlog.V("fatal").Printw("codegen error", "kind", kind.String(), "msg", err.Msg, "from", loc.Caller(1))
	panic(err)
}

// catch converts an aborting *Error into a returned error. Any other
// panic is a bug and is propagated.
func (c *Context) catch(err *error) {
	if r := recover(); r != nil {
		e, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*err = e
	}
}
