package codegen

import "tinygo.org/x/go-llvm"

// Config contains the shape of the generated entry routine.
type Config struct {
	ModuleName     string
	EntryName      string
	CallingConv    llvm.CallConv
	FuncAttrs      []string
	ImplicitReturn bool // Close an unterminated final block with ret 0
}

// GHCCallConv is the Glasgow Haskell Compiler calling convention, which
// the LLVM C API does not name.
const GHCCallConv llvm.CallConv = 10

// Default configuration values.
const (
	DefaultModuleName = "mascal"
	DefaultEntryName  = "main"
)

// DefaultFuncAttrs are the attributes the entry routine is tagged with.
var DefaultFuncAttrs = []string{
	"mustprogress",
	"nofree",
	"norecurse",
	"nosync",
	"nounwind",
	"readnone",
	"willreturn",
}

// DefaultConfig returns the configuration producing a GHC-convention
// main function with the default attribute bundle.
func DefaultConfig() Config {
	attrs := make([]string, len(DefaultFuncAttrs))
	copy(attrs, DefaultFuncAttrs)
	return Config{
		ModuleName:     DefaultModuleName,
		EntryName:      DefaultEntryName,
		CallingConv:    GHCCallConv,
		FuncAttrs:      attrs,
		ImplicitReturn: true,
	}
}
