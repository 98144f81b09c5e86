package parser

// builtinFunctions is the fixed set of recognized single-argument
// function names (spec §4.3).
var builtinFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"acos": true, "asin": true, "atan": true,
	"cosh": true, "sinh": true, "tanh": true,
	"log": true, "log10": true, "sqrt": true,
	"ceil": true, "fabs": true, "floor": true, "round": true,
}

// IsBuiltinFunction reports whether name is a recognized single-argument
// function. The code generator keeps its own table of the same names
// (codegen's builtinMath) and does not call this.
func IsBuiltinFunction(name string) bool {
	return builtinFunctions[name]
}

const (
	constE  = 2.718281828459045235360
	constPi = 3.14159265358979323846
)
