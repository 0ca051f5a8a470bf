package chonk

import (
	"math"
	"strconv"
)

// String returns the text echo prints for v.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.Str()
	case KindFunction:
		return "<function " + v.Function().Name + ">"
	case KindBuiltin:
		return "<native function " + v.Builtin().Name + ">"
	default:
		return "<unknown>"
	}
}

// formatNumber prints the shortest decimal that round-trips, never in
// exponent form.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
