package value

import (
	"cmp"
	"fmt"
	"math"
	"strings"
)

// Compare defines a total order over all values.
// Values of different kinds are ordered by Kind; values of the same kind by payload.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindNumeric, KindBool:
		return cmp.Compare(a.num, b.num)
	case KindTemporal:
		return cmp.Compare(a.ns, b.ns)
	case KindString:
		return strings.Compare(a.str, b.str)
	}
	return 0
}

// Less reports whether a sorts before b in the total order.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

// CompareOrdered compares two values on the same ordered scalar domain.
// It fails if either value is not numeric or temporal, or if the kinds differ.
func CompareOrdered(a, b Value) (int, error) {
	if !a.kind.IsOrdered() || a.kind != b.kind {
		return 0, fmt.Errorf("%w: cannot order %s %q against %s %q", ErrValidation, a.kind, a, b.kind, b)
	}
	return Compare(a, b), nil
}

// Diff computes a-b on an ordered scalar domain.
// Temporal differences are expressed in nanoseconds.
func Diff(a, b Value) (float64, error) {
	if !a.kind.IsOrdered() || a.kind != b.kind {
		return 0, fmt.Errorf("%w: cannot subtract %s %q from %s %q", ErrValidation, b.kind, b, a.kind, a)
	}
	if a.kind == KindTemporal {
		return float64(a.ns - b.ns), nil
	}
	return a.num - b.num, nil
}

// Shift computes v+delta on an ordered scalar domain.
// Temporal deltas are expressed in nanoseconds and rounded to the nearest nanosecond.
func Shift(v Value, delta float64) (Value, error) {
	switch v.kind {
	case KindNumeric:
		return Num(v.num + delta), nil
	case KindTemporal:
		return Value{kind: KindTemporal, ns: v.ns + int64(math.Round(delta))}, nil
	}
	return Value{}, fmt.Errorf("%w: cannot shift %s %q", ErrValidation, v.kind, v)
}
