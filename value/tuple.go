package value

import (
	"encoding/binary"
	"math"
	"slices"
	"strings"
)

// Tuple is an ordered sequence of per-dimension values.
type Tuple []Value

// T constructs a Tuple.
func T(values ...Value) Tuple {
	return Tuple(values)
}

// HasNone determines whether any position holds the missing value.
func (t Tuple) HasNone() bool {
	return slices.ContainsFunc(t, Value.IsNone)
}

// Signature returns the per-position kinds.
func (t Tuple) Signature() (sig Signature) {
	sig = make(Signature, len(t))
	for i, v := range t {
		sig[i] = v.kind
	}
	return sig
}

// MapKey returns a canonical encoding usable as a Go map key.
// Two tuples have the same MapKey if and only if they are element-wise equal.
func (t Tuple) MapKey() string {
	var b []byte
	for _, v := range t {
		b = append(b, byte(v.kind))
		switch v.kind {
		case KindNumeric, KindBool:
			b = binary.BigEndian.AppendUint64(b, math.Float64bits(v.num))
		case KindTemporal:
			b = binary.BigEndian.AppendUint64(b, uint64(v.ns))
		case KindString:
			b = binary.AppendUvarint(b, uint64(len(v.str)))
			b = append(b, v.str...)
		}
	}
	return string(b)
}

// Equal determines whether two tuples are element-wise equal.
func (t Tuple) Equal(o Tuple) bool {
	return slices.Equal(t, o)
}

func (t Tuple) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range t {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	if len(t) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}

// CompareTuples orders tuples lexicographically using Compare.
func CompareTuples(a, b Tuple) int {
	return slices.CompareFunc(a, b, Compare)
}

// Signature is the per-position type signature of a Tuple.
type Signature []Kind

// Sig constructs a Signature.
func Sig(kinds ...Kind) Signature {
	return Signature(kinds)
}

// HasNone determines whether any position is KindNone.
func (sig Signature) HasNone() bool {
	return slices.Contains(sig, KindNone)
}

// MapKey returns a canonical encoding usable as a Go map key.
func (sig Signature) MapKey() string {
	b := make([]byte, len(sig))
	for i, k := range sig {
		b[i] = byte(k)
	}
	return string(b)
}

func (sig Signature) String() string {
	names := make([]string, len(sig))
	for i, k := range sig {
		names[i] = k.String()
	}
	return "(" + strings.Join(names, ",") + ")"
}
