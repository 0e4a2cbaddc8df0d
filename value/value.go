// Package value defines the scalar values that key count tables and label histogram bins.
package value

import (
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Kind values, in the order used by Compare.
const (
	KindNone Kind = iota
	KindNumeric
	KindTemporal
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsOrdered determines whether values of this kind live on an ordered scalar domain
// that supports binning arithmetic.
func (k Kind) IsOrdered() bool {
	return k == KindNumeric || k == KindTemporal
}

// Value is a tagged scalar: none, numeric, temporal, string, or boolean.
// The zero Value is none.
// Value is comparable and can be used as a map key.
type Value struct {
	kind Kind
	num  float64 // numeric; bool as 0 or 1
	ns   int64   // temporal, Unix nanoseconds
	str  string
}

// None returns the missing value.
func None() Value {
	return Value{}
}

// Num constructs a numeric value.
func Num(x float64) Value {
	if x == 0 {
		x = 0 // fold negative zero
	}
	return Value{kind: KindNumeric, num: x}
}

// Int constructs a numeric value from an integer.
func Int(i int) Value {
	return Num(float64(i))
}

// Time constructs a temporal value.
func Time(t time.Time) Value {
	return Value{kind: KindTemporal, ns: t.UnixNano()}
}

// Str constructs a string value.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Kind returns the variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone determines whether v is the missing value.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// Float returns the numeric payload.
func (v Value) Float() (x float64, ok bool) {
	return v.num, v.kind == KindNumeric
}

// Time returns the temporal payload in UTC.
func (v Value) Time() (t time.Time, ok bool) {
	if v.kind != KindTemporal {
		return time.Time{}, false
	}
	return time.Unix(0, v.ns).UTC(), true
}

// Str returns the string payload.
func (v Value) Str() (s string, ok bool) {
	return v.str, v.kind == KindString
}

// Bool returns the boolean payload.
func (v Value) Bool() (b bool, ok bool) {
	return v.num != 0, v.kind == KindBool
}

func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTemporal:
		t, _ := v.Time()
		return t.Format(time.RFC3339Nano)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	}
	return "None"
}

// Nums converts a sequence of numbers to values.
func Nums(xs ...float64) (list []Value) {
	list = make([]Value, len(xs))
	for i, x := range xs {
		list[i] = Num(x)
	}
	return list
}

// Strs converts a sequence of strings to values.
func Strs(ss ...string) (list []Value) {
	list = make([]Value, len(ss))
	for i, s := range ss {
		list[i] = Str(s)
	}
	return list
}
