package value_test

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/usnistgov/histcount/core/testenv"
	"github.com/usnistgov/histcount/value"
)

var makeAR = testenv.MakeAR

func TestKinds(t *testing.T) {
	assert, _ := makeAR(t)

	assert.True(value.None().IsNone())
	assert.Equal(value.Value{}, value.None())
	assert.Equal(value.KindNumeric, value.Int(3).Kind())
	assert.Equal(value.Num(3), value.Int(3))
	assert.Equal(value.Num(0), value.Num(math.Copysign(0, -1)))

	x, ok := value.Num(2.5).Float()
	assert.True(ok)
	assert.Equal(2.5, x)
	_, ok = value.Str("2.5").Float()
	assert.False(ok)

	ts := time.Date(2010, 1, 4, 12, 0, 0, 0, time.UTC)
	tv, ok := value.Time(ts.In(time.FixedZone("X", 3600))).Time()
	assert.True(ok)
	assert.True(ts.Equal(tv))
	assert.Equal(value.KindTemporal, value.Time(ts).Kind())

	b, ok := value.Bool(true).Bool()
	assert.True(b)
	assert.True(ok)
	assert.NotEqual(value.Bool(true), value.Num(1))

	assert.Equal("None", value.None().String())
	assert.Equal("1.5", value.Num(1.5).String())
	assert.Equal("2010-01-04T12:00:00Z", value.Time(ts).String())
	assert.Equal("(a,)", value.T(value.Str("a")).String())
	assert.Equal("(1, true)", value.T(value.Int(1), value.Bool(true)).String())
}

func TestCompare(t *testing.T) {
	assert, _ := makeAR(t)

	list := []value.Value{value.Str("b"), value.Int(2), value.None(), value.Str("a"), value.Int(-1), value.Bool(false)}
	slices.SortFunc(list, value.Compare)
	assert.Equal([]value.Value{value.None(), value.Int(-1), value.Int(2), value.Str("a"), value.Str("b"), value.Bool(false)}, list)

	c, e := value.CompareOrdered(value.Int(1), value.Num(1.5))
	assert.NoError(e)
	assert.Equal(-1, c)

	_, e = value.CompareOrdered(value.Int(1), value.Str("x"))
	assert.True(errors.Is(e, value.ErrValidation))
	_, e = value.CompareOrdered(value.Str("a"), value.Str("b"))
	assert.ErrorIs(e, value.ErrValidation)
}

func TestArithmetic(t *testing.T) {
	assert, require := makeAR(t)

	d, e := value.Diff(value.Num(5), value.Num(2))
	require.NoError(e)
	assert.Equal(3.0, d)

	t0 := time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(36 * time.Hour)
	d, e = value.Diff(value.Time(t1), value.Time(t0))
	require.NoError(e)
	assert.Equal(float64(36*time.Hour), d)

	shifted, e := value.Shift(value.Time(t0), float64(36*time.Hour))
	require.NoError(e)
	assert.Equal(value.Time(t1), shifted)

	shifted, e = value.Shift(value.Num(1), 0.5)
	require.NoError(e)
	assert.Equal(value.Num(1.5), shifted)

	_, e = value.Diff(value.Time(t0), value.Num(1))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = value.Shift(value.Str("a"), 1)
	assert.ErrorIs(e, value.ErrValidation)
}

func TestTuple(t *testing.T) {
	assert, _ := makeAR(t)

	a := value.T(value.Int(1), value.Str("x"))
	b := value.T(value.Num(1), value.Str("x"))
	c := value.T(value.Str("1"), value.Str("x"))
	d := value.T(value.Str("ab"), value.Str(""))
	e := value.T(value.Str("a"), value.Str("b"))
	assert.Equal(a.MapKey(), b.MapKey())
	assert.NotEqual(a.MapKey(), c.MapKey())
	assert.NotEqual(d.MapKey(), e.MapKey())
	assert.True(a.Equal(b))
	assert.Equal(0, value.CompareTuples(a, b))
	assert.Equal(-1, value.CompareTuples(a, c))

	assert.False(a.HasNone())
	assert.True(value.T(value.Int(1), value.None()).HasNone())

	assert.Equal(value.Sig(value.KindNumeric, value.KindString), a.Signature())
	assert.Equal("(numeric,string)", a.Signature().String())
}

func TestSignature(t *testing.T) {
	assert, _ := makeAR(t)

	ns := value.Sig(value.KindNumeric, value.KindString)
	assert.False(ns.HasNone())
	assert.True(value.Sig(value.KindNone, value.KindString).HasNone())
	assert.Equal(ns.MapKey(), value.T(value.Int(7), value.Str("q")).Signature().MapKey())
	assert.NotEqual(ns.MapKey(), value.Sig(value.KindString, value.KindNumeric).MapKey())
}

func TestJSON(t *testing.T) {
	assert, _ := makeAR(t)

	ts := time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC)
	list := []value.Value{value.None(), value.Num(1.5), value.Str("a"), value.Bool(true), value.Time(ts)}
	j := testenv.ToJSON(list)
	assert.Equal(`[null,1.5,"a",true,{"time":"2010-01-04T00:00:00Z"}]`, j)

	var decoded []value.Value
	testenv.FromJSON(j, &decoded)
	assert.Equal(list, decoded)

	var v value.Value
	assert.Error(v.UnmarshalJSON([]byte(`{"time":"yesterday"}`)))
	assert.Error(v.UnmarshalJSON([]byte(`[1]`)))
}
