package binning_test

import (
	"math"
	"testing"
	"time"

	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/testenv"
	"github.com/usnistgov/histcount/value"
)

var makeAR = testenv.MakeAR

func TestSpecValidate(t *testing.T) {
	assert, _ := makeAR(t)

	assert.ErrorIs(binning.Spec{}.Validate(), value.ErrConfiguration)
	assert.ErrorIs(binning.Spec{Width: 1, Edges: value.Nums(0, 1)}.Validate(), value.ErrConfiguration)
	assert.ErrorIs(binning.Spec{Width: -1}.Validate(), value.ErrConfiguration)
	assert.ErrorIs(binning.Spec{Width: 1, Offset: value.Str("a")}.Validate(), value.ErrConfiguration)
	assert.NoError(binning.Uniform(1, 0).Validate())
	assert.NoError(binning.Spec{Width: 2}.Validate())

	assert.ErrorIs(binning.EdgeList(value.Int(0)).Validate(), value.ErrValidation)
	assert.ErrorIs(binning.EdgeList(value.Nums(0, 2, 2)...).Validate(), value.ErrValidation)
	assert.ErrorIs(binning.EdgeList(value.Nums(0, 3, 2)...).Validate(), value.ErrValidation)
	assert.ErrorIs(binning.EdgeList(value.Int(0), value.Str("a")).Validate(), value.ErrValidation)
	assert.NoError(binning.EdgeList(value.Nums(0, 2, 5, 10)...).Validate())
}

func TestSetOnce(t *testing.T) {
	assert, require := makeAR(t)

	b, e := binning.New(binning.Spec{})
	require.NoError(e)
	assert.False(b.IsSet())
	_, e = b.ValueToBinLabel(value.Int(1), false)
	assert.ErrorIs(e, value.ErrConfiguration)
	_, e = b.BinCenter(0)
	assert.ErrorIs(e, value.ErrConfiguration)

	require.NoError(b.SetSpec(binning.Uniform(1, 0)))
	assert.True(b.IsSet())
	assert.True(b.HasWidth())
	assert.False(b.HasEdges())
	assert.ErrorIs(b.SetSpec(binning.Uniform(2, 0)), value.ErrConfiguration)
	assert.Equal(1.0, b.Spec().Width)

	_, e = binning.New(binning.Spec{Width: 1, Edges: value.Nums(0, 1)})
	assert.ErrorIs(e, value.ErrConfiguration)
}

func TestSpecIsCopied(t *testing.T) {
	assert, require := makeAR(t)

	edges := value.Nums(0, 2, 5, 10)
	b, e := binning.New(binning.EdgeList(edges...))
	require.NoError(e)
	edges[0] = value.Int(-100)
	got := b.Edges()
	assert.Equal(value.Int(0), got[0])
	got[1] = value.Int(-100)
	assert.Equal(value.Nums(0, 2, 5, 10), b.Edges())
}

func TestEdgeLookup(t *testing.T) {
	assert, require := makeAR(t)

	b, e := binning.New(binning.EdgeList(value.Nums(0, 2, 5, 10)...))
	require.NoError(e)

	tests := []struct {
		v            float64
		greaterEqual bool
		label        int
	}{
		{-3, false, 0},
		{0, false, 0},
		{1, false, 0},
		{2, false, 1},
		{2, true, 0},
		{4.9, false, 1},
		{5, false, 2},
		{5, true, 1},
		{9.99, true, 2},
		{10, false, 2},
		{10, true, 2},
		{100, false, 2},
	}
	for _, tt := range tests {
		label, e := b.ValueToBinLabel(value.Num(tt.v), tt.greaterEqual)
		require.NoError(e)
		assert.Equal(tt.label, label, "%v %v", tt.v, tt.greaterEqual)
	}

	_, e = b.ValueToBinLabel(value.Str("5"), false)
	assert.ErrorIs(e, value.ErrValidation)

	center, e := b.BinCenter(1)
	require.NoError(e)
	assert.Equal(value.Num(3.5), center)
	left, e := b.LeftBinEdge(3)
	require.NoError(e)
	assert.Equal(value.Int(10), left)
	right, e := b.RightBinEdge(2)
	require.NoError(e)
	assert.Equal(value.Int(10), right)

	_, e = b.BinCenter(3)
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.RightBinEdge(3)
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.LeftBinEdge(-1)
	assert.ErrorIs(e, value.ErrValidation)

	lo, hi, ok := b.EdgesRange()
	assert.True(ok)
	assert.Equal(value.Int(0), lo)
	assert.Equal(value.Int(10), hi)
}

func TestWidthLookup(t *testing.T) {
	assert, require := makeAR(t)

	b, e := binning.New(binning.Uniform(0.5, 1))
	require.NoError(e)

	label, e := b.ValueToBinLabel(value.Num(2.2), false)
	require.NoError(e)
	assert.Equal(2, label)
	label, e = b.ValueToBinLabel(value.Num(0.9), false)
	require.NoError(e)
	assert.Equal(-1, label)
	label, e = b.ValueToBinLabel(value.Num(2), true)
	require.NoError(e)
	assert.Equal(2, label)

	center, e := b.BinCenter(2)
	require.NoError(e)
	assert.Equal(value.Num(2.25), center)
	left, e := b.LeftBinEdge(2)
	require.NoError(e)
	assert.Equal(value.Num(2), left)
	right, e := b.RightBinEdge(2)
	require.NoError(e)
	assert.Equal(value.Num(2.5), right)

	assert.Nil(b.Edges())
	_, _, ok := b.EdgesRange()
	assert.False(ok)

	_, e = b.ValueToBinLabel(value.Str("x"), false)
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.ValueToBinLabel(value.Num(1e300), false)
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.ValueToBinLabel(value.Num(-1e300), false)
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.ValueToBinLabel(value.Num(math.Inf(1)), false)
	assert.ErrorIs(e, value.ErrValidation)
}

func TestTemporalLookup(t *testing.T) {
	assert, require := makeAR(t)

	t0 := time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC)
	b, e := binning.New(binning.Temporal(30*24*time.Hour, t0))
	require.NoError(e)

	label, e := b.ValueToBinLabel(value.Time(t0.Add(65*24*time.Hour)), false)
	require.NoError(e)
	assert.Equal(2, label)
	label, e = b.ValueToBinLabel(value.Time(t0.Add(-time.Hour)), false)
	require.NoError(e)
	assert.Equal(-1, label)

	left, e := b.LeftBinEdge(2)
	require.NoError(e)
	assert.Equal(value.Time(t0.Add(60*24*time.Hour)), left)
	center, e := b.BinCenter(0)
	require.NoError(e)
	assert.Equal(value.Time(t0.Add(15*24*time.Hour)), center)

	_, e = b.ValueToBinLabel(value.Num(3), false)
	assert.ErrorIs(e, value.ErrValidation)

	bins, e := b.TruncatedBinEdges([]value.Value{value.Time(t0.Add(time.Hour)), value.Time(t0.Add(40 * 24 * time.Hour))})
	require.NoError(e)
	assert.Equal([]value.Value{value.Time(t0), value.Time(t0.Add(30 * 24 * time.Hour)), value.Time(t0.Add(60 * 24 * time.Hour))}, bins)
}

func TestTruncatedEdges(t *testing.T) {
	assert, require := makeAR(t)

	b, e := binning.New(binning.EdgeList(value.Nums(0, 2, 5, 10)...))
	require.NoError(e)

	bins, e := b.TruncatedBinEdges(nil)
	require.NoError(e)
	assert.Equal(value.Nums(0, 2, 5, 10), bins)

	bins, e = b.TruncatedBinEdges(value.Nums(1, 4))
	require.NoError(e)
	assert.Equal(value.Nums(0, 2, 5), bins)

	// max on a boundary keeps the previous bin's right edge
	bins, e = b.TruncatedBinEdges(value.Nums(2, 5))
	require.NoError(e)
	assert.Equal(value.Nums(2, 5), bins)

	bins, e = b.TruncatedBinEdges(value.Nums(-5, 50))
	require.NoError(e)
	assert.Equal(value.Nums(0, 2, 5, 10), bins)

	_, e = b.TruncatedBinEdges(value.Nums(11, 12))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges(value.Nums(-2, 0))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges(value.Nums(4, 1))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges(value.Nums(1, 2, 3))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges([]value.Value{value.Int(1), value.Str("4")})
	assert.ErrorIs(e, value.ErrValidation)
}

func TestTruncatedWidth(t *testing.T) {
	assert, require := makeAR(t)

	b, e := binning.New(binning.Uniform(1, 0))
	require.NoError(e)

	bins, e := b.TruncatedBinEdges(nil)
	require.NoError(e)
	assert.Nil(bins)

	bins, e = b.TruncatedBinEdges(value.Nums(1.5, 3.2))
	require.NoError(e)
	assert.Equal(value.Nums(1, 2, 3, 4), bins)

	bins, e = b.TruncatedBinEdges(value.Nums(0.2, 0.7))
	require.NoError(e)
	assert.Equal(value.Nums(0, 1), bins)

	_, e = b.TruncatedBinEdges(value.Nums(3, 3))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges(value.Nums(0, 1e300))
	assert.ErrorIs(e, value.ErrValidation)
	_, e = b.TruncatedBinEdges(value.Nums(-1e17, 1e17))
	assert.ErrorIs(e, value.ErrValidation)
	bins, e = b.TruncatedBinEdges(value.Nums(0, binning.MaxSynthesizedBins-1))
	require.NoError(e)
	assert.Len(bins, binning.MaxSynthesizedBins+1)

	unset, e := binning.New(binning.Spec{})
	require.NoError(e)
	bins, e = unset.TruncatedBinEdges([]value.Value{value.Str("a"), value.Str("b")})
	require.NoError(e)
	assert.Equal(value.Strs("a", "b"), bins)
}

func TestCentersWidths(t *testing.T) {
	assert, require := makeAR(t)

	centers, e := binning.Centers(value.Nums(0, 2, 5, 10))
	require.NoError(e)
	assert.Equal(value.Nums(1, 3.5, 7.5), centers)

	widths, e := binning.Widths(value.Nums(0, 2, 5, 10))
	require.NoError(e)
	assert.Equal([]float64{2, 3, 5}, widths)

	_, e = binning.Widths([]value.Value{value.Int(0), value.Str("x")})
	assert.ErrorIs(e, value.ErrValidation)

	centers, e = binning.Centers(value.Nums(1))
	assert.NoError(e)
	assert.Nil(centers)
}
