// Package binning interprets bin specifications.
// It converts between raw values, bin labels, bin edges, and bin centers.
package binning

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/usnistgov/histcount/core/logging"
	"github.com/usnistgov/histcount/value"
	"github.com/zyedidia/generic"
	"go.uber.org/zap"
)

var logger = logging.New("Binning")

// MaxSynthesizedBins limits how many equal-width bins TruncatedBinEdges may synthesize.
const MaxSynthesizedBins = 1 << 20

// Binning holds a bin specification that can be set exactly once.
// The zero Binning has no specification, which describes categorical bins.
type Binning struct {
	spec Spec
	set  bool
}

// New creates a Binning.
// A zero spec leaves the specification unset.
func New(spec Spec) (*Binning, error) {
	b := &Binning{}
	if spec.IsZero() {
		return b, nil
	}
	if e := b.SetSpec(spec); e != nil {
		return nil, e
	}
	return b, nil
}

// SetSpec assigns the bin specification.
// It fails if a specification was already assigned.
func (b *Binning) SetSpec(spec Spec) error {
	if b.set {
		return fmt.Errorf("%w: bin specification already set", value.ErrConfiguration)
	}
	if e := spec.Validate(); e != nil {
		return e
	}
	b.spec, b.set = spec.Clone(), true
	logger.Debug("bin specification set",
		zap.Float64("width", b.spec.Width),
		zap.Stringer("offset", b.spec.Offset),
		zap.Int("edges", len(b.spec.Edges)),
	)
	return nil
}

// IsSet determines whether a bin specification is assigned.
func (b *Binning) IsSet() bool {
	return b.set
}

// Spec returns a copy of the bin specification.
func (b *Binning) Spec() Spec {
	return b.spec.Clone()
}

// HasWidth determines whether the bins have equal width.
func (b *Binning) HasWidth() bool {
	return b.set && b.spec.HasWidth()
}

// HasEdges determines whether the bins have explicit edges.
func (b *Binning) HasEdges() bool {
	return b.set && b.spec.HasEdges()
}

// Offset returns the offset of equal-width bins, defaulting to numeric zero.
func (b *Binning) Offset() value.Value {
	if b.spec.Offset.IsNone() {
		return value.Num(0)
	}
	return b.spec.Offset
}

func (b *Binning) checkSet() error {
	if !b.set {
		return fmt.Errorf("%w: no bin specification", value.ErrConfiguration)
	}
	return nil
}

// ValueToBinLabel returns the bin label that a value falls in.
//
// With equal-width bins, this is floor((v-offset)/width), and greaterEqual has no effect.
// With explicit edges, values outside the edges are clamped to the outermost bins.
// A value exactly on an inner boundary is assigned to the bin on its right,
// or to the bin on its left if greaterEqual is set.
func (b *Binning) ValueToBinLabel(v value.Value, greaterEqual bool) (int, error) {
	if e := b.checkSet(); e != nil {
		return 0, e
	}

	if b.spec.HasWidth() {
		d, e := value.Diff(v, b.Offset())
		if e != nil {
			return 0, e
		}
		label := math.Floor(d / b.spec.Width)
		if math.IsNaN(label) || label < math.MinInt || label >= math.MaxInt {
			return 0, fmt.Errorf("%w: value %v has no bin", value.ErrValidation, v)
		}
		return int(label), nil
	}

	edges := b.spec.Edges
	last := len(edges) - 1
	if c, e := value.CompareOrdered(v, edges[0]); e != nil {
		return 0, e
	} else if c <= 0 {
		return 0, nil
	}
	if c, _ := value.CompareOrdered(v, edges[last]); c >= 0 {
		return last - 1, nil
	}
	return sort.Search(last, func(i int) bool {
		c := value.Compare(edges[i+1], v)
		if greaterEqual {
			return c >= 0
		}
		return c > 0
	}), nil
}

func (b *Binning) checkEdgeLabel(label, nEdges int) error {
	if label < 0 || label >= nEdges {
		return fmt.Errorf("%w: bin label %d does not fit in bin edges", value.ErrValidation, label)
	}
	return nil
}

// BinCenter returns the center of a bin.
func (b *Binning) BinCenter(label int) (value.Value, error) {
	if e := b.checkSet(); e != nil {
		return value.None(), e
	}
	if b.spec.HasWidth() {
		return value.Shift(b.Offset(), (float64(label)+0.5)*b.spec.Width)
	}
	edges := b.spec.Edges
	if e := b.checkEdgeLabel(label, len(edges)-1); e != nil {
		return value.None(), e
	}
	return midpoint(edges[label], edges[label+1])
}

// LeftBinEdge returns the left edge of a bin.
func (b *Binning) LeftBinEdge(label int) (value.Value, error) {
	if e := b.checkSet(); e != nil {
		return value.None(), e
	}
	if b.spec.HasWidth() {
		return value.Shift(b.Offset(), float64(label)*b.spec.Width)
	}
	if e := b.checkEdgeLabel(label, len(b.spec.Edges)); e != nil {
		return value.None(), e
	}
	return b.spec.Edges[label], nil
}

// RightBinEdge returns the right edge of a bin.
func (b *Binning) RightBinEdge(label int) (value.Value, error) {
	if e := b.checkSet(); e != nil {
		return value.None(), e
	}
	if b.spec.HasWidth() {
		return value.Shift(b.Offset(), float64(label+1)*b.spec.Width)
	}
	if e := b.checkEdgeLabel(label, len(b.spec.Edges)-1); e != nil {
		return value.None(), e
	}
	return b.spec.Edges[label+1], nil
}

// Edges returns a copy of the explicit bin edges, or nil for equal-width or unset specification.
func (b *Binning) Edges() []value.Value {
	if !b.HasEdges() {
		return nil
	}
	return slices.Clone(b.spec.Edges)
}

// EdgesRange returns the first and last explicit bin edge.
func (b *Binning) EdgesRange() (lo, hi value.Value, ok bool) {
	if !b.HasEdges() {
		return value.None(), value.None(), false
	}
	return b.spec.Edges[0], b.spec.Edges[len(b.spec.Edges)-1], true
}

// TruncatedBinEdges returns the minimal bin edges that cover a [min,max) range.
//
// An empty range returns Edges(). Without a specification, the range itself is returned.
// With explicit edges, the result is a subsequence of the edges; with equal width, edges are synthesized.
// If max lands exactly on a bin boundary, the previous bin's right edge is the last edge.
func (b *Binning) TruncatedBinEdges(rng []value.Value) ([]value.Value, error) {
	if len(rng) == 0 {
		return b.Edges(), nil
	}
	if !b.set {
		return slices.Clone(rng), nil
	}

	if len(rng) != 2 {
		return nil, fmt.Errorf("%w: expected a variable range (min, max), got %v", value.ErrValidation, rng)
	}
	if c, e := value.CompareOrdered(rng[0], rng[1]); e != nil {
		return nil, fmt.Errorf("expected a variable range (min, max), got %v: %w", rng, e)
	} else if c >= 0 {
		return nil, fmt.Errorf("%w: expected a variable range (min, max), got %v", value.ErrValidation, rng)
	}

	minIdx, e := b.ValueToBinLabel(rng[0], false)
	if e != nil {
		return nil, e
	}
	maxIdx, e := b.ValueToBinLabel(rng[1], true)
	if e != nil {
		return nil, e
	}

	if b.spec.HasEdges() {
		edges := b.spec.Edges
		cLo, _ := value.CompareOrdered(rng[0], edges[len(edges)-1])
		cHi, _ := value.CompareOrdered(rng[1], edges[0])
		if cLo > 0 || cHi <= 0 {
			return nil, fmt.Errorf("%w: range %v is outside histogram range (%v, %v)",
				value.ErrValidation, rng, edges[0], edges[len(edges)-1])
		}
		return slices.Clone(edges[minIdx:generic.Min(maxIdx+2, len(edges))]), nil
	}

	if nBins := float64(maxIdx) - float64(minIdx) + 1; nBins > MaxSynthesizedBins {
		return nil, fmt.Errorf("%w: range %v spans %g bins, limit is %d", value.ErrValidation, rng, nBins, MaxSynthesizedBins)
	}
	bins := make([]value.Value, 0, maxIdx-minIdx+2)
	for label := minIdx; label <= maxIdx+1; label++ {
		edge, e := b.LeftBinEdge(label)
		if e != nil {
			return nil, e
		}
		bins = append(bins, edge)
	}
	return bins, nil
}

// Centers returns the midpoints of consecutive edges.
func Centers(edges []value.Value) (centers []value.Value, e error) {
	if len(edges) < 2 {
		return nil, nil
	}
	centers = make([]value.Value, len(edges)-1)
	for i := range centers {
		if centers[i], e = midpoint(edges[i], edges[i+1]); e != nil {
			return nil, e
		}
	}
	return centers, nil
}

// Widths returns the differences of consecutive edges.
// Temporal widths are expressed in nanoseconds.
func Widths(edges []value.Value) (widths []float64, e error) {
	if len(edges) < 2 {
		return nil, nil
	}
	widths = make([]float64, len(edges)-1)
	for i := range widths {
		if widths[i], e = value.Diff(edges[i+1], edges[i]); e != nil {
			return nil, e
		}
	}
	return widths, nil
}

func midpoint(left, right value.Value) (value.Value, error) {
	w, e := value.Diff(right, left)
	if e != nil {
		return value.None(), e
	}
	return value.Shift(left, w/2)
}
