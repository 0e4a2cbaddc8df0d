// Package histogram provides a one-dimensional histogram over a sparse count table.
//
// Bins are categorical when there is no bin specification, otherwise they are equal-width bins
// or bounded by explicit edges, over a numeric or temporal variable.
// A Histogram is immutable after construction; transformations return new instances.
package histogram

import (
	"errors"
	"fmt"
	"slices"

	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/logging"
	"github.com/usnistgov/histcount/value"
	"github.com/usnistgov/histcount/valuecounts"
	"go.uber.org/zap"
)

var logger = logging.New("Histogram")

// Error kinds.
var (
	ErrConfiguration = value.ErrConfiguration
	ErrValidation    = value.ErrValidation
	ErrCombination   = value.ErrCombination
	ErrCategorical   = errors.New("not implemented for categorical histograms")
)

// Config contains Histogram construction parameters.
type Config struct {
	// Variable is the name of the histogram variable.
	Variable string `json:"variable"`

	// Binning is the bin specification.
	// Zero value means categorical bins.
	Binning binning.Spec `json:"binning"`
}

func (cfg Config) validate() error {
	if cfg.Variable == "" {
		return fmt.Errorf("%w: histogram variable name is empty", ErrConfiguration)
	}
	return nil
}

// Histogram is a one-dimensional histogram.
type Histogram struct {
	variable string
	bins     *binning.Binning
	vc       *valuecounts.ValueCounts
}

// New constructs a Histogram.
//
// Keys whose type differs from the dominant type are dropped.
// It fails if no bin remains, if bin labels are not numeric under a bin specification,
// or if the number of edges does not match the number of bins.
func New(cfg Config, input Input) (h *Histogram, e error) {
	if e = cfg.validate(); e != nil {
		return nil, e
	}
	log := logger.With(zap.String("variable", cfg.Variable))

	src, e := input.resolve(cfg.Variable)
	if e != nil {
		log.Error("invalid histogram input", zap.Error(e))
		return nil, e
	}

	spec := cfg.Binning
	if src.edges != nil {
		spec = binning.EdgeList(src.edges...)
	}
	h = &Histogram{
		variable: cfg.Variable,
		vc:       src.counts,
	}
	if h.bins, e = binning.New(spec); e != nil {
		log.Error("invalid bin specification", zap.Error(e))
		return nil, e
	}

	h.vc.RemoveKeysOfInconsistentType(nil)

	if e = h.validate(); e != nil {
		log.Error("invalid histogram", zap.Error(e))
		return nil, e
	}
	return h, nil
}

func (h *Histogram) validate() error {
	nBins := h.vc.NumNonNoneBins()
	if nBins < 1 {
		return fmt.Errorf("%w: no bin counts specified for %q", ErrValidation, h.variable)
	}
	if !h.bins.IsSet() {
		return nil
	}

	for _, ent := range h.vc.NonNoneCounts() {
		if label := ent.Key[0]; label.Kind() != value.KindNumeric {
			return fmt.Errorf("%w: non-numeric bin label %q not allowed with a bin specification", ErrValidation, label)
		}
	}
	if h.bins.HasEdges() {
		if nEdges := len(h.bins.Spec().Edges); nEdges != nBins+1 {
			return fmt.Errorf("%w: number of bin edges (%d) does not match number of bins (%d)", ErrValidation, nEdges, nBins)
		}
	}
	return nil
}

// Variable returns the variable name.
func (h *Histogram) Variable() string {
	return h.variable
}

// Spec returns a copy of the bin specification.
func (h *Histogram) Spec() binning.Spec {
	return h.bins.Spec()
}

// IsCategorical determines whether the histogram has no bin specification.
func (h *Histogram) IsCategorical() bool {
	return !h.bins.IsSet()
}

// ValueCounts returns a copy of the underlying count table.
func (h *Histogram) ValueCounts() *valuecounts.ValueCounts {
	return h.vc.Clone()
}

// NumBins returns the number of bins.
func (h *Histogram) NumBins() int {
	return h.vc.NumBins()
}

// BinLabels returns the labels of bins, sorted.
func (h *Histogram) BinLabels() []value.Value {
	entries := h.vc.NonNoneCounts()
	labels := make([]value.Value, len(entries))
	for i, ent := range entries {
		labels[i] = ent.Key[0]
	}
	return labels
}

// BinCount returns the count of a bin, or 0 if the label is unknown.
func (h *Histogram) BinCount(label value.Value) float64 {
	if label.IsNone() {
		return 0
	}
	return h.vc.Count(value.T(label))
}

// ValueToBinLabel returns the label of the bin that a value falls in.
func (h *Histogram) ValueToBinLabel(v value.Value, greaterEqual bool) (value.Value, error) {
	label, e := h.bins.ValueToBinLabel(v, greaterEqual)
	if e != nil {
		return value.None(), e
	}
	return value.Int(label), nil
}

// HistVal returns the count of the bin that a value falls in.
// If the value cannot be mapped to a bin, it returns 0.
func (h *Histogram) HistVal(v value.Value) float64 {
	label, e := h.ValueToBinLabel(v, false)
	if e != nil {
		logger.Warn("bin label for variable value not found",
			zap.String("variable", h.variable),
			zap.Stringer("value", v),
			zap.Error(e),
		)
		return 0
	}
	return h.BinCount(label)
}

// widthEdge returns offset+x*width for equal-width bins.
func (h *Histogram) widthEdge(x float64) value.Value {
	v, _ := value.Shift(h.bins.Offset(), x*h.bins.Spec().Width) // offset kind is validated by binning
	return v
}

func (h *Histogram) labelFloats() []float64 {
	entries := h.vc.NonNoneCounts()
	xs := make([]float64, len(entries))
	for i, ent := range entries {
		xs[i], _ = ent.Key[0].Float()
	}
	return xs
}

// NonNoneBinEdges returns the bin edges.
// With equal-width bins, they are the left edges of observed bins followed by the right edge of the last bin.
// Categorical histograms have no edges.
func (h *Histogram) NonNoneBinEdges() []value.Value {
	switch {
	case h.bins.HasEdges():
		return h.bins.Edges()
	case h.bins.HasWidth():
		xs := h.labelFloats()
		edges := make([]value.Value, 0, len(xs)+1)
		for _, x := range xs {
			edges = append(edges, h.widthEdge(x))
		}
		return append(edges, h.widthEdge(xs[len(xs)-1]+1))
	}
	return nil
}

// UniformBinEdges returns equal-width bin edges spanning the observed bin range.
// Categorical histograms have no edges.
func (h *Histogram) UniformBinEdges() ([]value.Value, error) {
	lo, hi, ok := h.NonNoneBinRange()
	if !ok {
		return nil, nil
	}
	return h.bins.TruncatedBinEdges([]value.Value{lo, hi})
}

// NonNoneBinCenters returns the bin centers, or the bin labels of a categorical histogram.
func (h *Histogram) NonNoneBinCenters() []value.Value {
	switch {
	case h.bins.HasEdges():
		centers, _ := binning.Centers(h.bins.Edges()) // edges are validated by binning
		return centers
	case h.bins.HasWidth():
		xs := h.labelFloats()
		centers := make([]value.Value, len(xs))
		for i, x := range xs {
			centers[i] = h.widthEdge(x + 0.5)
		}
		return centers
	}
	return h.BinLabels()
}

// NonNoneBinCounts returns the bin counts, aligned with NonNoneBinCenters.
func (h *Histogram) NonNoneBinCounts() []float64 {
	if h.bins.HasEdges() {
		centers := h.NonNoneBinCenters()
		counts := make([]float64, len(centers))
		for i, c := range centers {
			counts[i] = h.HistVal(c)
		}
		return counts
	}

	entries := h.vc.NonNoneCounts()
	counts := make([]float64, len(entries))
	for i, ent := range entries {
		counts[i] = ent.Count
	}
	return counts
}

// NonNoneBinRange returns the lower edge of the first bin and the upper edge of the last bin.
// ok is false for categorical histograms.
func (h *Histogram) NonNoneBinRange() (lo, hi value.Value, ok bool) {
	switch {
	case h.bins.HasEdges():
		return h.bins.EdgesRange()
	case h.bins.HasWidth():
		xs := h.labelFloats()
		return h.widthEdge(xs[0]), h.widthEdge(xs[len(xs)-1] + 1), true
	}
	return value.None(), value.None(), false
}

// BinRange is an alias of NonNoneBinRange.
func (h *Histogram) BinRange() (lo, hi value.Value, ok bool) {
	return h.NonNoneBinRange()
}

// BinVals returns aligned bin counts and bin labels or edges.
//
// For a categorical histogram, rng lists bin labels: if combine is set, they are merged with existing labels,
// otherwise they replace existing labels; unseen labels have zero count.
// For a binned histogram, rng is a [min,max) variable range that selects a subset of bins.
// An empty rng selects all bins.
func (h *Histogram) BinVals(rng []value.Value, combine bool) (bv BinVals, e error) {
	labels := h.BinLabels()
	switch {
	case h.IsCategorical():
		if len(rng) > 0 {
			if combine {
				labels = append(labels, rng...)
				slices.SortFunc(labels, value.Compare)
				labels = slices.Compact(labels)
			} else {
				labels = slices.Clone(rng)
			}
		}
		bv.Bins = labels
	case len(rng) == 0:
		bv.Bins = h.NonNoneBinEdges()
	default:
		if bv.Bins, e = h.bins.TruncatedBinEdges(rng); e != nil {
			return BinVals{}, e
		}
		centers, e := binning.Centers(bv.Bins)
		if e != nil {
			return BinVals{}, e
		}
		labels = make([]value.Value, len(centers))
		for i, c := range centers {
			if labels[i], e = h.ValueToBinLabel(c, false); e != nil {
				return BinVals{}, e
			}
		}
	}

	bv.Counts = make([]float64, len(labels))
	for i, label := range labels {
		bv.Counts[i] = h.BinCount(label)
	}
	return bv, nil
}
