package histogram

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/runningstat"
	"github.com/usnistgov/histcount/value"
	"github.com/usnistgov/histcount/valuecounts"
	"github.com/zyedidia/generic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat/distuv"
)

func (h *Histogram) derive(variable string, entries []valuecounts.Entry) (*Histogram, error) {
	vc, e := valuecounts.New(valuecounts.Config{Key: []string{variable}}, entries)
	if e != nil {
		return nil, e
	}
	return New(Config{Variable: variable, Binning: h.bins.Spec()}, FromValueCounts{vc})
}

// Copy returns an independent Histogram with identical bins.
// If variable is not empty, the copy is renamed.
func (h *Histogram) Copy(variable string) (*Histogram, error) {
	if variable == "" {
		variable = h.variable
	}
	return h.derive(variable, h.vc.Counts())
}

// ToNormalized returns a Histogram with the same bins, whose counts sum to 1.
func (h *Histogram) ToNormalized() (*Histogram, error) {
	sum := h.vc.SumNonNoneCounts()
	if !(sum > 0) {
		return nil, fmt.Errorf("%w: cannot normalize %q with total count %v", ErrValidation, h.variable, sum)
	}

	entries := h.vc.NonNoneCounts()
	normalized := make([]valuecounts.Entry, len(entries))
	for i, ent := range entries {
		normalized[i] = valuecounts.Entry{Key: ent.Key, Count: ent.Count / sum}
	}
	return h.derive(h.variable, normalized)
}

// Surface returns the sum of count times bin width.
// Temporal bin widths are expressed in nanoseconds.
func (h *Histogram) Surface() (float64, error) {
	if h.IsCategorical() {
		return 0, fmt.Errorf("surface: %w", ErrCategorical)
	}
	bv, e := h.BinVals(nil, true)
	if e != nil {
		return 0, e
	}
	widths, e := binning.Widths(bv.Bins)
	if e != nil {
		return 0, e
	}
	return floats.Dot(bv.Counts, widths), nil
}

// Stats computes weighted statistics of bin centers, with bin counts as weights.
// Temporal centers are expressed in Unix nanoseconds.
func (h *Histogram) Stats() (s runningstat.Snapshot, e error) {
	if h.IsCategorical() {
		return s, fmt.Errorf("stats: %w", ErrCategorical)
	}

	var rs runningstat.RunningStat
	counts := h.NonNoneBinCounts()
	for i, c := range h.NonNoneBinCenters() {
		x, ok := c.Float()
		if t, isTime := c.Time(); isTime {
			x, ok = float64(t.UnixNano()), true
		}
		if !ok {
			return s, fmt.Errorf("%w: bin center %q is not numeric", ErrValidation, c)
		}
		rs.PushWeighted(x, counts[i])
	}
	return rs.Read(), nil
}

// CombinedStats merges the Stats of several numeric histograms.
// Weight, Mean, Variance, Min, and Max equal those of the histograms' sum when their bins align,
// while Count totals the occupied bins of each input.
func CombinedStats(hists []*Histogram) (s runningstat.Snapshot, e error) {
	for _, h := range hists {
		hs, e := h.Stats()
		if e != nil {
			return runningstat.Snapshot{}, fmt.Errorf("%q: %w", h.variable, e)
		}
		s = s.Add(hs)
	}
	return s, nil
}

// Simulate draws samples using the histogram as a probability density.
// It returns the samples and a histogram of them.
//
// Categorical samples are bin labels drawn with probability proportional to count;
// the sample histogram contains relative frequencies.
// Numeric samples are bin centers located by inverse-CDF lookup; the sample histogram has the same edges.
//
// If rng is nil, a randomly seeded generator is used.
func (h *Histogram) Simulate(size int, rng *rand.Rand) (samples []value.Value, sim *Histogram, e error) {
	if size < 1 {
		return nil, nil, fmt.Errorf("%w: simulation size %d is not positive", ErrValidation, size)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	norm, e := h.ToNormalized()
	if e != nil {
		return nil, nil, e
	}
	bv, e := norm.BinVals(nil, true)
	if e != nil {
		return nil, nil, e
	}
	samples = make([]value.Value, size)

	if h.IsCategorical() {
		dist := distuv.NewCategorical(bv.Counts, rng)
		freq := map[value.Value]float64{}
		for i := range samples {
			samples[i] = bv.Bins[int(dist.Rand())]
			freq[samples[i]]++
		}
		for label := range freq {
			freq[label] /= float64(size)
		}
		sim, e = New(Config{Variable: h.variable}, FromMap{Counts: freq})
		return samples, sim, e
	}

	mids, e := binning.Centers(bv.Bins)
	if e != nil {
		return nil, nil, e
	}
	cdf := floats.CumSum(make([]float64, len(bv.Counts)), bv.Counts)
	counts := make([]float64, len(bv.Counts))
	for i := range samples {
		j := generic.Min(sort.SearchFloat64s(cdf, rng.Float64()), len(cdf)-1)
		samples[i] = mids[j]
		counts[j]++
	}
	sim, e = New(Config{Variable: h.variable}, FromArrays{Counts: counts, LabelsOrEdges: bv.Bins})
	return samples, sim, e
}

// Default CombineOptions values.
const (
	DefaultRelTol   = 1e-6
	DefaultVariable = "x"
)

// ExactRelTol is a CombineOptions.RelTol that requires bin edges to be equal.
const ExactRelTol = -1

// CombineOptions contains Combine parameters.
type CombineOptions struct {
	// Categorical requires exact equality of bin labels.
	// Otherwise, bin edges must match within a tolerance.
	Categorical bool `json:"categorical"`

	// RelTol is the edge tolerance, relative to the reference bin width.
	// Zero means DefaultRelTol. Any negative value, such as ExactRelTol, requires equal edges.
	RelTol float64 `json:"relTol"`

	// Variable is the variable name of the result.
	// Default is DefaultVariable.
	Variable string `json:"variable"`
}

func (opts *CombineOptions) applyDefaults() {
	if opts.RelTol == 0 {
		opts.RelTol = DefaultRelTol
	}
	if opts.Variable == "" {
		opts.Variable = DefaultVariable
	}
}

// referenceWidth returns the bin width, or the narrowest bin if edges are explicit.
func (h *Histogram) referenceWidth(edges []value.Value) (float64, error) {
	if h.bins.HasWidth() {
		return h.bins.Spec().Width, nil
	}
	widths, e := binning.Widths(edges)
	if e != nil {
		return 0, e
	}
	return floats.Min(widths), nil
}

func matchBins(ref, bins []value.Value, exact bool, atol float64) error {
	if len(ref) != len(bins) {
		return fmt.Errorf("%d bins, expected %d", len(bins), len(ref))
	}
	for i, r := range ref {
		if exact {
			if bins[i] != r {
				return fmt.Errorf("bin %d is %q, expected %q", i, bins[i], r)
			}
			continue
		}
		d, e := value.Diff(bins[i], r)
		if e != nil {
			return e
		}
		if !scalar.EqualWithinAbs(d, 0, atol) {
			return fmt.Errorf("bin edge %d is %v, expected %v within %v", i, bins[i], r, atol)
		}
	}
	return nil
}

// Combine sums histograms that share the same bins.
// Histograms are compared with the first one; nothing is combined if any of them differs.
func Combine(hists []*Histogram, opts CombineOptions) (*Histogram, error) {
	opts.applyDefaults()
	if len(hists) == 0 {
		return nil, fmt.Errorf("%w: no input histograms specified", ErrCombination)
	}

	bvs := make([]BinVals, len(hists))
	for i, h := range hists {
		if h.IsCategorical() != opts.Categorical {
			return nil, fmt.Errorf("%w: histogram %d (%q) has categorical=%t", ErrCombination, i, h.variable, h.IsCategorical())
		}
		bv, e := h.BinVals(nil, true)
		if e != nil {
			return nil, fmt.Errorf("%w: histogram %d (%q): %w", ErrCombination, i, h.variable, e)
		}
		bvs[i] = bv
	}

	ref := bvs[0]
	var atol float64
	if !opts.Categorical {
		width, e := hists[0].referenceWidth(ref.Bins)
		if e != nil {
			return nil, fmt.Errorf("%w: %w", ErrCombination, e)
		}
		atol = generic.Max(opts.RelTol, 0) * width
	}

	var errs error
	for i, bv := range bvs[1:] {
		if e := matchBins(ref.Bins, bv.Bins, opts.Categorical, atol); e != nil {
			errs = multierr.Append(errs, fmt.Errorf("histogram %d (%q): %w", i+1, hists[i+1].variable, e))
		}
	}
	if errs != nil {
		logger.Error("histograms with different binnings specified",
			zap.String("variable", opts.Variable),
			zap.Error(errs),
		)
		return nil, fmt.Errorf("%w: histograms with different binnings specified: %w", ErrCombination, errs)
	}

	sum := make([]float64, len(ref.Counts))
	for _, bv := range bvs {
		floats.Add(sum, bv.Counts)
	}
	logger.Debug("combined histograms",
		zap.String("variable", opts.Variable),
		zap.Int("histograms", len(hists)),
	)
	return New(Config{Variable: opts.Variable}, FromArrays{Counts: sum, LabelsOrEdges: ref.Bins})
}
