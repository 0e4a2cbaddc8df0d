package histogram

import (
	"fmt"
	"slices"

	"github.com/usnistgov/histcount/value"
	"github.com/usnistgov/histcount/valuecounts"
)

// Input is a source of histogram counts.
// It is one of FromValueCounts, FromMap, FromArrays.
type Input interface {
	resolve(variable string) (source, error)
}

type source struct {
	counts *valuecounts.ValueCounts
	edges  []value.Value
}

// FromValueCounts takes counts from the projection of a count table onto the histogram variable.
// The table is not modified.
type FromValueCounts struct {
	Counts *valuecounts.ValueCounts
}

func (in FromValueCounts) resolve(variable string) (src source, e error) {
	if in.Counts == nil {
		return src, fmt.Errorf("%w: no value counts", ErrValidation)
	}
	if key := in.Counts.Key(); !slices.Contains(key, variable) {
		return src, fmt.Errorf("%w: variable %q not in value counts with variables %v", ErrValidation, variable, key)
	}
	src.counts, e = in.Counts.CreateSubCounts([]string{variable}, nil)
	return src, e
}

// FromMap takes counts from a mapping of bin label to count.
type FromMap struct {
	Counts map[value.Value]float64
}

func (in FromMap) resolve(variable string) (src source, e error) {
	entries := make([]valuecounts.Entry, 0, len(in.Counts))
	for label, count := range in.Counts {
		entries = append(entries, valuecounts.Entry{Key: value.T(label), Count: count})
	}
	src.counts, e = valuecounts.New(valuecounts.Config{Key: []string{variable}}, entries)
	return src, e
}

// FromArrays takes counts from paired arrays.
//
// If LabelsOrEdges has the same length as Counts, it contains bin labels.
// If it has one more element, it contains bin edges: they replace any configured bin specification,
// and bins are labeled 0..N-1.
type FromArrays struct {
	Counts        []float64
	LabelsOrEdges []value.Value
}

func (in FromArrays) resolve(variable string) (src source, e error) {
	labels := in.LabelsOrEdges
	switch len(in.LabelsOrEdges) {
	case len(in.Counts):
	case len(in.Counts) + 1:
		src.edges = slices.Clone(in.LabelsOrEdges)
		labels = make([]value.Value, len(in.Counts))
		for i := range labels {
			labels[i] = value.Int(i)
		}
	default:
		return src, fmt.Errorf("%w: numbers of specified variable values (%d) and value counts (%d) do not match",
			ErrValidation, len(in.LabelsOrEdges), len(in.Counts))
	}

	entries := make([]valuecounts.Entry, len(in.Counts))
	for i, count := range in.Counts {
		entries[i] = valuecounts.Entry{Key: value.T(labels[i]), Count: count}
	}
	src.counts, e = valuecounts.New(valuecounts.Config{Key: []string{variable}}, entries)
	return src, e
}

// BinVals is an aligned pair of bin counts and bin labels or edges.
// With labels, len(Bins) == len(Counts); with edges, len(Bins) == len(Counts)+1.
type BinVals struct {
	Counts []float64     `json:"counts"`
	Bins   []value.Value `json:"bins"`
}

// FromBinVals converts BinVals back to histogram input.
func FromBinVals(bv BinVals) FromArrays {
	return FromArrays{Counts: bv.Counts, LabelsOrEdges: bv.Bins}
}
