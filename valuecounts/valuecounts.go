// Package valuecounts provides a sparse n-dimensional count table keyed by value tuples.
//
// A table is built once from grouped observations. It can be projected (marginalized) onto a subset
// or reordering of its dimensions, filtered by per-dimension selections, and pruned of keys whose types
// disagree with the dominant type signature.
package valuecounts

import (
	"fmt"
	"math"
	"slices"

	"github.com/usnistgov/histcount/core/logging"
	"github.com/usnistgov/histcount/value"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

var logger = logging.New("ValueCounts")

// Entry is one cell of a count table.
type Entry struct {
	Key   value.Tuple `json:"key"`
	Count float64     `json:"count"`
}

func compareEntries(a, b Entry) int {
	return value.CompareTuples(a.Key, b.Key)
}

// Config contains ValueCounts construction parameters.
type Config struct {
	// Key names the dimensions of the input entries, in tuple order.
	Key []string `json:"key"`

	// Subkey is the projection target, a subset or reordering of Key.
	// Default is Key.
	Subkey []string `json:"subkey,omitempty"`

	// Selection restricts each named dimension to a set of admissible values.
	// It is applied during the next projection.
	Selection map[string][]value.Value `json:"selection,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Subkey) == 0 {
		cfg.Subkey = cfg.Key
	}
}

func (cfg Config) validate() error {
	if len(cfg.Key) == 0 {
		return fmt.Errorf("%w: key contains no variable names", value.ErrValidation)
	}
	for i, k := range cfg.Key {
		if slices.Contains(cfg.Key[:i], k) {
			return fmt.Errorf("%w: duplicate variable %q in key %v", value.ErrValidation, k, cfg.Key)
		}
	}
	for _, k := range cfg.Subkey {
		if !slices.Contains(cfg.Key, k) {
			return fmt.Errorf("%w: subkey variable %q not in key %v", value.ErrValidation, k, cfg.Key)
		}
	}
	for k := range cfg.Selection {
		if !slices.Contains(cfg.Key, k) {
			return fmt.Errorf("%w: selection variable %q not in key %v", value.ErrValidation, k, cfg.Key)
		}
	}
	return nil
}

type valueSet map[value.Value]struct{}

// ValueCounts is a sparse count table.
// It is not safe for concurrent use.
type ValueCounts struct {
	key    []string
	subkey []string
	sel    map[string]valueSet
	counts map[string]Entry // by Tuple.MapKey

	kind map[string]int // dimension name => position in key
	ktos []int          // subkey position => key position
	stok []int          // key position => subkey position, -1 if absent

	nonone      []Entry
	nononeValid bool
}

// New creates a ValueCounts from grouped observations.
// Entries with the same key are summed.
func New(cfg Config, entries []Entry) (*ValueCounts, error) {
	cfg.applyDefaults()
	if e := cfg.validate(); e != nil {
		return nil, e
	}

	v := &ValueCounts{
		key:    slices.Clone(cfg.Key),
		subkey: slices.Clone(cfg.Subkey),
		counts: make(map[string]Entry, len(entries)),
	}
	if len(cfg.Selection) > 0 {
		v.sel = map[string]valueSet{}
		for k, list := range cfg.Selection {
			set := valueSet{}
			for _, val := range list {
				set[val] = struct{}{}
			}
			v.sel[k] = set
		}
	}

	for _, ent := range entries {
		if len(ent.Key) != len(v.key) {
			return nil, fmt.Errorf("%w: entry key %v does not have %d dimensions", value.ErrValidation, ent.Key, len(v.key))
		}
		if math.IsNaN(ent.Count) || ent.Count < 0 {
			return nil, fmt.Errorf("%w: entry %v has invalid count %v", value.ErrValidation, ent.Key, ent.Count)
		}
		mk := ent.Key.MapKey()
		acc, ok := v.counts[mk]
		if !ok {
			acc.Key = slices.Clone(ent.Key)
		}
		acc.Count += ent.Count
		v.counts[mk] = acc
	}

	v.rebuildIndex()
	return v, nil
}

func (v *ValueCounts) rebuildIndex() {
	v.kind = make(map[string]int, len(v.key))
	for i, k := range v.key {
		v.kind[k] = i
	}
	v.ktos = make([]int, len(v.subkey))
	for i, k := range v.subkey {
		v.ktos[i] = v.kind[k]
	}
	v.stok = make([]int, len(v.key))
	for i, k := range v.key {
		v.stok[i] = slices.Index(v.subkey, k)
	}
}

func (v *ValueCounts) invalidate() {
	v.nonone, v.nononeValid = nil, false
}

func (v *ValueCounts) sortedEntries() (list []Entry) {
	list = make([]Entry, 0, len(v.counts))
	for _, ent := range v.counts {
		list = append(list, ent)
	}
	slices.SortFunc(list, compareEntries)
	return list
}

func (v *ValueCounts) isSelected(t value.Tuple) bool {
	for k, set := range v.sel {
		if _, ok := set[t[v.kind[k]]]; !ok {
			return false
		}
	}
	return true
}

// ProcessCounts projects the table onto the subkey, applying any pending selection.
// Returns true if the table was changed.
//
// Nothing happens if there is no pending selection and the subkey equals the key.
// If acceptEquiv is set, nothing happens either when every key dimension appears in the subkey,
// regardless of order.
func (v *ValueCounts) ProcessCounts(acceptEquiv bool) bool {
	if len(v.sel) == 0 {
		if slices.Equal(v.key, v.subkey) {
			return false
		}
		if acceptEquiv && !slices.ContainsFunc(v.key, func(k string) bool { return !slices.Contains(v.subkey, k) }) {
			return false
		}
	}

	nBefore := len(v.counts)
	projected := map[string]Entry{}
	for _, ent := range v.sortedEntries() {
		if !v.isSelected(ent.Key) {
			continue
		}
		sk := make(value.Tuple, len(v.ktos))
		for i, pos := range v.ktos {
			sk[i] = ent.Key[pos]
		}
		mk := sk.MapKey()
		acc, ok := projected[mk]
		if !ok {
			acc.Key = sk
		}
		acc.Count += ent.Count
		projected[mk] = acc
	}

	logger.Debug("projected counts",
		zap.Strings("from", v.key),
		zap.Strings("to", v.subkey),
		zap.Int("keys-before", nBefore),
		zap.Int("keys-after", len(projected)),
	)
	v.key = slices.Clone(v.subkey)
	v.counts = projected
	v.sel = nil
	v.rebuildIndex()
	v.invalidate()
	return true
}

func (v *ValueCounts) process() {
	v.ProcessCounts(true)
}

// CreateSubCounts returns a new table over a copy of the current counts,
// with a different pending subkey and selection.
func (v *ValueCounts) CreateSubCounts(subkey []string, sel map[string][]value.Value) (*ValueCounts, error) {
	v.process()
	return New(Config{
		Key:       v.key,
		Subkey:    subkey,
		Selection: sel,
	}, v.sortedEntries())
}

// Clone returns an independent copy.
func (v *ValueCounts) Clone() *ValueCounts {
	v.process()
	c, _ := New(Config{Key: v.key, Subkey: v.subkey}, v.sortedEntries())
	return c
}

// Key returns the current dimension names.
func (v *ValueCounts) Key() []string {
	v.process()
	return slices.Clone(v.key)
}

// Subkey returns the projection target.
func (v *ValueCounts) Subkey() []string {
	return slices.Clone(v.subkey)
}

// Counts returns all entries, sorted by key.
func (v *ValueCounts) Counts() []Entry {
	v.process()
	return v.sortedEntries()
}

// NonNoneCounts returns entries whose key has no missing value, sorted by key.
// The result is cached until the table changes; callers must not modify it.
func (v *ValueCounts) NonNoneCounts() []Entry {
	v.process()
	if !v.nononeValid {
		v.nonone = slices.DeleteFunc(v.sortedEntries(), func(ent Entry) bool { return ent.Key.HasNone() })
		v.nononeValid = true
	}
	return v.nonone
}

// Count returns the count of a key expressed in subkey order, or 0 if absent.
func (v *ValueCounts) Count(valueBin value.Tuple) float64 {
	v.process()
	if len(valueBin) != len(v.subkey) {
		return 0
	}
	t := make(value.Tuple, len(v.stok))
	for i, pos := range v.stok {
		if pos < 0 {
			return 0
		}
		t[i] = valueBin[pos]
	}
	return v.counts[t.MapKey()].Count
}

// Values returns the sorted distinct tuples of observed values restricted to some dimensions.
// Default is the subkey.
func (v *ValueCounts) Values(dims ...string) ([]value.Tuple, error) {
	v.process()
	if len(dims) == 0 {
		dims = v.subkey
	}
	positions := make([]int, len(dims))
	for i, k := range dims {
		pos, ok := v.kind[k]
		if !ok {
			return nil, fmt.Errorf("%w: variable %q not in key %v", value.ErrValidation, k, v.key)
		}
		positions[i] = pos
	}

	seen := map[string]bool{}
	var list []value.Tuple
	for _, ent := range v.counts {
		t := make(value.Tuple, len(positions))
		for i, pos := range positions {
			t[i] = ent.Key[pos]
		}
		if mk := t.MapKey(); !seen[mk] {
			seen[mk] = true
			list = append(list, t)
		}
	}
	slices.SortFunc(list, value.CompareTuples)
	return list, nil
}

// NumBins returns the number of entries.
func (v *ValueCounts) NumBins() int {
	v.process()
	return len(v.counts)
}

// NumNonNoneBins returns the number of entries without missing values.
func (v *ValueCounts) NumNonNoneBins() int {
	return len(v.NonNoneCounts())
}

// SumCounts returns the total count.
func (v *ValueCounts) SumCounts() float64 {
	return sumCounts(v.Counts())
}

// SumNonNoneCounts returns the total count of entries without missing values.
func (v *ValueCounts) SumNonNoneCounts() float64 {
	return sumCounts(v.NonNoneCounts())
}

func sumCounts(list []Entry) float64 {
	counts := make([]float64, len(list))
	for i, ent := range list {
		counts[i] = ent.Count
	}
	return floats.Sum(counts)
}
