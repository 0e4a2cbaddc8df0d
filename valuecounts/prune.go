package valuecounts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/usnistgov/histcount/value"
	"github.com/zyedidia/generic/multimap"
	"go.uber.org/zap"
)

type signatureGroup struct {
	sig   value.Signature
	total float64
}

// RemoveKeysOfInconsistentType deletes every entry whose type signature differs from the preferred one.
// If preferred is nil, the signature with the largest total count is kept;
// ties are broken by the lowest signature in Kind order.
// Returns the number of deleted entries.
func (v *ValueCounts) RemoveKeysOfInconsistentType(preferred value.Signature) int {
	v.process()

	keysBySig := multimap.NewMapSlice[string, string]()
	groups := map[string]*signatureGroup{}
	for mk, ent := range v.counts {
		sig := ent.Key.Signature()
		sk := sig.MapKey()
		keysBySig.Put(sk, mk)
		g := groups[sk]
		if g == nil {
			g = &signatureGroup{sig: sig}
			groups[sk] = g
		}
		g.total += ent.Count
	}
	if keysBySig.Dimension() == 0 {
		return 0
	}

	keep := preferred.MapKey()
	if preferred == nil {
		ranked := make([]*signatureGroup, 0, len(groups))
		for _, g := range groups {
			ranked = append(ranked, g)
		}
		slices.SortFunc(ranked, func(a, b *signatureGroup) int {
			if c := cmp.Compare(b.total, a.total); c != 0 {
				return c
			}
			return strings.Compare(a.sig.MapKey(), b.sig.MapKey())
		})
		keep = ranked[0].sig.MapKey()
		preferred = ranked[0].sig
	}

	removed := 0
	keysBySig.EachAssociation(func(sk string, keys []string) {
		if sk == keep {
			return
		}
		for _, mk := range keys {
			delete(v.counts, mk)
		}
		removed += len(keys)
	})
	v.invalidate()

	if removed > 0 {
		logger.Info("removed keys of inconsistent type",
			zap.Strings("key", v.key),
			zap.Int("removed", removed),
			zap.Int("kept", len(v.counts)),
			zap.Stringer("signature", preferred),
		)
	}
	return removed
}

// Less orders tables by dimensionality.
func (v *ValueCounts) Less(o *ValueCounts) bool {
	return len(v.key) < len(o.key)
}

// Equal determines whether two tables have the same dimensionality and the same subkey.
func (v *ValueCounts) Equal(o *ValueCounts) bool {
	return len(v.key) == len(o.key) && slices.Equal(v.subkey, o.subkey)
}

// Compare orders tables by dimensionality, for use with slices.SortFunc.
func Compare(a, b *ValueCounts) int {
	return cmp.Compare(len(a.key), len(b.key))
}
