package binning

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/usnistgov/histcount/value"
)

// Spec is a bin specification.
// Exactly one of Width or Edges must be set.
//
// With Width, bin index is floor((value-Offset)/Width).
// For temporal domains, Offset is a temporal value and Width is expressed in nanoseconds.
// An unset Offset means numeric zero.
//
// With Edges, bin i spans [Edges[i], Edges[i+1]).
type Spec struct {
	Width  float64       `json:"width,omitempty"`
	Offset value.Value   `json:"offset"`
	Edges  []value.Value `json:"edges,omitempty"`
}

// Uniform returns a numeric equal-width bin specification.
func Uniform(width, offset float64) Spec {
	return Spec{Width: width, Offset: value.Num(offset)}
}

// Temporal returns an equal-width bin specification over timestamps.
func Temporal(width time.Duration, offset time.Time) Spec {
	return Spec{Width: float64(width), Offset: value.Time(offset)}
}

// EdgeList returns an irregular-edge bin specification.
func EdgeList(edges ...value.Value) Spec {
	return Spec{Edges: edges}
}

// IsZero determines whether neither width nor edges are specified.
func (spec Spec) IsZero() bool {
	return spec.Width == 0 && len(spec.Edges) == 0
}

// HasWidth determines whether this is an equal-width specification.
func (spec Spec) HasWidth() bool {
	return spec.Width != 0
}

// HasEdges determines whether this is an irregular-edge specification.
func (spec Spec) HasEdges() bool {
	return len(spec.Edges) > 0
}

// Clone returns a deep copy.
func (spec Spec) Clone() Spec {
	spec.Edges = slices.Clone(spec.Edges)
	return spec
}

// Validate checks the bin specification.
func (spec Spec) Validate() error {
	switch {
	case spec.IsZero():
		return fmt.Errorf("%w: bin specification has neither width nor edges", value.ErrConfiguration)
	case spec.HasWidth() && spec.HasEdges():
		return fmt.Errorf("%w: both bin edges and bin width specified", value.ErrConfiguration)
	case spec.HasWidth():
		if spec.Width < 0 || math.IsNaN(spec.Width) || math.IsInf(spec.Width, 0) {
			return fmt.Errorf("%w: bin width %v is not positive", value.ErrConfiguration, spec.Width)
		}
		if k := spec.Offset.Kind(); k != value.KindNone && !k.IsOrdered() {
			return fmt.Errorf("%w: bin offset %q is %s", value.ErrConfiguration, spec.Offset, k)
		}
		return nil
	}
	return ValidateEdges(spec.Edges)
}

// ValidateEdges checks that edges has at least two elements of one ordered kind, strictly increasing.
func ValidateEdges(edges []value.Value) error {
	if len(edges) < 2 {
		return fmt.Errorf("%w: need at least two bin edges, got %d", value.ErrValidation, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		c, e := value.CompareOrdered(edges[i-1], edges[i])
		if e != nil {
			return fmt.Errorf("non-numeric values found in bin edges %v: %w", edges, e)
		}
		if c >= 0 {
			return fmt.Errorf("%w: values of bin edges are not increasing: %v", value.ErrValidation, edges)
		}
	}
	return nil
}
