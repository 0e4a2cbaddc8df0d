package runningstat

import (
	"math"

	"github.com/graphql-go/graphql"
	"github.com/usnistgov/histcount/core/gqlserver"
	"github.com/zyedidia/generic"
)

func combineMinMax(f func(a, b float64) float64, a, b *float64) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return f(*a, *b), true
}

// Snapshot contains a snapshot of RunningStat reading.
type Snapshot struct {
	Count    int      `json:"count" gqldesc:"Number of input values."`
	Weight   float64  `json:"weight" gqldesc:"Total weight of input values."`
	Mean     float64  `json:"mean" gqldesc:"Weighted mean. Valid if weight>0."`
	Variance float64  `json:"variance" gqldesc:"Weighted sample variance. Valid if weight>1."`
	Stdev    float64  `json:"stdev" gqldesc:"Weighted sample standard deviation. Valid if weight>1."`
	M1       float64  `json:"m1"`
	M2       float64  `json:"m2"`
	Min      *float64 `json:"min" gqldesc:"Minimum value. Valid if count>0."`
	Max      *float64 `json:"max" gqldesc:"Maximum value. Valid if count>0."`
}

// Add combines stats with another instance.
func (s Snapshot) Add(o Snapshot) Snapshot {
	if s.Count == 0 {
		return o
	} else if o.Count == 0 {
		return s
	}
	i := s.Count + o.Count
	w := s.Weight + o.Weight
	delta := o.M1 - s.M1
	delta2 := delta * delta
	m1 := (s.Weight*s.M1 + o.Weight*o.M1) / w
	m2 := s.M2 + o.M2 + delta2*s.Weight*o.Weight/w
	min, hasMin := combineMinMax(generic.Min[float64], s.Min, o.Min)
	max, hasMax := combineMinMax(generic.Max[float64], s.Max, o.Max)
	return newSnapshot(i, w, m1, m2, hasMin && hasMax, min, max)
}

func newSnapshot(i int, w, m1, m2 float64, hasMinMax bool, min, max float64) (s Snapshot) {
	s.Count, s.Weight = i, w
	s.M1, s.M2 = m1, m2
	if w > 0 {
		s.Mean = m1
	}
	if w > 1 {
		s.Variance = m2 / (w - 1)
		s.Stdev = math.Sqrt(s.Variance)
	}
	if i > 0 && hasMinMax {
		s.Min, s.Max = &min, &max
	}
	return
}

// GqlSnapshotType is the GraphQL type for Snapshot.
var GqlSnapshotType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "RunningStatSnapshot",
	Fields: gqlserver.BindFields[Snapshot](nil),
})
