package histogram

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/gqlserver"
	"github.com/usnistgov/histcount/core/runningstat"
	"github.com/usnistgov/histcount/value"
)

// Summary is a read-only view of a Histogram.
type Summary struct {
	Variable    string        `json:"variable" gqldesc:"Variable name."`
	Categorical bool          `json:"categorical" gqldesc:"Whether bins are categorical."`
	Binning     binning.Spec  `json:"binning" gqldesc:"Bin specification."`
	NumBins     int           `json:"numBins" gqldesc:"Number of bins."`
	SumCounts   float64       `json:"sumCounts" gqldesc:"Total count."`
	Counts      []float64     `json:"counts" gqldesc:"Bin counts."`
	Bins        []value.Value `json:"bins" gqldesc:"Bin labels or edges."`
}

// Summary returns a read-only view.
func (h *Histogram) Summary() Summary {
	bv, _ := h.BinVals(nil, true) // cannot fail without range
	return Summary{
		Variable:    h.variable,
		Categorical: h.IsCategorical(),
		Binning:     h.bins.Spec(),
		NumBins:     h.NumBins(),
		SumCounts:   h.vc.SumNonNoneCounts(),
		Counts:      bv.Counts,
		Bins:        bv.Bins,
	}
}

// GqlSummaryType is the GraphQL type for Summary.
var GqlSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "HistogramSummary",
	Fields: gqlserver.BindFields[Summary](nil),
})

// GqlBinValsType is the GraphQL type for BinVals.
var GqlBinValsType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "HistogramBinVals",
	Fields: gqlserver.BindFields[BinVals](nil),
})

type binValsArgs struct {
	Range   []value.Value `json:"range,omitempty" gqldesc:"Variable range [min, max), or categorical bin labels."`
	Combine bool          `json:"combine" gqldesc:"Merge categorical labels in range with existing labels." gqldflt:"true"`
}

var gqlBinValsArgsType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "HistogramBinValsOptions",
	Fields: gqlserver.BindInputFields[binValsArgs](nil),
})

type countArgs struct {
	Value value.Value `json:"value" gqldesc:"Variable value, or bin label of a categorical histogram."`
}

var errNoHistogram = errors.New("no histogram loaded")

func rootHistogram(p graphql.ResolveParams) (*Histogram, error) {
	h, ok := gqlserver.RootValue(p).(*Histogram)
	if !ok || h == nil {
		return nil, errNoHistogram
	}
	return h, nil
}

func init() {
	gqlserver.AddQuery(&graphql.Field{
		Name:        "histogram",
		Description: "Loaded histogram.",
		Type:        graphql.NewNonNull(GqlSummaryType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			h, e := rootHistogram(p)
			if e != nil {
				return nil, e
			}
			return h.Summary(), nil
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "histogramStats",
		Description: "Weighted statistics of bin centers.",
		Type:        runningstat.GqlSnapshotType,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			h, e := rootHistogram(p)
			if e != nil {
				return nil, e
			}
			return h.Stats()
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "histogramSurface",
		Description: "Sum of count times bin width.",
		Type:        graphql.Float,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			h, e := rootHistogram(p)
			if e != nil {
				return nil, e
			}
			return h.Surface()
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "histogramCount",
		Description: "Count of the bin that a value falls in.",
		Args:        gqlserver.BindArguments[countArgs](nil),
		Type:        gqlserver.NonNullFloat,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			h, e := rootHistogram(p)
			if e != nil {
				return nil, e
			}
			var args countArgs
			if e := gqlserver.DecodeJSON(p.Args, &args); e != nil {
				return nil, e
			}
			if h.IsCategorical() {
				return h.BinCount(args.Value), nil
			}
			return h.HistVal(args.Value), nil
		},
	})

	gqlserver.AddQuery(&graphql.Field{
		Name:        "histogramBinVals",
		Description: "Bin counts aligned with bin labels or edges.",
		Args: graphql.FieldConfigArgument{
			"options": &graphql.ArgumentConfig{
				Description: "Bin selection.",
				Type:        gqlBinValsArgsType,
			},
		},
		Type: graphql.NewNonNull(GqlBinValsType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			h, e := rootHistogram(p)
			if e != nil {
				return nil, e
			}
			args := binValsArgs{Combine: true}
			if e := gqlserver.DecodeJSON(p.Args["options"], &args); e != nil {
				return nil, e
			}
			return h.BinVals(args.Range, args.Combine)
		},
	})
}
