package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/histcount/core/gqlserver"
	_ "github.com/usnistgov/histcount/core/logging/logginggql"
	"github.com/usnistgov/histcount/core/runningstat"
	"github.com/usnistgov/histcount/core/yamlflag"
	"github.com/usnistgov/histcount/histogram"
	"github.com/usnistgov/histcount/value"
)

// showTable writes bin values as a table.
func showTable(w io.Writer, h *histogram.Histogram, rng []value.Value, combine bool) error {
	bv, e := h.BinVals(rng, combine)
	if e != nil {
		return e
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetBorder(true)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	if h.IsCategorical() {
		tbl.SetHeader([]string{h.Variable(), "Count"})
		for i, label := range bv.Bins {
			tbl.Append([]string{label.String(), formatCount(bv.Counts[i])})
		}
	} else {
		tbl.SetHeader([]string{h.Variable() + " From", h.Variable() + " To", "Count"})
		for i, count := range bv.Counts {
			tbl.Append([]string{bv.Bins[i].String(), bv.Bins[i+1].String(), formatCount(count)})
		}
	}

	var sum float64
	for _, count := range bv.Counts {
		sum += count
	}
	if h.IsCategorical() {
		tbl.SetFooter([]string{"Total", formatCount(sum)})
	} else {
		tbl.SetFooter([]string{"", "Total", formatCount(sum)})
	}
	tbl.Render()
	return nil
}

func formatCount(count float64) string {
	return strconv.FormatFloat(count, 'g', -1, 64)
}

// simulation is the output of the simulate command.
type simulation struct {
	Stats     *runningstat.Snapshot `json:"stats,omitempty"`
	Histogram document              `json:"histogram"`
}

func simulate(h *histogram.Histogram, size int, seed uint64) (sim simulation, e error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	samples, simHist, e := h.Simulate(size, rng)
	if e != nil {
		return sim, e
	}
	if sim.Histogram, e = documentOf(simHist); e != nil {
		return sim, e
	}

	if h.IsCategorical() {
		return sim, nil
	}
	var rs runningstat.RunningStat
	for _, sample := range samples {
		x, ok := sample.Float()
		if t, isTime := sample.Time(); isTime {
			x, ok = float64(t.UnixNano()), true
		}
		if ok {
			rs.Push(x)
		}
	}
	stats := rs.Read()
	sim.Stats = &stats
	return sim, nil
}

// combination is the output of the combine command with --stats.
type combination struct {
	Stats     *runningstat.Snapshot `json:"stats,omitempty"`
	Histogram document              `json:"histogram"`
}

func combine(hists []*histogram.Histogram, opts histogram.CombineOptions, withStats bool) (c combination, e error) {
	sum, e := histogram.Combine(hists, opts)
	if e != nil {
		return c, e
	}
	if c.Histogram, e = documentOf(sum); e != nil {
		return c, e
	}

	if !withStats || sum.IsCategorical() {
		return c, nil
	}
	stats, e := histogram.CombinedStats(hists)
	if e != nil {
		return c, e
	}
	c.Stats = &stats
	return c, nil
}

func init() {
	var rng []value.Value
	var noCombine bool
	defineStdinCommand(stdinCommand{
		Name:  "show",
		Usage: "Print bin values table",
		Flags: []cli.Flag{
			&cli.GenericFlag{
				Name:  "range",
				Usage: "variable range `[min, max]` or categorical labels, in YAML",
				Value: yamlflag.New(&rng),
			},
			&cli.BoolFlag{
				Name:        "no-combine",
				Usage:       "replace categorical labels with --range instead of merging",
				Destination: &noCombine,
			},
		},
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			return showTable(c.App.Writer, hists[0], rng, !noCombine)
		},
	})

	defineStdinCommand(stdinCommand{
		Name:  "normalize",
		Usage: "Normalize counts to sum to 1",
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			norm, e := hists[0].ToNormalized()
			if e != nil {
				return e
			}
			doc, e := documentOf(norm)
			if e != nil {
				return e
			}
			return printJSON(c.App.Writer, doc)
		},
	})

	var size int
	var seed uint64
	defineStdinCommand(stdinCommand{
		Name:  "simulate",
		Usage: "Draw samples from the histogram",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "size",
				Usage:       "number of samples",
				Value:       1000,
				Destination: &size,
			},
			&cli.Uint64Flag{
				Name:        "seed",
				Usage:       "random seed",
				Value:       1,
				Destination: &seed,
			},
		},
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			sim, e := simulate(hists[0], size, seed)
			if e != nil {
				return e
			}
			return printJSON(c.App.Writer, sim)
		},
	})

	defineStdinCommand(stdinCommand{
		Name:  "surface",
		Usage: "Print sum of count times bin width",
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			surface, e := hists[0].Surface()
			if e != nil {
				return e
			}
			_, e = fmt.Fprintln(c.App.Writer, surface)
			return e
		},
	})

	var combineOpts histogram.CombineOptions
	var combineStats bool
	defineStdinCommand(stdinCommand{
		Name:     "combine",
		Usage:    "Sum histograms with identical bins",
		Multiple: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "categorical",
				Usage:       "compare bin labels exactly",
				Destination: &combineOpts.Categorical,
			},
			&cli.Float64Flag{
				Name:        "rel-tol",
				Usage:       "bin edge tolerance relative to bin width, negative requires equal edges",
				Value:       histogram.DefaultRelTol,
				Destination: &combineOpts.RelTol,
			},
			&cli.StringFlag{
				Name:        "variable",
				Usage:       "variable name of the sum",
				Value:       histogram.DefaultVariable,
				Destination: &combineOpts.Variable,
			},
			&cli.BoolFlag{
				Name:        "stats",
				Usage:       "also print weighted statistics merged from each input",
				Destination: &combineStats,
			},
		},
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			comb, e := combine(hists, combineOpts, combineStats)
			if e != nil {
				return e
			}
			if !combineStats {
				return printJSON(c.App.Writer, comb.Histogram)
			}
			return printJSON(c.App.Writer, comb)
		},
	})

	var query string
	vars := map[string]any{}
	defineStdinCommand(stdinCommand{
		Name:  "query",
		Usage: "Run GraphQL query against the histogram",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "q",
				Usage:       "GraphQL `query`",
				Destination: &query,
				Required:    true,
			},
			&cli.GenericFlag{
				Name:  "vars",
				Usage: "query variables in `YAML`",
				Value: yamlflag.New(&vars),
			},
		},
		Action: func(c *cli.Context, hists []*histogram.Histogram) error {
			if e := gqlserver.Prepare(); e != nil {
				return e
			}
			return printJSON(c.App.Writer, gqlserver.Do(c.Context, query, vars, hists[0]))
		},
	})
}
