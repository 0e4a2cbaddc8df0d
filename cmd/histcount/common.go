package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/histogram"
	"github.com/usnistgov/histcount/value"
	"github.com/usnistgov/histcount/valuecounts"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed document.schema.json
var documentSchema []byte

// document is a counts document read from stdin.
//
// It either has counts and bins, where bins are labels or edges,
// or it has entries of a count table whose dimensions are listed in dims.
type document struct {
	Variable string              `json:"variable"`
	Counts   []float64           `json:"counts,omitempty"`
	Bins     []value.Value       `json:"bins,omitempty"`
	Dims     []string            `json:"dims,omitempty"`
	Entries  []valuecounts.Entry `json:"entries,omitempty"`
	Binning  *binning.Spec       `json:"binning,omitempty"`
}

// Histogram constructs a histogram of the document variable.
// A non-zero override replaces the document binning.
func (doc document) Histogram(override binning.Spec) (*histogram.Histogram, error) {
	cfg := histogram.Config{Variable: doc.Variable}
	if doc.Binning != nil {
		cfg.Binning = *doc.Binning
	}
	if !override.IsZero() {
		cfg.Binning = override
	}

	if len(doc.Entries) == 0 {
		return histogram.New(cfg, histogram.FromArrays{Counts: doc.Counts, LabelsOrEdges: doc.Bins})
	}

	dims := doc.Dims
	if len(dims) == 0 {
		dims = []string{doc.Variable}
	}
	vc, e := valuecounts.New(valuecounts.Config{Key: dims}, doc.Entries)
	if e != nil {
		return nil, e
	}
	return histogram.New(cfg, histogram.FromValueCounts{Counts: vc})
}

func documentOf(h *histogram.Histogram) (doc document, e error) {
	bv, e := h.BinVals(nil, true)
	if e != nil {
		return doc, e
	}
	return document{
		Variable: h.Variable(),
		Counts:   bv.Counts,
		Bins:     bv.Bins,
	}, nil
}

type schemaError struct {
	*gojsonschema.Result
}

func (e schemaError) Error() string {
	var b strings.Builder
	fmt.Fprintln(&b, "JSON document failed schema validation:")
	for _, desc := range e.Result.Errors() {
		fmt.Fprintln(&b, "-", desc)
	}
	return b.String()
}

func checkSchema(input gojsonschema.JSONLoader) error {
	result, e := gojsonschema.Validate(gojsonschema.NewBytesLoader(documentSchema), input)
	if e != nil {
		return fmt.Errorf("JSON schema validator error: %w", e)
	}

	if !result.Valid() {
		return schemaError{Result: result}
	}
	return nil
}

// readDocuments parses a counts document or a JSON array of counts documents.
func readDocuments(r io.Reader, skipSchema bool) (docs []document, e error) {
	input, e := io.ReadAll(r)
	if e != nil {
		return nil, e
	}
	input = bytes.TrimSpace(input)
	if len(input) == 0 {
		return nil, errors.New("empty input")
	}

	var items []json.RawMessage
	if input[0] == '[' {
		if e = json.Unmarshal(input, &items); e != nil {
			return nil, e
		}
		if len(items) == 0 {
			return nil, errors.New("empty document list")
		}
	} else {
		items = []json.RawMessage{input}
	}

	for i, item := range items {
		if !skipSchema {
			if e := checkSchema(gojsonschema.NewBytesLoader(item)); e != nil {
				return nil, fmt.Errorf("document %d: %w", i, e)
			}
		}

		var doc document
		decoder := json.NewDecoder(bytes.NewReader(item))
		decoder.DisallowUnknownFields()
		if e := decoder.Decode(&doc); e != nil {
			return nil, fmt.Errorf("document %d: %w", i, e)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type stdinCommand struct {
	Name     string
	Usage    string
	Multiple bool
	Flags    []cli.Flag
	Action   func(c *cli.Context, hists []*histogram.Histogram) error
}

func defineStdinCommand(opts stdinCommand) {
	var skipSchema bool
	defineCommand(&cli.Command{
		Name:  opts.Name,
		Usage: opts.Usage + " (pass counts document via stdin)",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "skip-schema",
				Usage:       "do not check JSON schema",
				Value:       false,
				Destination: &skipSchema,
			},
		}, opts.Flags...),
		Action: func(c *cli.Context) error {
			hasInput := make(chan bool, 1)
			go func() {
				delay := time.NewTimer(2 * time.Second)
				defer delay.Stop()
				select {
				case <-hasInput:
				case <-delay.C:
					fmt.Fprintln(os.Stderr, "Hint: pass counts document via stdin")
				}
			}()

			docs, e := readDocuments(os.Stdin, skipSchema)
			hasInput <- true
			if e != nil {
				return e
			}
			if !opts.Multiple && len(docs) != 1 {
				return fmt.Errorf("expecting one document, got %d", len(docs))
			}

			hists := make([]*histogram.Histogram, len(docs))
			for i, doc := range docs {
				if hists[i], e = doc.Histogram(binningOverride); e != nil {
					return fmt.Errorf("document %d: %w", i, e)
				}
			}
			return opts.Action(c, hists)
		},
	})
}

func printJSON(w io.Writer, value any) error {
	j, e := json.Marshal(value)
	if e != nil {
		return e
	}
	_, e = fmt.Fprintln(w, string(j))
	return e
}
