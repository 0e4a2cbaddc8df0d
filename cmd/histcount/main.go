// Command histcount builds histograms from counts documents.
package main

import (
	"log"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/histcount/binning"
	"github.com/usnistgov/histcount/core/version"
	"github.com/usnistgov/histcount/core/yamlflag"
)

var binningOverride binning.Spec

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Build histograms from counts documents.",
	Flags: []cli.Flag{
		&cli.GenericFlag{
			Name:  "binning",
			Usage: "bin specification `YAML` that overrides the document, such as '{width: 1, offset: 0}' or '@file.yaml'",
			Value: yamlflag.New(&binningOverride),
		},
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.Run(os.Args)
	if e != nil {
		log.Fatal(e)
	}
}
