package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/graham-riches/nhl-stats-analysis/app/export"
	"github.com/graham-riches/nhl-stats-analysis/app/rankings"
	"github.com/graham-riches/nhl-stats-analysis/app/report"
)

// Consensus is a command to merge curated rankings into one.
type Consensus struct {
	Sources []string `long:"source" env:"SOURCES" env-delim:","  description:"ranking source as name=path" required:"true"`
	Out     string   `long:"out"    env:"CONSENSUS_OUT" default:"data/curated_rankings/aggregate_rankings.csv" description:"csv output file"`
	Top     int      `long:"top"    env:"TOP" default:"50" description:"rows to print"`

	CommonOpts
}

// Execute runs the command.
func (c Consensus) Execute([]string) error {
	var sources []rankings.Source
	var names []string
	for _, s := range c.Sources {
		name, path, ok := strings.Cut(s, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("bad source %q, want name=path", s)
		}

		src, err := rankings.LoadFile(name, path)
		if err != nil {
			return fmt.Errorf("load source: %w", err)
		}
		log.Printf("[INFO] loaded %d players from %s", len(src.Players), name)

		sources = append(sources, src)
		names = append(names, name)
	}

	tbl, err := rankings.Aggregate(sources)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	if err := export.WriteCSVFile(c.Out, tbl); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Printf("[INFO] saved consensus of %d players to %s", tbl.Len(), c.Out)

	columns := append(names, rankings.AverageColumn, rankings.HighestColumn, rankings.LowestColumn)
	out, err := report.Render(tbl, columns, c.Top)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Printf("\nconsensus rankings\n%s\n", out)

	return nil
}
