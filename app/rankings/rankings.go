// Package rankings merges curated draft rankings from several sources into
// a consensus ranking.
package rankings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// Columns added by Aggregate.
const (
	AverageColumn = "average_ranking"
	HighestColumn = "highest_ranking"
	LowestColumn  = "lowest_ranking"
)

// ErrMissingHeader indicates that a ranking file lacks the Player or Rank column.
var ErrMissingHeader = errors.New("missing header")

// Source is a single curated ranking.
type Source struct {
	Name    string
	Players []string // in file order
	Ranks   map[string]float64
}

// Load reads a ranking CSV with a header row containing "Player" and "Rank"
// columns, matched case-insensitively. Rows with an unparsable rank are skipped.
func Load(name string, r io.Reader) (Source, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	hdr, err := cr.Read()
	if err != nil {
		return Source{}, fmt.Errorf("read header: %w", err)
	}
	idx := func(name string) int {
		for i, h := range hdr {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	iPlayer, iRank := idx("player"), idx("rank")
	if iPlayer < 0 || iRank < 0 {
		return Source{}, fmt.Errorf("%s needs Player and Rank: %w", name, ErrMissingHeader)
	}

	src := Source{Name: name, Ranks: make(map[string]float64)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Source{}, fmt.Errorf("read %s: %w", name, err)
		}
		if iPlayer >= len(rec) || iRank >= len(rec) {
			continue
		}

		player := strings.TrimSpace(rec[iPlayer])
		rank, err := strconv.ParseFloat(strings.TrimSpace(rec[iRank]), 64)
		if player == "" || err != nil {
			continue
		}
		if _, dup := src.Ranks[player]; !dup {
			src.Players = append(src.Players, player)
		}
		src.Ranks[player] = rank
	}
	return src, nil
}

// LoadFile opens path and calls Load.
func LoadFile(name, path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open ranking %s: %w", name, err)
	}
	defer f.Close()
	return Load(name, f)
}

// Aggregate builds a table with one rank column per source plus the average,
// highest (best) and lowest (worst) rank of every player, sorted by average.
// A player missing from any source has no lowest rank.
func Aggregate(sources []Source) (*stats.Table, error) {
	var players []string
	seen := map[string]bool{}
	for _, src := range sources {
		for _, p := range src.Players {
			if !seen[p] {
				seen[p] = true
				players = append(players, p)
			}
		}
	}

	t := stats.NewTable(players)
	avg := make([]stats.Value, len(players))
	high := make([]stats.Value, len(players))
	low := make([]stats.Value, len(players))

	for i, p := range players {
		var sum float64
		var n int
		best, worst := math.Inf(1), math.Inf(-1)
		missing := false
		for _, src := range sources {
			r, ok := src.Ranks[p]
			if !ok {
				missing = true
				continue
			}
			sum += r
			n++
			best, worst = math.Min(best, r), math.Max(worst, r)
		}

		avg[i] = stats.FloatValue(sum / float64(n))
		high[i] = stats.FloatValue(best)
		low[i] = stats.FloatValue(worst)
		if missing {
			low[i] = stats.FloatValue(math.NaN())
		}
	}

	for _, src := range sources {
		vals := make([]stats.Value, len(players))
		for i, p := range players {
			r, ok := src.Ranks[p]
			if !ok {
				r = math.NaN()
			}
			vals[i] = stats.FloatValue(r)
		}
		if err := t.AddColumn(src.Name, stats.Float, vals); err != nil {
			return nil, err
		}
	}
	_ = t.AddColumn(AverageColumn, stats.Float, avg)
	_ = t.AddColumn(HighestColumn, stats.Float, high)
	_ = t.AddColumn(LowestColumn, stats.Float, low)

	return t.SortBy(AverageColumn, false)
}
