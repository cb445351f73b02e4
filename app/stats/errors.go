package stats

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingData indicates that a season lacks basic or advanced stats.
	ErrMissingData = errors.New("missing data")
	// ErrMissingPriorSeason indicates that a projection has no previous season to start from.
	ErrMissingPriorSeason = errors.New("missing prior season")
	// ErrMissingColumn indicates that a table lacks a column required by the operation.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNotNumeric indicates that a numeric operation was requested on a string column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnknownPosition indicates that no positional adjustment exists for a row's position.
	ErrUnknownPosition = errors.New("unknown position")
	// ErrWeightsLength indicates that a positional weight list does not match the categories.
	ErrWeightsLength = errors.New("weights length mismatch")
	// ErrZeroGamesPlayed indicates a row without games played in a per-game normalization.
	ErrZeroGamesPlayed = errors.New("zero games played")
	// ErrNoHistory indicates a projection over an empty history.
	ErrNoHistory = errors.New("no history")
	// ErrZeroWeights indicates that projection weights sum to zero.
	ErrZeroWeights = errors.New("projection weights sum to zero")
	// ErrProgressionRange indicates that the experience table is too short for a career.
	ErrProgressionRange = errors.New("career length exceeds progression table")
	// ErrTokenCount indicates an input line with an unexpected number of columns.
	ErrTokenCount = errors.New("unexpected token count")
)

// Diagnostic is a non-fatal problem found while processing a player season.
type Diagnostic struct {
	Player string
	Season int
	Line   int // input line, zero when not read from a file
	Err    error
}

// String returns a human-readable description of the diagnostic.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", d.Line)
	}
	if d.Player != "" {
		fmt.Fprintf(&sb, "%s ", d.Player)
	}
	if d.Season != 0 {
		fmt.Fprintf(&sb, "(%d) ", d.Season)
	}
	sb.WriteString(d.Err.Error())
	return sb.String()
}

// Diagnostics is a batch of non-fatal problems.
type Diagnostics []Diagnostic

// Has reports whether any diagnostic matches the target error.
func (ds Diagnostics) Has(target error) bool {
	for _, d := range ds {
		if errors.Is(d.Err, target) {
			return true
		}
	}
	return false
}

func (ds *Diagnostics) add(player string, season int, err error) {
	*ds = append(*ds, Diagnostic{Player: player, Season: season, Err: err})
}

func (ds *Diagnostics) addFields(player string, season, line int, errs []FieldError) {
	for _, fe := range errs {
		*ds = append(*ds, Diagnostic{Player: player, Season: season, Line: line, Err: fe})
	}
}
