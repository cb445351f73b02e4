package stats

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Well-known columns of ranking tables.
const (
	GamesPlayedColumn    = "games_played"
	PositionColumn       = "position"
	FantasyPointsColumn  = "fantasy_points"
	FantasyPointsZColumn = "fantasy_points_z"
)

// ZColumn returns the name of the z-score column of a category.
func ZColumn(category string) string { return category + "_z" }

// AdjColumn returns the name of the positionally adjusted column of a category.
func AdjColumn(category string) string { return category + "_adj" }

// KeepCategories returns a table with exactly the given columns.
func KeepCategories(t *Table, categories []string) (*Table, error) {
	return t.Select(categories)
}

// FilterByCategory returns the rows whose category value satisfies keep.
func FilterByCategory(t *Table, category string, keep func(Value) bool) (*Table, error) {
	return t.Filter(category, keep)
}

// CalculateZScores appends a <category>_z column for every category:
//
//	z = ((x - mean(x)) / games_played) / std(x)
//
// where mean and std are taken over the whole column and std is the
// population standard deviation. A column without spread scores zero.
func CalculateZScores(t *Table, categories []string) (*Table, error) {
	gp, err := t.Floats(GamesPlayedColumn)
	if err != nil {
		return nil, fmt.Errorf("z-score: %w", err)
	}
	for i, g := range gp {
		if g == 0 {
			return nil, fmt.Errorf("z-score %s: %w", t.index[i], ErrZeroGamesPlayed)
		}
	}

	scores := make([][]Value, len(categories))

	var ewg errgroup.Group
	ewg.SetLimit(runtime.GOMAXPROCS(0))
	for idx, cat := range categories {
		idx, cat := idx, cat
		ewg.Go(func() error {
			xs, err := t.Floats(cat)
			if err != nil {
				return fmt.Errorf("z-score: %w", err)
			}
			scores[idx] = zScores(xs, gp)
			return nil
		})
	}
	if err := ewg.Wait(); err != nil {
		return nil, err
	}

	res := t.take(allRows(t.Len()))
	for idx, cat := range categories {
		res.setColumn(ZColumn(cat), Float, scores[idx])
	}
	return res, nil
}

func zScores(xs, gp []float64) []Value {
	res := make([]Value, len(xs))
	if len(xs) == 0 {
		return res
	}

	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	std := math.Sqrt(variance / float64(len(xs)))

	for i, x := range xs {
		if std == 0 {
			res[i] = FloatValue(0)
			continue
		}
		res[i] = FloatValue(((x - mean) / gp[i]) / std)
	}
	return res
}

// ApplyPositionalAdjustment appends a <category>_adj column for every
// category, scaling the category by the weight of the row's position.
// Every position in the table must be present in adjustments.
func ApplyPositionalAdjustment(t *Table, categories []string, adjustments map[string][]float64) (*Table, error) {
	positions, err := t.column(PositionColumn)
	if err != nil {
		return nil, fmt.Errorf("positional adjustment: %w", err)
	}

	cols := make([][]float64, len(categories))
	for i, cat := range categories {
		if cols[i], err = t.Floats(cat); err != nil {
			return nil, fmt.Errorf("positional adjustment: %w", err)
		}
	}

	adjusted := make([][]Value, len(categories))
	for i := range adjusted {
		adjusted[i] = make([]Value, t.Len())
	}

	for row, pos := range positions {
		weights, ok := adjustments[pos.Str()]
		if !ok {
			return nil, fmt.Errorf("%s plays %q: %w", t.index[row], pos.Str(), ErrUnknownPosition)
		}
		if len(weights) != len(categories) {
			return nil, fmt.Errorf("position %q has %d weights for %d categories: %w",
				pos.Str(), len(weights), len(categories), ErrWeightsLength)
		}
		for i := range categories {
			adjusted[i][row] = FloatValue(cols[i][row] * weights[i])
		}
	}

	res := t.take(allRows(t.Len()))
	for i, cat := range categories {
		res.setColumn(AdjColumn(cat), Float, adjusted[i])
	}
	return res, nil
}

// CalculateFantasyScore sums the adjusted categories into fantasy_points and,
// when withZ is set, the z-scored categories into fantasy_points_z. The
// adjustment and z-score columns must already exist.
func CalculateFantasyScore(t *Table, categories []string, withZ bool) (*Table, error) {
	res := t.take(allRows(t.Len()))

	points, err := sumColumns(t, categories, AdjColumn)
	if err != nil {
		return nil, fmt.Errorf("fantasy score: %w", err)
	}
	res.setColumn(FantasyPointsColumn, Float, points)

	if !withZ {
		return res, nil
	}

	pointsZ, err := sumColumns(t, categories, ZColumn)
	if err != nil {
		return nil, fmt.Errorf("fantasy score: %w", err)
	}
	res.setColumn(FantasyPointsZColumn, Float, pointsZ)
	return res, nil
}

func sumColumns(t *Table, categories []string, name func(string) string) ([]Value, error) {
	sums := make([]float64, t.Len())
	for _, cat := range categories {
		xs, err := t.Floats(name(cat))
		if err != nil {
			return nil, err
		}
		for i, x := range xs {
			sums[i] += x
		}
	}

	res := make([]Value, len(sums))
	for i, s := range sums {
		res[i] = FloatValue(s)
	}
	return res, nil
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
