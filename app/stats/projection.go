package stats

import "fmt"

// Model projects the next value of a stat from its history, most recent first.
type Model interface {
	Project(history []float64) (float64, error)
}

// WeightedAverage projects a weighted mean of past seasons. Weights[0]
// applies to the most recent season. Players with fewer seasons than weights
// are normalised by the weights actually used.
type WeightedAverage struct {
	Weights []float64
}

// Project implements Model.
func (w WeightedAverage) Project(history []float64) (float64, error) {
	return weightedMean(w.Weights, history)
}

// ExperienceAdjusted scales the weighted mean by a number of games and an
// experience multiplier picked by career length. Progression[0] applies to
// players with a single season of history.
type ExperienceAdjusted struct {
	Weights     []float64
	Progression []float64
	GamesPlayed float64
}

// Project implements Model.
func (e ExperienceAdjusted) Project(history []float64) (float64, error) {
	if len(history) == 0 {
		return 0, ErrNoHistory
	}

	idx := len(history) - 1
	if idx >= len(e.Progression) {
		return 0, fmt.Errorf("%d seasons, table of %d: %w", len(history), len(e.Progression), ErrProgressionRange)
	}

	base, err := weightedMean(e.Weights, history)
	if err != nil {
		return 0, err
	}
	return base * e.GamesPlayed * e.Progression[idx], nil
}

func weightedMean(weights, history []float64) (float64, error) {
	if len(history) == 0 {
		return 0, ErrNoHistory
	}

	n := min(len(weights), len(history))
	var sum, wsum float64
	for i := 0; i < n; i++ {
		sum += weights[i] * history[i]
		wsum += weights[i]
	}

	if wsum == 0 {
		return 0, ErrZeroWeights
	}
	return sum / wsum, nil
}
