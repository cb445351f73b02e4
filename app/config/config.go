package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// Config describes which categories are ranked and how.
type Config struct {
	StatsCategories       []string             `json:"stats_categories"`
	FantasyCategories     []string             `json:"fantasy_categories"`
	PositionalAdjustments map[string][]float64 `json:"positional_adjustments"`
	DisplayCategories     []string             `json:"display_categories"`
	Projection            Projection           `json:"projection"`
}

// Projection holds the parameters of the experience adjusted projection model.
type Projection struct {
	GamesPlayed float64   `json:"games_played"`
	Weights     []float64 `json:"weights"`
	Progression []float64 `json:"progression"`
}

// Model returns the projection model described by p.
func (p Projection) Model() stats.Model {
	return stats.ExperienceAdjusted{
		Weights:     p.Weights,
		Progression: p.Progression,
		GamesPlayed: p.GamesPlayed,
	}
}

// DefaultProjection weights recent seasons heavier and boosts players
// entering their second and third seasons.
func DefaultProjection() Projection {
	return Projection{
		GamesPlayed: 82,
		Weights:     []float64{4.0, 3.0, 2.0, 1.0, 1.0, 1.0},
		Progression: []float64{1.0, 1.10, 1.15, 1.0, 1.0, 1.0, 1.0},
	}
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{Projection: DefaultProjection()}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the shapes the ranking pipeline relies on.
func (c Config) Validate() error {
	var errs []error
	if len(c.StatsCategories) == 0 {
		errs = append(errs, errors.New("stats_categories cannot be empty"))
	}
	if len(c.FantasyCategories) == 0 {
		errs = append(errs, errors.New("fantasy_categories cannot be empty"))
	}
	if len(c.PositionalAdjustments) == 0 {
		errs = append(errs, errors.New("positional_adjustments cannot be empty"))
	}
	for pos, weights := range c.PositionalAdjustments {
		if len(weights) != len(c.FantasyCategories) {
			errs = append(errs, fmt.Errorf("positional_adjustments[%s] has %d weights, want %d",
				pos, len(weights), len(c.FantasyCategories)))
		}
	}
	for _, cat := range c.FantasyCategories {
		if !contains(c.StatsCategories, cat) {
			errs = append(errs, fmt.Errorf("fantasy category %s is not in stats_categories", cat))
		}
	}
	if len(c.Projection.Weights) == 0 {
		errs = append(errs, errors.New("projection.weights cannot be empty"))
	}
	if len(c.Projection.Progression) == 0 {
		errs = append(errs, errors.New("projection.progression cannot be empty"))
	}
	return errors.Join(errs...)
}

func contains(strs []string, str string) bool {
	for _, s := range strs {
		if s == str {
			return true
		}
	}
	return false
}
