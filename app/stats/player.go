package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Seasons is a season-keyed container of records.
type Seasons[T any] struct {
	m map[int]T
}

// Set inserts or overwrites the record for the season.
func (s *Seasons[T]) Set(season int, v T) {
	if s.m == nil {
		s.m = make(map[int]T)
	}
	s.m[season] = v
}

// Get returns the record for the season.
func (s *Seasons[T]) Get(season int) (T, bool) {
	v, ok := s.m[season]
	return v, ok
}

// Has reports whether the season is present.
func (s *Seasons[T]) Has(season int) bool {
	_, ok := s.m[season]
	return ok
}

// Delete removes the season if present.
func (s *Seasons[T]) Delete(season int) { delete(s.m, season) }

// Len returns the number of seasons.
func (s *Seasons[T]) Len() int { return len(s.m) }

// Years returns seasons in ascending order.
func (s *Seasons[T]) Years() []int {
	years := make([]int, 0, len(s.m))
	for y := range s.m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Player holds all recorded seasons of a single skater.
type Player struct {
	Name     string
	basic    Seasons[BasicStats]
	advanced Seasons[AdvancedStats]
}

// NewPlayer makes an empty player.
func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

// AddBasicStats inserts or overwrites basic stats for the season.
func (p *Player) AddBasicStats(season int, st BasicStats) { p.basic.Set(season, st) }

// AddAdvancedStats inserts or overwrites advanced stats for the season.
func (p *Player) AddAdvancedStats(season int, st AdvancedStats) { p.advanced.Set(season, st) }

// Basic returns basic stats for the season.
func (p *Player) Basic(season int) (BasicStats, bool) { return p.basic.Get(season) }

// Advanced returns advanced stats for the season.
func (p *Player) Advanced(season int) (AdvancedStats, bool) { return p.advanced.Get(season) }

// BasicSeasons returns seasons with basic stats, ascending.
func (p *Player) BasicSeasons() []int { return p.basic.Years() }

// AdvancedSeasons returns seasons with advanced stats, ascending.
func (p *Player) AdvancedSeasons() []int { return p.advanced.Years() }

// HasSeason reports whether either kind of stats exists for the season.
func (p *Player) HasSeason(season int) bool {
	return p.basic.Has(season) || p.advanced.Has(season)
}

// RemoveSeason drops both kinds of stats for the season.
func (p *Player) RemoveSeason(season int) {
	p.basic.Delete(season)
	p.advanced.Delete(season)
}

// StatsByYear returns basic and advanced stats of the season as one record
// laid out by CombinedSchema.
func (p *Player) StatsByYear(season int) (Record, error) {
	b, okb := p.basic.Get(season)
	a, oka := p.advanced.Get(season)
	switch {
	case !okb && !oka:
		return Record{}, fmt.Errorf("no stats for %d: %w", season, ErrMissingData)
	case !okb:
		return Record{}, fmt.Errorf("no basic stats for %d: %w", season, ErrMissingData)
	case !oka:
		return Record{}, fmt.Errorf("no advanced stats for %d: %w", season, ErrMissingData)
	}

	values := make([]Value, 0, len(CombinedSchema))
	values = append(values, b.values...)
	values = append(values, a.values...)
	return Record{schema: CombinedSchema, values: values}, nil
}

// ProjectBasicStats stores a projected basic record for the target season.
// The returned field errors list numeric fields that fell back to the most
// recent value.
func (p *Player) ProjectBasicStats(target int, m Model) ([]FieldError, error) {
	if !p.basic.Has(target - 1) {
		return nil, fmt.Errorf("basic stats for %d: %w", target-1, ErrMissingPriorSeason)
	}

	history := seasonHistory(p.basic.Years(), target, func(y int) Record {
		b, _ := p.basic.Get(y)
		return b.Record
	})
	r, errs, err := projectRecord(BasicSchema, history, m)
	if err != nil {
		return errs, err
	}
	p.basic.Set(target, BasicStats{r})
	return errs, nil
}

// ProjectAdvancedStats stores a projected advanced record for the target season.
func (p *Player) ProjectAdvancedStats(target int, m Model) ([]FieldError, error) {
	if !p.advanced.Has(target - 1) {
		return nil, fmt.Errorf("advanced stats for %d: %w", target-1, ErrMissingPriorSeason)
	}

	history := seasonHistory(p.advanced.Years(), target, func(y int) Record {
		a, _ := p.advanced.Get(y)
		return a.Record
	})
	r, errs, err := projectRecord(AdvancedSchema, history, m)
	if err != nil {
		return errs, err
	}
	p.advanced.Set(target, AdvancedStats{r})
	return errs, nil
}

// seasonHistory returns records of seasons before target, most recent first.
func seasonHistory(years []int, target int, get func(int) Record) []Record {
	var res []Record
	for i := len(years) - 1; i >= 0; i-- {
		if years[i] < target {
			res = append(res, get(years[i]))
		}
	}
	return res
}

// projectRecord runs the model over every numeric field. String fields and
// fields the model fails on keep the most recent value.
func projectRecord(schema Schema, history []Record, m Model) (Record, []FieldError, error) {
	latest := history[0]
	r := Record{schema: schema, values: make([]Value, len(schema))}
	var errs []FieldError

	series := make([]float64, len(history))
	for i, f := range schema {
		if f.Kind == String {
			r.values[i] = latest.values[i]
			continue
		}

		for j, h := range history {
			series[j] = h.values[i].Float()
		}

		v, err := m.Project(series)
		if err != nil {
			if errors.Is(err, ErrProgressionRange) {
				return Record{}, errs, fmt.Errorf("project %s: %w", f.Name, err)
			}
			errs = append(errs, FieldError{Field: f.Name, Err: err})
			r.values[i] = latest.values[i]
			continue
		}

		if f.Kind == Int {
			r.values[i] = IntValue(int(math.Round(v)))
			continue
		}
		r.values[i] = FloatValue(v)
	}

	return r, errs, nil
}
