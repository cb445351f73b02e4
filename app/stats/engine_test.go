package stats_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

func TestEngine_LoadBasic(t *testing.T) {
	e := stats.NewEngine()
	diags, err := e.LoadBasic(csvFile(basicHeader,
		basicLine("Connor McDavid", "EDM", "C", 64, 33, 72),
		basicLine("Auston Matthews", "TOR", "C", 52, 41, 25),
		"Broken Line,EDM,C,10",
	), 2020)
	require.NoError(t, err)

	assert.Equal(t, 2, e.Len())
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0].Err, stats.ErrTokenCount)
	assert.Equal(t, 4, diags[0].Line)

	p, ok := e.Player("Connor McDavid")
	require.True(t, ok)
	b, ok := p.Basic(2020)
	require.True(t, ok)
	assert.Equal(t, 64, b.GamesPlayed())
	pts, _ := b.Get("pts")
	assert.Equal(t, 105, pts.Int())
}

func TestEngine_LoadBasicMergesSeasons(t *testing.T) {
	e := stats.NewEngine()
	_, err := e.LoadBasic(csvFile(basicHeader, basicLine("Connor McDavid", "EDM", "C", 78, 41, 75)), 2019)
	require.NoError(t, err)
	_, err = e.LoadBasic(csvFile(basicHeader, basicLine("Connor McDavid", "EDM", "C", 64, 33, 72)), 2020)
	require.NoError(t, err)

	require.Equal(t, 1, e.Len())
	p, _ := e.Player("Connor McDavid")
	assert.Equal(t, []int{2019, 2020}, p.BasicSeasons())
}

func TestEngine_LoadBasicBadToken(t *testing.T) {
	e := stats.NewEngine()
	line := "Connor McDavid,EDM,C,64,x,72,105,4,20,150,3,5,10,0,1,120,90"
	diags, err := e.LoadBasic(csvFile(basicHeader, line), 2020)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	var fe stats.FieldError
	require.True(t, errors.As(diags[0].Err, &fe))
	assert.Equal(t, "goals", fe.Field)
	assert.Equal(t, "Connor McDavid", diags[0].Player)

	p, _ := e.Player("Connor McDavid")
	b, _ := p.Basic(2020)
	goals, _ := b.Get("goals")
	assert.Equal(t, 0, goals.Int())
	assert.Equal(t, 64, b.GamesPlayed())
}

func TestEngine_LoadAdvanced(t *testing.T) {
	e := stats.NewEngine()
	diags, err := e.LoadAdvanced(csvFile(advancedHeader,
		advancedLine(1, `Connor McDavid\mcdavco01`, 23, 64, 1234),
	), 2020)
	require.NoError(t, err)
	assert.Empty(t, diags)

	p, ok := e.Player("Connor McDavid")
	require.True(t, ok)
	a, ok := p.Advanced(2020)
	require.True(t, ok)
	assert.Equal(t, 23, a.Age())
	cf, _ := a.Get("corsi_for")
	assert.Equal(t, 1234, cf.Int())
	thru, _ := a.Get("shot_through_pct")
	assert.InDelta(t, 55.0, thru.Float(), 1e-9)
}

func TestEngine_StatsByYear(t *testing.T) {
	e := stats.NewEngine()
	_, err := e.LoadBasic(csvFile(basicHeader,
		basicLine("Connor McDavid", "EDM", "C", 64, 33, 72),
		basicLine("Auston Matthews", "TOR", "C", 52, 41, 25),
	), 2020)
	require.NoError(t, err)
	_, err = e.LoadAdvanced(csvFile(advancedHeader,
		advancedLine(1, `Connor McDavid\mcdavco01`, 23, 64, 1234),
	), 2020)
	require.NoError(t, err)

	tbl, diags := e.StatsByYear(2020)
	assert.Equal(t, []string{"Connor McDavid"}, tbl.Index())
	assert.Equal(t, stats.CombinedSchema.Names(), tbl.Columns())
	assert.True(t, diags.Has(stats.ErrMissingData))
	require.Len(t, diags, 1)
	assert.Equal(t, "Auston Matthews", diags[0].Player)

	v, ok := tbl.Value(0, "goals")
	require.True(t, ok)
	assert.Equal(t, 33, v.Int())
}

func TestEngine_ConstrainByYear(t *testing.T) {
	e := stats.NewEngine()
	e.AddBasicStats("Active Basic", 2020, basic(t, "EDM", "C", 60, 10))
	e.AddAdvancedStats("Active Advanced", 2020, advanced(t, 25, 500))
	e.AddBasicStats("Retired", 2018, basic(t, "SJS", "C", 60, 10))
	e.AddAdvancedStats("Retired", 2018, advanced(t, 39, 500))

	removed := e.ConstrainByYear(2020)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, e.Len())
	for _, p := range e.Players() {
		assert.True(t, p.HasSeason(2020), p.Name)
	}
	_, ok := e.Player("Retired")
	assert.False(t, ok)
}

func TestEngine_DropByGamesPlayed(t *testing.T) {
	e := stats.NewEngine()
	e.AddBasicStats("Skater", 2019, basic(t, "EDM", "C", 10, 2))
	e.AddAdvancedStats("Skater", 2019, advanced(t, 24, 100))
	e.AddBasicStats("Skater", 2020, basic(t, "EDM", "C", 70, 20))
	e.AddAdvancedStats("Skater", 2020, advanced(t, 25, 900))
	e.AddAdvancedStats("Skater", 2018, advanced(t, 23, 300))

	dropped := e.DropByGamesPlayed(25)
	assert.Equal(t, 1, dropped)

	p, _ := e.Player("Skater")
	assert.Equal(t, []int{2020}, p.BasicSeasons())
	assert.Equal(t, []int{2018, 2020}, p.AdvancedSeasons())
	for _, season := range p.BasicSeasons() {
		b, _ := p.Basic(season)
		assert.GreaterOrEqual(t, b.GamesPlayed(), 25)
	}
}

func TestEngine_ProjectStats(t *testing.T) {
	e := stats.NewEngine()
	e.AddBasicStats("Current", 2019, basic(t, "EDM", "C", 80, 30))
	e.AddBasicStats("Current", 2020, basic(t, "EDM", "C", 70, 40))
	e.AddAdvancedStats("Current", 2020, advanced(t, 25, 900))
	e.AddBasicStats("Gone", 2018, basic(t, "SJS", "C", 70, 10))
	e.AddAdvancedStats("Gone", 2018, advanced(t, 39, 500))

	diags, err := e.ProjectStats(2021, stats.WeightedAverage{Weights: []float64{1, 1}})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "Gone", diags[0].Player)
	assert.ErrorIs(t, diags[0].Err, stats.ErrMissingPriorSeason)

	cur, _ := e.Player("Current")
	b, ok := cur.Basic(2021)
	require.True(t, ok)
	goals, _ := b.Get("goals")
	assert.Equal(t, 35, goals.Int())
	a, ok := cur.Advanced(2021)
	require.True(t, ok)
	assert.Equal(t, 25, a.Age())

	gone, _ := e.Player("Gone")
	assert.False(t, gone.HasSeason(2021))
}

func TestEngine_ProjectStatsAbortsOnProgressionRange(t *testing.T) {
	e := stats.NewEngine()
	e.AddBasicStats("Veteran", 2019, basic(t, "EDM", "C", 80, 30))
	e.AddBasicStats("Veteran", 2020, basic(t, "EDM", "C", 70, 40))

	m := stats.ExperienceAdjusted{Weights: []float64{1, 1}, Progression: []float64{1}, GamesPlayed: 82}
	_, err := e.ProjectStats(2021, m)
	assert.ErrorIs(t, err, stats.ErrProgressionRange)
}
