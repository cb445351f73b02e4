package cmd_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graham-riches/nhl-stats-analysis/app/cmd"
	"github.com/graham-riches/nhl-stats-analysis/app/store"
)

const testConfig = `{
	"stats_categories": ["games_played", "goals", "assists", "hits"],
	"fantasy_categories": ["goals", "assists"],
	"positional_adjustments": {"C": [1.0, 0.9], "D": [1.4, 1.1]},
	"display_categories": ["team", "position"]
}`

type skater struct {
	name, id, team, pos string
	gp, goals, assists  int
}

func writeSeason(t *testing.T, dir string, year int, skaters []skater) {
	t.Helper()

	basic := []string{"player_name,team,position,games_played,goals,assists,pts,plus_minus,penalty_mins,shots_on_goal,game_winning_goals,power_play_goals,power_play_assists,short_handed_goals,short_handed_assists,hits,blocked_shots"}
	advanced := []string{"Rk,Player,Age,Tm,Pos,GP,CF,CA,CF%,CF% rel,FF,FA,FF%,FF% rel,oiSH%,oiSV%,PDO,oZS%,dZS%,TOI/60,TOI(EV),TK,GV,E+/-,SAtt.,Thru%"}
	for i, s := range skaters {
		basic = append(basic, fmt.Sprintf("%s,%s,%s,%d,%d,%d,%d,4,20,150,3,5,10,0,1,%d,90",
			s.name, s.team, s.pos, s.gp, s.goals, s.assists, s.goals+s.assists, 50+i*10))
		advanced = append(advanced, fmt.Sprintf(`%d,%s\%s,%d,%s,%s,%d,1200,1000,54.5,2.1,900,800,52.9,1.5,10.2,91.5,101.7,60.1,39.9,15.3,1050:32,40,35,12,450,55.0`,
			i+1, s.name, s.id, 20+year-2015, s.team, s.pos, s.gp))
	}

	write := func(kind string, lines []string) {
		path := filepath.Join(dir, "skaters", kind, fmt.Sprintf("%d.csv", year))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	}
	write("basic", basic)
	write("advanced", advanced)
}

func TestRank_Execute(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	writeSeason(t, dir, 2019, []skater{
		{"Connor McDavid", "mcdavco01", "EDM", "C", 78, 41, 75},
		{"Cale Makar", "makarca01", "COL", "D", 57, 12, 38},
		{"Auston Matthews", "matthau01", "TOR", "C", 70, 47, 33},
	})
	writeSeason(t, dir, 2020, []skater{
		{"Connor McDavid", "mcdavco01", "EDM", "C", 64, 33, 72},
		{"Cale Makar", "makarca01", "COL", "D", 44, 8, 36},
		{"Auston Matthews", "matthau01", "TOR", "C", 52, 41, 25},
		{"Spare Part", "sparepa01", "FA", "RW", 10, 1, 1},
	})

	out := filepath.Join(dir, "out")
	db := filepath.Join(dir, "rankings.db")
	r := cmd.Rank{
		Config:    cfgPath,
		DataDir:   dir,
		Years:     []int{2019, 2020},
		Project:   2021,
		MinGames:  25,
		RankGames: 35,
		OutDir:    out,
		DB:        db,
		Top:       10,
	}
	require.NoError(t, r.Execute(nil))

	for _, year := range []int{2019, 2020, 2021} {
		b, err := os.ReadFile(filepath.Join(out, fmt.Sprintf("%d.csv", year)))
		require.NoError(t, err, "year %d", year)

		lines := strings.Split(strings.TrimSpace(string(b)), "\n")
		require.Len(t, lines, 4, "year %d", year)
		assert.True(t, strings.HasPrefix(lines[0], "player_name,team,position,games_played,goals,assists,hits,"), lines[0])
		assert.True(t, strings.HasSuffix(lines[0], ",fantasy_points,fantasy_points_z"), lines[0])
		assert.NotContains(t, string(b), "Spare Part")
	}

	s, err := store.New(db)
	require.NoError(t, err)
	defer s.Close()

	exports, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []store.Export{
		{Name: "rankings_2019", Rows: 3},
		{Name: "rankings_2020", Rows: 3},
		{Name: "rankings_2021", Rows: 3},
	}, exports)
}

func TestRank_ExecuteUnknownPosition(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	writeSeason(t, dir, 2020, []skater{
		{"Connor McDavid", "mcdavco01", "EDM", "C", 64, 33, 72},
		{"Mikko Rantanen", "rantami01", "COL", "RW", 42, 19, 22},
	})

	r := cmd.Rank{Config: cfgPath, DataDir: dir, Years: []int{2020}, MinGames: 25, RankGames: 35, OutDir: filepath.Join(dir, "out")}
	err := r.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown position")
}

func TestRank_ExecuteMissingData(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	r := cmd.Rank{Config: cfgPath, DataDir: dir, Years: []int{2020}, OutDir: filepath.Join(dir, "out")}
	assert.Error(t, r.Execute(nil))
}
