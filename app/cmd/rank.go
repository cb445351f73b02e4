package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/graham-riches/nhl-stats-analysis/app/config"
	"github.com/graham-riches/nhl-stats-analysis/app/export"
	"github.com/graham-riches/nhl-stats-analysis/app/report"
	"github.com/graham-riches/nhl-stats-analysis/app/stats"
	"github.com/graham-riches/nhl-stats-analysis/app/store"
)

// Rank is a command to build per-season fantasy rankings.
type Rank struct {
	Config    string `long:"config"     env:"CONFIG"     default:"config/config.json"    description:"ranking config file"`
	DataDir   string `long:"data"       env:"DATA_DIR"   default:"data"                  description:"directory with skaters/basic and skaters/advanced exports"`
	Years     []int  `long:"year"       env:"YEARS"      env-delim:","                   description:"seasons to load" required:"true"`
	Project   int    `long:"project"    env:"PROJECT"                                    description:"season to project, zero to skip"`
	Constrain int    `long:"constrain"  env:"CONSTRAIN"                                  description:"keep only players with stats in this season (default: last loaded season)"`
	MinGames  int    `long:"min-games"  env:"MIN_GAMES"  default:"25"                    description:"drop seasons with fewer games played"`
	RankGames int    `long:"rank-games" env:"RANK_GAMES" default:"35"                    description:"rank players with more games played than this"`
	OutDir    string `long:"out"        env:"OUT_DIR"    default:"data/z_score_rankings" description:"csv output directory"`
	DB        string `long:"db"         env:"DB"                                         description:"sqlite file to store rankings in"`
	Top       int    `long:"top"        env:"TOP"        default:"100"                   description:"rows to print"`

	CommonOpts
}

// Execute runs the command.
func (r Rank) Execute([]string) error {
	if len(r.Years) == 0 {
		return errors.New("no seasons to load")
	}

	cfg, err := config.Load(r.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	engine := stats.NewEngine()
	if err := r.load(engine); err != nil {
		return err
	}

	dropped := engine.DropByGamesPlayed(r.MinGames)
	log.Printf("[INFO] dropped %d seasons under %d games played", dropped, r.MinGames)

	years := slices.Clone(r.Years)
	if r.Project != 0 {
		diags, err := engine.ProjectStats(r.Project, cfg.Projection.Model())
		logDiagnostics("DEBUG", diags)
		if err != nil {
			return fmt.Errorf("project %d: %w", r.Project, err)
		}
		log.Printf("[INFO] projected %d, %d players skipped", r.Project, len(diags))
		years = append(years, r.Project)
	}

	constrain := r.Constrain
	if constrain == 0 {
		constrain = slices.Max(r.Years)
	}
	removed := engine.ConstrainByYear(constrain)
	log.Printf("[INFO] removed %d players without stats in %d, %d left", removed, constrain, engine.Len())

	var st *store.Store
	if r.DB != "" {
		if st, err = store.New(r.DB); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer st.Close()
	}

	var last *stats.Table
	for _, year := range years {
		if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		res, err := r.rankSeason(engine, cfg, year)
		if err != nil {
			return fmt.Errorf("rank %d: %w", year, err)
		}

		path := filepath.Join(r.OutDir, fmt.Sprintf("%d.csv", year))
		if err := export.WriteCSVFile(path, res); err != nil {
			return fmt.Errorf("export %d: %w", year, err)
		}
		log.Printf("[INFO] ranked %d players for %d, saved to %s", res.Len(), year, path)

		if st != nil {
			if err := st.SaveTable(ctx, fmt.Sprintf("rankings_%d", year), res); err != nil {
				return fmt.Errorf("store %d: %w", year, err)
			}
		}
		last = res
	}

	columns := append([]string{stats.PositionColumn}, cfg.FantasyCategories...)
	columns = append(columns, stats.FantasyPointsZColumn)
	out, err := report.Render(last, columns, r.Top)
	if err != nil {
		return fmt.Errorf("render %d: %w", years[len(years)-1], err)
	}
	fmt.Printf("\nrankings for %d\n%s\n", years[len(years)-1], out)

	return nil
}

func (r Rank) load(engine *stats.Engine) error {
	for _, year := range r.Years {
		file := fmt.Sprintf("%d.csv", year)

		diags, err := engine.LoadBasicFile(filepath.Join(r.DataDir, "skaters", "basic", file), year)
		if err != nil {
			return fmt.Errorf("load basic %d: %w", year, err)
		}
		logDiagnostics("WARN", diags)

		diags, err = engine.LoadAdvancedFile(filepath.Join(r.DataDir, "skaters", "advanced", file), year)
		if err != nil {
			return fmt.Errorf("load advanced %d: %w", year, err)
		}
		logDiagnostics("WARN", diags)
	}

	log.Printf("[INFO] loaded %d players over %d seasons", engine.Len(), len(r.Years))
	return nil
}

// rankSeason z-scores the ranked categories of players over the games played
// threshold, weights fantasy categories by position and sorts by z-score total.
func (r Rank) rankSeason(engine *stats.Engine, cfg config.Config, year int) (*stats.Table, error) {
	df, diags := engine.StatsByYear(year)
	logDiagnostics("DEBUG", diags)

	display, err := stats.KeepCategories(df, cfg.DisplayCategories)
	if err != nil {
		return nil, err
	}

	ranked, err := stats.KeepCategories(df, cfg.StatsCategories)
	if err != nil {
		return nil, err
	}

	ranked, err = stats.FilterByCategory(ranked, stats.GamesPlayedColumn, func(gp stats.Value) bool {
		return gp.Int() > r.RankGames
	})
	if err != nil {
		return nil, err
	}

	if ranked, err = stats.CalculateZScores(ranked, cfg.StatsCategories); err != nil {
		return nil, err
	}

	res := display.Join(ranked)
	if res, err = stats.ApplyPositionalAdjustment(res, cfg.FantasyCategories, cfg.PositionalAdjustments); err != nil {
		return nil, err
	}
	if res, err = stats.CalculateFantasyScore(res, cfg.FantasyCategories, true); err != nil {
		return nil, err
	}

	return res.SortBy(stats.FantasyPointsZColumn, true)
}
