package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	basicTokens    = 1 + 16 // name + BasicSchema
	advancedTokens = 26     // rank, name, age, team, pos, gp, then 20 stats
)

// Engine owns the working set of players for a batch run.
type Engine struct {
	players map[string]*Player
	order   []string // insertion order
}

// NewEngine makes an empty engine.
func NewEngine() *Engine {
	return &Engine{players: make(map[string]*Player)}
}

// Len returns the number of players.
func (e *Engine) Len() int { return len(e.order) }

// Player returns the player with the given name.
func (e *Engine) Player(name string) (*Player, bool) {
	p, ok := e.players[name]
	return p, ok
}

// Players returns all players in the order they were first seen.
func (e *Engine) Players() []*Player {
	res := make([]*Player, len(e.order))
	for i, name := range e.order {
		res[i] = e.players[name]
	}
	return res
}

func (e *Engine) player(name string) *Player {
	if p, ok := e.players[name]; ok {
		return p
	}
	p := NewPlayer(name)
	e.players[name] = p
	e.order = append(e.order, name)
	return p
}

// AddBasicStats merges a basic season into the named player, creating it on first sight.
func (e *Engine) AddBasicStats(name string, season int, st BasicStats) {
	e.player(name).AddBasicStats(season, st)
}

// AddAdvancedStats merges an advanced season into the named player.
func (e *Engine) AddAdvancedStats(name string, season int, st AdvancedStats) {
	e.player(name).AddAdvancedStats(season, st)
}

// LoadBasic reads a basic stats export for the season. The first line is a
// header. Each following line is "name,team,position,games_played,...".
func (e *Engine) LoadBasic(r io.Reader, season int) (Diagnostics, error) {
	return e.load(r, season, func(line int, tokens []string, diags *Diagnostics) {
		if len(tokens) != basicTokens {
			*diags = append(*diags, Diagnostic{Season: season, Line: line,
				Err: fmt.Errorf("basic line has %d tokens, want %d: %w", len(tokens), basicTokens, ErrTokenCount)})
			return
		}

		name := strings.TrimSpace(tokens[0])
		st, errs := NewBasicStats(tokens[1:])
		diags.addFields(name, season, line, errs)
		e.AddBasicStats(name, season, st)
	})
}

// LoadAdvanced reads an advanced stats export for the season. The player
// name is the second column with anything after a backslash removed, age is
// the third column and the remaining stats start at the seventh column.
func (e *Engine) LoadAdvanced(r io.Reader, season int) (Diagnostics, error) {
	return e.load(r, season, func(line int, tokens []string, diags *Diagnostics) {
		if len(tokens) != advancedTokens {
			*diags = append(*diags, Diagnostic{Season: season, Line: line,
				Err: fmt.Errorf("advanced line has %d tokens, want %d: %w", len(tokens), advancedTokens, ErrTokenCount)})
			return
		}

		name, _, _ := strings.Cut(tokens[1], `\`)
		name = strings.TrimSpace(name)

		payload := make([]string, 0, len(AdvancedSchema))
		payload = append(payload, tokens[2])
		payload = append(payload, tokens[6:]...)

		st, errs := NewAdvancedStats(payload)
		diags.addFields(name, season, line, errs)
		e.AddAdvancedStats(name, season, st)
	})
}

// LoadBasicFile opens the file and calls LoadBasic.
func (e *Engine) LoadBasicFile(path string, season int) (Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open basic stats: %w", err)
	}
	defer f.Close()
	return e.LoadBasic(f, season)
}

// LoadAdvancedFile opens the file and calls LoadAdvanced.
func (e *Engine) LoadAdvancedFile(path string, season int) (Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open advanced stats: %w", err)
	}
	defer f.Close()
	return e.LoadAdvanced(f, season)
}

func (e *Engine) load(r io.Reader, season int, handle func(line int, tokens []string, diags *Diagnostics)) (Diagnostics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var diags Diagnostics
	header := true
	for {
		tokens, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			diags = append(diags, Diagnostic{Season: season, Line: perr.Line, Err: err})
			header = false
			continue
		}
		if err != nil {
			return diags, fmt.Errorf("read stats: %w", err)
		}

		if header {
			header = false
			continue
		}

		line, _ := cr.FieldPos(0)
		handle(line, tokens, &diags)
	}

	return diags, nil
}

// ConstrainByYear removes players with neither basic nor advanced stats
// for the season and returns the number removed.
func (e *Engine) ConstrainByYear(season int) int {
	return e.removeIf(func(p *Player) bool { return !p.HasSeason(season) })
}

// DropByGamesPlayed removes every season, basic and advanced, in which a
// player's basic games played is below the threshold. Seasons without basic
// stats are kept. Returns the number of seasons removed.
func (e *Engine) DropByGamesPlayed(threshold int) int {
	var dropped int
	for _, name := range e.order {
		p := e.players[name]
		for _, season := range p.BasicSeasons() {
			b, _ := p.Basic(season)
			if b.GamesPlayed() < threshold {
				p.RemoveSeason(season)
				dropped++
			}
		}
	}
	return dropped
}

// ProjectStats projects basic and advanced stats for the season for every
// player. Players without the previous season are reported and skipped. An
// error aborts the run when the model contract is violated.
func (e *Engine) ProjectStats(season int, m Model) (Diagnostics, error) {
	var diags Diagnostics
	for _, name := range e.order {
		p := e.players[name]

		errs, err := p.ProjectBasicStats(season, m)
		diags.addFields(name, season, 0, errs)
		if err != nil {
			if !errors.Is(err, ErrMissingPriorSeason) {
				return diags, fmt.Errorf("project %s: %w", name, err)
			}
			diags.add(name, season, err)
			continue
		}

		errs, err = p.ProjectAdvancedStats(season, m)
		diags.addFields(name, season, 0, errs)
		if err != nil {
			if !errors.Is(err, ErrMissingPriorSeason) {
				return diags, fmt.Errorf("project %s: %w", name, err)
			}
			diags.add(name, season, err)
		}
	}
	return diags, nil
}

// StatsByYear returns one row per player with complete stats for the season
// and one column per CombinedSchema field. Incomplete players are reported.
func (e *Engine) StatsByYear(season int) (*Table, Diagnostics) {
	var diags Diagnostics
	var index []string
	var records []Record
	for _, name := range e.order {
		r, err := e.players[name].StatsByYear(season)
		if err != nil {
			diags.add(name, season, err)
			continue
		}
		index = append(index, name)
		records = append(records, r)
	}

	t := NewTable(index)
	for i, f := range CombinedSchema {
		vals := make([]Value, len(records))
		for j, r := range records {
			vals[j] = r.values[i]
		}
		t.setColumn(f.Name, f.Kind, vals)
	}
	return t, diags
}

func (e *Engine) removeIf(drop func(*Player) bool) int {
	kept := e.order[:0]
	for _, name := range e.order {
		if drop(e.players[name]) {
			delete(e.players, name)
			continue
		}
		kept = append(kept, name)
	}
	removed := len(e.order) - len(kept)
	e.order = kept
	return removed
}
