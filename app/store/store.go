package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/glebarez/go-sqlite" // sqlite driver
	"github.com/jmoiron/sqlx"

	"github.com/graham-riches/nhl-stats-analysis/app/stats"
)

// ErrNotFound indicates that the entity hasn't been found in the database.
var ErrNotFound = errors.New("not found")

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store keeps exported ranking tables in a SQLite database, one flat
// table per export.
type Store struct {
	db *sqlx.DB
}

// Export describes a stored table.
type Export struct {
	Name string `db:"name"`
	Rows int    `db:"row_count"`
}

// New prepares the database.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // in-memory databases live in a single connection

	const schema = `
		CREATE TABLE IF NOT EXISTS exports (
			name TEXT PRIMARY KEY,
			row_count INTEGER NOT NULL DEFAULT 0
		);
	`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveTable replaces the named table with the contents of t.
func (s *Store) SaveTable(ctx context.Context, name string, t *stats.Table) error {
	cols := t.Columns()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quote(name)); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}

	defs := []string{quote(stats.IndexColumn) + " TEXT PRIMARY KEY"}
	quoted := []string{quote(stats.IndexColumn)}
	for _, c := range cols {
		kind, _ := t.Kind(c)
		defs = append(defs, quote(c)+" "+sqlType(kind))
		quoted = append(quoted, quote(c))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	for row, key := range t.Index() {
		args := []any{key}
		for _, c := range cols {
			v, _ := t.Value(row, c)
			args = append(args, sqlValue(v))
		}

		query, qargs, err := sqlBuilder.Insert(quote(name)).Columns(quoted...).Values(args...).ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, qargs...); err != nil {
			return fmt.Errorf("insert %s: %w", key, err)
		}
	}

	const upsert = `INSERT INTO exports (name, row_count) VALUES (:name, :row_count)
					ON CONFLICT(name) DO UPDATE SET row_count = excluded.row_count`
	if _, err := tx.NamedExecContext(ctx, upsert, Export{Name: name, Rows: t.Len()}); err != nil {
		return fmt.Errorf("record export: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Get returns the export with the given name.
func (s *Store) Get(ctx context.Context, name string) (Export, error) {
	var e Export
	if err := s.db.GetContext(ctx, &e, `SELECT name, row_count FROM exports WHERE name = ?`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, fmt.Errorf("get export: %w", err)
	}
	return e, nil
}

// List returns all exports ordered by name.
func (s *Store) List(ctx context.Context) ([]Export, error) {
	var exports []Export
	if err := s.db.SelectContext(ctx, &exports, `SELECT name, row_count FROM exports ORDER BY name`); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return exports, nil
}

// Rows returns the stored rows of the named table in insertion order.
func (s *Store) Rows(ctx context.Context, name string) ([]map[string]any, error) {
	if _, err := s.Get(ctx, name); err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Select("*").From(quote(name)).OrderBy("rowid").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	defer rows.Close()

	var res []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func sqlType(k stats.Kind) string {
	switch k {
	case stats.Int:
		return "INTEGER"
	case stats.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

func sqlValue(v stats.Value) any {
	switch v.Kind() {
	case stats.Int:
		return int64(v.Int())
	case stats.Float:
		if math.IsNaN(v.Float()) {
			return nil
		}
		return v.Float()
	default:
		return v.Str()
	}
}
