package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
)

// EnsureSchema creates the target schema if it does not exist.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", g.schema)); err != nil {
		return fmt.Errorf("create schema %s: %w", g.schema, err)
	}
	return nil
}

// CreateTables creates every warehouse table that does not exist yet.
// Existing tables are left alone; column migrations are handled separately.
func (g *Gateway) CreateTables(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			team_abbr TEXT PRIMARY KEY,
			team_name TEXT,
			load_ts TIMESTAMPTZ DEFAULT now()
		)`, g.schema, config.DimTeamTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			player_id TEXT PRIMARY KEY,
			player_name TEXT,
			team_abbr TEXT,
			position TEXT,
			load_ts TIMESTAMPTZ DEFAULT now()
		)`, g.schema, config.DimPlayerTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			timeslot_key INTEGER PRIMARY KEY,
			time_slot TEXT UNIQUE,
			load_ts TIMESTAMPTZ DEFAULT now()
		)`, g.schema, config.DimTimeslotTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			game_id TEXT,
			season INTEGER,
			week INTEGER,
			book TEXT,
			home_team TEXT,
			away_team TEXT,
			favorite_team TEXT,
			spread_open DOUBLE PRECISION,
			spread_close DOUBLE PRECISION,
			total_open DOUBLE PRECISION,
			total_close DOUBLE PRECISION,
			home_moneyline INTEGER,
			away_moneyline INTEGER,
			line_source TEXT,
			line_timestamp TIMESTAMPTZ,
			load_ts TIMESTAMPTZ DEFAULT now(),
			PRIMARY KEY (game_id, book, line_timestamp)
		)`, g.schema, config.DimVegasLinesTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			game_id TEXT,
			season INTEGER,
			week INTEGER,
			team_abbr TEXT,
			opponent_abbr TEXT,
			time_slot TEXT,
			player_id TEXT,
			player_name TEXT,
			position TEXT,
			passing_yards_avg DOUBLE PRECISION,
			passing_tds_avg DOUBLE PRECISION,
			interceptions_avg DOUBLE PRECISION,
			attempts_avg DOUBLE PRECISION,
			completions_avg DOUBLE PRECISION,
			rushing_yards_avg DOUBLE PRECISION,
			rushing_tds_avg DOUBLE PRECISION,
			carries_avg DOUBLE PRECISION,
			receptions_avg DOUBLE PRECISION,
			receiving_yards_avg DOUBLE PRECISION,
			receiving_tds_avg DOUBLE PRECISION,
			sacks_avg DOUBLE PRECISION,
			def_interceptions_avg DOUBLE PRECISION,
			fumbles_recovered_avg DOUBLE PRECISION,
			total_touchdowns_avg DOUBLE PRECISION,
			games_played INTEGER,
			season_range TEXT,
			current_roster_only BOOLEAN,
			load_ts TIMESTAMPTZ DEFAULT now(),
			PRIMARY KEY (game_id, season, week, team_abbr, opponent_abbr, time_slot, player_id, position)
		)`, g.schema, config.FactTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			game_id TEXT,
			season INTEGER,
			week INTEGER,
			seasonweek INTEGER,
			book TEXT,
			player_id TEXT,
			player_name TEXT,
			market TEXT,
			line_value DOUBLE PRECISION,
			over_odds INTEGER,
			under_odds INTEGER,
			ts TIMESTAMPTZ,
			load_ts TIMESTAMPTZ DEFAULT now(),
			PRIMARY KEY (game_id, book, player_name, market, ts)
		)`, g.schema, config.PropsTable),
	}
	for _, stmt := range stmts {
		if _, err := g.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// columnSpec is one column a migration may need to add.
type columnSpec struct {
	name string
	typ  string
}

// ensureColumns adds any of cols missing from schema.table. Tables created
// before a column existed pick it up here without a manual migration.
func (g *Gateway) ensureColumns(ctx context.Context, table string, cols []columnSpec) error {
	rows, err := g.pool.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2`,
		g.schema, table)
	if err != nil {
		return fmt.Errorf("inspect %s.%s: %w", g.schema, table, err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("inspect %s.%s: %w", g.schema, table, err)
		}
		existing[strings.ToLower(name)] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s.%s: %w", g.schema, table, err)
	}

	for _, c := range cols {
		if existing[c.name] {
			continue
		}
		ddl := fmt.Sprintf("ALTER TABLE %s.%s ADD COLUMN %s %s", g.schema, table, c.name, c.typ)
		if _, err := g.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, c.name, err)
		}
		g.logger.Info("Added column", "table", table, "column", c.name)
	}
	return nil
}

// EnsureFactColumns backfills columns added to fact_player_timeslot over time.
func (g *Gateway) EnsureFactColumns(ctx context.Context) error {
	return g.ensureColumns(ctx, config.FactTable, []columnSpec{
		{"game_id", "TEXT"},
		{"interceptions_avg", "DOUBLE PRECISION"},
		{"def_interceptions_avg", "DOUBLE PRECISION"},
		{"fumbles_recovered_avg", "DOUBLE PRECISION"},
		{"season_range", "TEXT"},
		{"current_roster_only", "BOOLEAN"},
	})
}

// EnsurePropsColumns backfills columns added to fact_player_prop_lines.
func (g *Gateway) EnsurePropsColumns(ctx context.Context) error {
	return g.ensureColumns(ctx, config.PropsTable, []columnSpec{
		{"seasonweek", "INTEGER"},
	})
}

// AddIndexes creates the query-path indexes. Safe to call every run.
func (g *Gateway) AddIndexes(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_fact_season_week ON %s.%s (season, week)", g.schema, config.FactTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_fact_team_opp_slot ON %s.%s (team_abbr, opponent_abbr, time_slot)", g.schema, config.FactTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_fact_player ON %s.%s (player_id)", g.schema, config.FactTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_fact_game ON %s.%s (game_id)", g.schema, config.FactTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_lines_game_book ON %s.%s (game_id, book)", g.schema, config.DimVegasLinesTable),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_props_seasonweek ON %s.%s (seasonweek)", g.schema, config.PropsTable),
	}
	for _, stmt := range stmts {
		if _, err := g.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("add indexes: %w", err)
		}
	}
	return nil
}

// DeleteSeasons removes fact, line, and prop rows for the given seasons
// ahead of a replace load, in one transaction so a reload never sees the
// warehouse half-cleared. Returns the total number of rows removed.
func (g *Gateway) DeleteSeasons(ctx context.Context, seasons []int) (int64, error) {
	if len(seasons) == 0 {
		return 0, nil
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin season delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var deleted int64
	for _, sql := range deleteSeasonsSQL(g.schema) {
		tag, err := tx.Exec(ctx, sql, seasons)
		if err != nil {
			return 0, fmt.Errorf("delete seasons: %w", err)
		}
		deleted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit season delete: %w", err)
	}
	return deleted, nil
}

// deleteSeasonsSQL covers every season-scoped table a replace load rewrites.
func deleteSeasonsSQL(schema string) []string {
	tables := []string{config.FactTable, config.DimVegasLinesTable, config.PropsTable}
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		stmts = append(stmts, fmt.Sprintf("DELETE FROM %s.%s WHERE season = ANY($1)", schema, t))
	}
	return stmts
}
