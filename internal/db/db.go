// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a connection pool with no statement
// registration. The ingest CLI uses it: Postgres validates relations when a
// statement is prepared, and on a fresh database the warehouse tables do
// not exist until the pipeline bootstraps them.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	return newPool(ctx, cfg, false)
}

// NewReadPool creates a pool that registers the read API's prepared
// statements on every new connection. Requires a bootstrapped warehouse.
func NewReadPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	return newPool(ctx, cfg, true)
}

func newPool(ctx context.Context, cfg *config.Config, prepare bool) (*Pool, error) {
	poolCfg, err := poolConfig(cfg, prepare)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// poolConfig builds the pgxpool configuration. Statement registration is
// attached only when prepare is set.
func poolConfig(cfg *config.Config, prepare bool) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if prepare {
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return registerPreparedStatements(ctx, conn, cfg.Schema)
		}
	}
	return poolCfg, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
// Plain SQL so it works on both pool variants.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "SELECT 1").Scan(&n)
}

// registerPreparedStatements registers the statements the API layer uses.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn, schema string) error {
	for name, sql := range readStatements(schema) {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

// readStatements is the read API's statement set, qualified by schema.
func readStatements(schema string) map[string]string {
	return map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: aggregated facts for one season/week
		"facts_by_season_week": `
			SELECT game_id, season, week, team_abbr, opponent_abbr, time_slot,
			       player_id, player_name, position,
			       passing_yards_avg, rushing_yards_avg, receiving_yards_avg,
			       games_played, season_range, current_roster_only
			FROM ` + schema + `.fact_player_timeslot
			WHERE season = $1 AND week = $2
			ORDER BY team_abbr, player_name`,

		// API: vegas lines for one game
		"lines_by_game": `
			SELECT game_id, season, week, book, home_team, away_team,
			       favorite_team, spread_close, total_close, line_timestamp
			FROM ` + schema + `.dim_vegas_lines
			WHERE game_id = $1
			ORDER BY book, line_timestamp`,

		// API: player dimension lookup
		"player_by_id": `
			SELECT player_id, player_name, team_abbr, position
			FROM ` + schema + `.dim_player
			WHERE player_id = $1`,

		// API: fact row counts per time slot (load monitoring)
		"timeslot_counts": `
			SELECT time_slot, COUNT(*)
			FROM ` + schema + `.fact_player_timeslot
			GROUP BY time_slot
			ORDER BY time_slot`,

		// API: synthetic id count (backfill monitoring)
		"synthetic_id_count": `
			SELECT COUNT(*)
			FROM ` + schema + `.fact_player_timeslot
			WHERE player_id LIKE 'legacy_%'`,
	}
}
