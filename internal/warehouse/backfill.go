package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
	"github.com/fourthdownlabs/timeslot-data/internal/identity"
)

// BackfillSyntheticIDs rewrites placeholder player ids in the fact table
// using authoritative roster entries. The resolver map is staged into a
// transaction-scoped temp table and joined against the facts' normalized
// identity key in a single bulk UPDATE, then the resolved players are
// upserted into dim_player. Re-running with the same rosters is a no-op:
// once rewritten, a row no longer carries the synthetic prefix.
func (g *Gateway) BackfillSyntheticIDs(ctx context.Context, entries []identity.RosterEntry) (int64, error) {
	resolver := identity.BuildResolver(entries)
	if len(resolver) == 0 {
		return 0, nil
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin backfill: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`CREATE TEMP TABLE temp_player_id_map (k TEXT PRIMARY KEY, real_player_id TEXT) ON COMMIT DROP`,
	); err != nil {
		return 0, fmt.Errorf("create backfill map: %w", err)
	}

	rows := make([][]any, 0, len(resolver))
	for k, id := range resolver {
		rows = append(rows, []any{k, id})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"temp_player_id_map"},
		[]string{"k", "real_player_id"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return 0, fmt.Errorf("stage backfill map: %w", err)
	}

	// Rows whose resolved identity already exists under the same game key
	// are skipped so the primary key stays unique.
	updateSQL := fmt.Sprintf(`
		UPDATE %[1]s.%[2]s f
		SET player_id = m.real_player_id
		FROM temp_player_id_map m
		WHERE f.player_id LIKE '%[3]s%%'
		  AND lower(btrim(f.player_name)) || '|' || f.team_abbr || '|' || coalesce(f.position, '') = m.k
		  AND NOT EXISTS (
			SELECT 1 FROM %[1]s.%[2]s e
			WHERE e.game_id = f.game_id
			  AND e.season = f.season
			  AND e.week = f.week
			  AND e.team_abbr = f.team_abbr
			  AND e.opponent_abbr = f.opponent_abbr
			  AND e.time_slot = f.time_slot
			  AND e.position = f.position
			  AND e.player_id = m.real_player_id
		  )`,
		g.schema, config.FactTable, identity.SyntheticPrefix)

	tag, err := tx.Exec(ctx, updateSQL)
	if err != nil {
		return 0, fmt.Errorf("backfill facts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit backfill: %w", err)
	}

	if _, err := g.UpsertDimPlayers(ctx, backfillPlayers(entries, resolver)); err != nil {
		return tag.RowsAffected(), fmt.Errorf("backfill dim_player: %w", err)
	}

	g.logger.Info("Synthetic ids backfilled", "rewritten", tag.RowsAffected(), "map_size", len(resolver))
	return tag.RowsAffected(), nil
}

// backfillPlayers picks one dim_player row per resolved id, keeping the
// first roster entry whose key resolves to that id.
func backfillPlayers(entries []identity.RosterEntry, resolver identity.Resolver) []DimPlayer {
	seen := make(map[string]bool, len(resolver))
	players := make([]DimPlayer, 0, len(resolver))
	for _, e := range entries {
		if e.PlayerName == "" || e.Team == "" {
			continue
		}
		id, ok := resolver[identity.NormKey(e.PlayerName, e.Team, e.Position)]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		players = append(players, DimPlayer{
			PlayerID:   id,
			PlayerName: e.PlayerName,
			TeamAbbr:   e.Team,
			Position:   e.Position,
		})
	}
	return players
}
