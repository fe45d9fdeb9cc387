package warehouse

import (
	"context"
	"fmt"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
	"github.com/fourthdownlabs/timeslot-data/internal/gamekey"
	"github.com/fourthdownlabs/timeslot-data/internal/teams"
)

// DimPlayer is one dim_player row.
type DimPlayer struct {
	PlayerID   string
	PlayerName string
	TeamAbbr   string
	Position   string
}

var dimTeamTable = Table{
	Name:       config.DimTeamTable,
	Columns:    []string{"team_abbr", "team_name"},
	KeyColumns: []string{"team_abbr"},
	Policy:     UpsertNonKey,
}

var dimPlayerTable = Table{
	Name:       config.DimPlayerTable,
	Columns:    []string{"player_id", "player_name", "team_abbr", "position"},
	KeyColumns: []string{"player_id"},
	Policy:     UpsertNonKey,
}

// UpsertDimTeams writes the team reference. Re-running refreshes names in
// place.
func (g *Gateway) UpsertDimTeams(ctx context.Context, ts []teams.Team) (int64, error) {
	rows := make([][]any, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, []any{t.Abbr, t.Name})
	}
	return g.Merge(ctx, dimTeamTable, rows)
}

// UpsertDimPlayers writes player dimension rows, last write per player_id
// winning. Duplicate ids within the batch are collapsed keep-last before
// staging so the merge sees each id once.
func (g *Gateway) UpsertDimPlayers(ctx context.Context, players []DimPlayer) (int64, error) {
	seen := make(map[string]int, len(players))
	deduped := make([]DimPlayer, 0, len(players))
	for _, p := range players {
		if p.PlayerID == "" {
			continue
		}
		if i, ok := seen[p.PlayerID]; ok {
			deduped[i] = p
			continue
		}
		seen[p.PlayerID] = len(deduped)
		deduped = append(deduped, p)
	}

	rows := make([][]any, 0, len(deduped))
	for _, p := range deduped {
		rows = append(rows, []any{p.PlayerID, p.PlayerName, nilEmpty(p.TeamAbbr), nilEmpty(p.Position)})
	}
	return g.Merge(ctx, dimPlayerTable, rows)
}

// SeedTimeslotDim writes the six named slots keyed 1..6. The Unknown slot
// is never seeded; rows classified Unknown are dropped upstream.
func (g *Gateway) SeedTimeslotDim(ctx context.Context) error {
	sql := fmt.Sprintf(`INSERT INTO %s.%s (timeslot_key, time_slot) VALUES ($1, $2)
		ON CONFLICT (timeslot_key) DO UPDATE SET time_slot = EXCLUDED.time_slot`,
		g.schema, config.DimTimeslotTable)
	for i, slot := range gamekey.Slots() {
		if _, err := g.pool.Exec(ctx, sql, i+1, string(slot)); err != nil {
			return fmt.Errorf("seed timeslot dim: %w", err)
		}
	}
	return nil
}
