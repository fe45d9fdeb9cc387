package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourthdownlabs/timeslot-data/internal/facts"
	"github.com/fourthdownlabs/timeslot-data/internal/gamekey"
	"github.com/fourthdownlabs/timeslot-data/internal/identity"
	"github.com/fourthdownlabs/timeslot-data/internal/lines"
	"github.com/fourthdownlabs/timeslot-data/internal/provider/theodds"
)

func TestMergeSQLInsertOnly(t *testing.T) {
	sql := mergeSQL("nfl", FactPlayerTimeslot, "tmp_fact_player_timeslot")

	assert.Contains(t, sql, "INSERT INTO nfl.fact_player_timeslot")
	assert.Contains(t, sql, "FROM tmp_fact_player_timeslot")
	assert.Contains(t, sql, "ON CONFLICT (game_id, season, week, team_abbr, opponent_abbr, time_slot, player_id, position) DO NOTHING")
	assert.NotContains(t, sql, "DO UPDATE")
}

func TestMergeSQLUpsertNonKey(t *testing.T) {
	sql := mergeSQL("nfl", dimPlayerTable, "tmp_dim_player")

	assert.Contains(t, sql, "ON CONFLICT (player_id) DO UPDATE SET")
	assert.Contains(t, sql, "player_name = EXCLUDED.player_name")
	assert.Contains(t, sql, "team_abbr = EXCLUDED.team_abbr")
	assert.Contains(t, sql, "position = EXCLUDED.position")
	// Key columns are never assigned in the update list.
	assert.NotContains(t, sql, "player_id = EXCLUDED.player_id")
}

func TestFactValuesMatchesColumnOrder(t *testing.T) {
	yards := 212.5
	f := facts.FactRow{
		GameID:       "2023_05_KC_DEN",
		Season:       2023,
		Week:         5,
		TeamAbbr:     "KC",
		OpponentAbbr: "DEN",
		TimeSlot:     gamekey.SlotSundayNight,
		PlayerID:     "00-0033873",
		PlayerName:   "Patrick Mahomes",
		Position:     "QB",

		PassingYardsAvg: &yards,

		GamesPlayed:       1,
		SeasonRange:       "2022–2024",
		CurrentRosterOnly: false,
	}

	vals := FactValues(f)
	require.Len(t, vals, len(FactPlayerTimeslot.Columns))

	byCol := make(map[string]any, len(vals))
	for i, c := range FactPlayerTimeslot.Columns {
		byCol[c] = vals[i]
	}
	assert.Equal(t, "2023_05_KC_DEN", byCol["game_id"])
	assert.Equal(t, "Sunday Night", byCol["time_slot"])
	assert.Equal(t, &yards, byCol["passing_yards_avg"])
	assert.Nil(t, byCol["rushing_yards_avg"])
	assert.Equal(t, 1, byCol["games_played"])
	assert.Equal(t, "2022–2024", byCol["season_range"])
}

func TestLineValuesMatchesColumnOrder(t *testing.T) {
	ts := time.Date(2023, 10, 12, 18, 0, 0, 0, time.UTC)
	spread := -3.5
	l := lines.Row{
		GameID:        "2023_06_DEN_KC",
		Season:        2023,
		Week:          6,
		Book:          "DraftKings",
		HomeTeam:      "DEN",
		AwayTeam:      "KC",
		SpreadClose:   &spread,
		LineTimestamp: &ts,
	}

	vals := LineValues(l)
	require.Len(t, vals, len(DimVegasLines.Columns))
	assert.Equal(t, "DraftKings", vals[3])
	// Empty favorite and source become NULL, not empty string.
	assert.Nil(t, vals[6])
	assert.Nil(t, vals[13])
}

func TestPropValuesMatchesColumnOrder(t *testing.T) {
	line := 275.5
	over, under := -110, -105
	p := theodds.PropRow{
		GameID:     "2024_01_BAL_KC",
		Season:     2024,
		Week:       1,
		SeasonWeek: 202401,
		Book:       "draftkings",
		PlayerName: "Lamar Jackson",
		Market:     "player_pass_yds",
		LineValue:  &line,
		OverOdds:   &over,
		UnderOdds:  &under,
		TS:         time.Now().UTC(),
	}

	vals := PropValues(p)
	require.Len(t, vals, len(FactPlayerPropLines.Columns))
	assert.Equal(t, 202401, vals[3])
	assert.Nil(t, vals[5]) // unresolved player_id stages as NULL
}

func TestDeleteSeasonsSQLCoversAllSeasonScopedTables(t *testing.T) {
	stmts := deleteSeasonsSQL("nfl")

	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "nfl.fact_player_timeslot")
	assert.Contains(t, stmts[1], "nfl.dim_vegas_lines")
	assert.Contains(t, stmts[2], "nfl.fact_player_prop_lines")
	for _, s := range stmts {
		assert.Contains(t, s, "WHERE season = ANY($1)")
	}
}

func TestChunkRowsBoundsSliceSizesAndKeepsOrder(t *testing.T) {
	rows := make([][]any, 2500)
	for i := range rows {
		rows[i] = []any{i}
	}

	chunks := chunkRows(rows, 1000)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 500)
	assert.Equal(t, 0, chunks[0][0][0])
	assert.Equal(t, 2499, chunks[2][499][0])

	assert.Empty(t, chunkRows(nil, 1000))
	assert.Len(t, chunkRows(rows[:1000], 1000), 1)
}

func TestTableKeysAreSubsetOfColumns(t *testing.T) {
	for _, tbl := range []Table{FactPlayerTimeslot, DimVegasLines, FactPlayerPropLines, dimTeamTable, dimPlayerTable} {
		cols := make(map[string]bool, len(tbl.Columns))
		for _, c := range tbl.Columns {
			cols[c] = true
		}
		for _, k := range tbl.KeyColumns {
			assert.Truef(t, cols[k], "table %s: key column %s missing from column list", tbl.Name, k)
		}
	}
}

func TestBackfillPlayersKeepsFirstPerResolvedID(t *testing.T) {
	entries := []identity.RosterEntry{
		{PlayerID: "00-001", PlayerName: "Aaron Jones", Team: "GB", Position: "RB"},
		{PlayerID: "00-001", PlayerName: "Aaron Jones", Team: "MIN", Position: "RB"},
	}
	resolver := identity.BuildResolver(entries)

	players := backfillPlayers(entries, resolver)
	require.Len(t, players, 1)
	assert.Equal(t, "00-001", players[0].PlayerID)
	assert.Equal(t, "GB", players[0].TeamAbbr)
}
