package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourthdownlabs/timeslot-data/internal/gamekey"
)

func f(v float64) *float64 { return &v }

func qbRow(passYds, passTDs, ints float64) Row {
	return Row{
		GameID: "2024_01_KC_LV", Season: 2024, Week: 1,
		Team: "KC", Opponent: "LV", TimeSlot: gamekey.SlotSundayNight,
		PlayerID: "1", PlayerName: "A", Position: "QB",
		Stats: Stats{
			PassingYards:  f(passYds),
			PassingTDs:    f(passTDs),
			Interceptions: f(ints),
		},
	}
}

func TestBuildAveragesOneGroup(t *testing.T) {
	rows := []Row{qbRow(200, 2, 1), qbRow(300, 4, 0)}

	out := Build(rows, "2024–2024", false)
	require.Len(t, out, 1)

	row := out[0]
	assert.Equal(t, 250.0, *row.PassingYardsAvg)
	assert.Equal(t, 3.0, *row.PassingTDsAvg)
	assert.Equal(t, 0.5, *row.InterceptionsAvg)
	assert.Equal(t, "2024–2024", row.SeasonRange)
	assert.False(t, row.CurrentRosterOnly)
	assert.Equal(t, 1, row.GamesPlayed)
}

func TestBuildAbsentCategoriesStayNil(t *testing.T) {
	out := Build([]Row{qbRow(200, 2, 1)}, "2024–2024", false)
	require.Len(t, out, 1)

	// Never supplied upstream: nil, not zero.
	assert.Nil(t, out[0].RushingYardsAvg)
	assert.Nil(t, out[0].ReceptionsAvg)
	assert.Nil(t, out[0].SacksAvg)
}

func TestBuildDefInterceptionsSplit(t *testing.T) {
	def := qbRow(0, 0, 2)
	def.Position = "DEF"
	def.PlayerID = "def-1"

	out := Build([]Row{def, qbRow(200, 2, 1)}, "2024–2024", false)
	require.Len(t, out, 2)

	assert.Equal(t, 2.0, *out[0].DefInterceptionsAvg)
	assert.Equal(t, *out[0].InterceptionsAvg, *out[0].DefInterceptionsAvg)
	assert.Nil(t, out[1].DefInterceptionsAvg)
}

func TestBuildDistinctKeysDistinctRows(t *testing.T) {
	a := qbRow(100, 1, 0)
	b := qbRow(100, 1, 0)
	b.Week = 2
	b.GameID = "2024_02_LV_KC"

	out := Build([]Row{a, b}, "2024–2024", true)
	assert.Len(t, out, 2)
	assert.True(t, out[0].CurrentRosterOnly)
}

func TestDedupeByKeyKeepsLast(t *testing.T) {
	rows := Build([]Row{qbRow(200, 2, 1)}, "2024–2024", false)
	dup := rows[0]
	dup.PassingYardsAvg = f(999)

	deduped, removed := DedupeByKey([]FactRow{rows[0], dup})
	require.Len(t, deduped, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 999.0, *deduped[0].PassingYardsAvg)
}

func TestDedupeByKeyIgnoresPlayerName(t *testing.T) {
	// player_name is not part of the storage key; a name-only difference
	// still collides.
	a := Build([]Row{qbRow(200, 2, 1)}, "2024–2024", false)[0]
	b := a
	b.PlayerName = "A. Different"

	deduped, removed := DedupeByKey([]FactRow{a, b})
	require.Len(t, deduped, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "A. Different", deduped[0].PlayerName)
}

func TestDedupeByKeyNoCollisions(t *testing.T) {
	a := Build([]Row{qbRow(200, 2, 1)}, "2024–2024", false)[0]
	b := a
	b.PlayerID = "2"

	deduped, removed := DedupeByKey([]FactRow{a, b})
	assert.Len(t, deduped, 2)
	assert.Zero(t, removed)
}
