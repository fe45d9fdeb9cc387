package nflverse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeaderAliases(t *testing.T) {
	hdr := []string{"Season", "week", "recent_team", "opponent_team", "player_display_name"}
	idx, err := resolveHeader(hdr, []column{
		{"season", []string{"season"}, true},
		{"week", []string{"week"}, true},
		{"team", []string{"team", "recent_team", "player_team"}, true},
		{"opponent", []string{"opponent", "opponent_team"}, true},
		{"player_name", []string{"player_name", "player_display_name"}, true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, idx["team"])
	assert.Equal(t, 3, idx["opponent"])
	assert.Equal(t, 4, idx["player_name"])
}

func TestResolveHeaderMissingRequired(t *testing.T) {
	_, err := resolveHeader([]string{"season", "week"}, []column{
		{"team", []string{"team", "recent_team"}, true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"team"`)
}

func TestParseWeeklyAliasedColumnsAndSentinels(t *testing.T) {
	csvData := strings.Join([]string{
		"season,week,player_id,player_display_name,recent_team,opponent_team,position,passing_yards,passing_tds,interceptions",
		"2024,1,00-001,P. Mahomes,KC,LV,QB,291,2,0",
		"2024,1,NA,J. Unknown,KC,LV,WR,NA,NA,NA",
		"2024,1,None,T. Sentinel,LV,KC,nan,12.0,,1",
	}, "\n")

	rows, err := parseWeekly(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "00-001", rows[0].PlayerID)
	assert.Equal(t, "KC", rows[0].Team)
	assert.Equal(t, "LV", rows[0].Opponent)
	assert.Equal(t, 291.0, *rows[0].Stats.PassingYards)

	// Null sentinels become absent, never the literal string.
	assert.Equal(t, "", rows[1].PlayerID)
	assert.Nil(t, rows[1].Stats.PassingYards)

	assert.Equal(t, "", rows[2].PlayerID)
	assert.Equal(t, "", rows[2].Position)
	assert.Equal(t, 12.0, *rows[2].Stats.PassingYards)
	assert.Nil(t, rows[2].Stats.PassingTDs)
}

func TestParseWeeklyMissingTeamColumnIsFatal(t *testing.T) {
	csvData := "season,week,player_name,opponent\n2024,1,A,LV\n"
	_, err := parseWeekly(strings.NewReader(csvData))
	require.Error(t, err)
}

func TestParseSchedulesDerivesWeekdayAndHour(t *testing.T) {
	csvData := strings.Join([]string{
		"season,week,home_team,away_team,gameday,gametime",
		"2024,1,KC,LV,2024-09-08,13:05",
		"2024,1,SF,SEA,2024-09-05,",
		"2023,1,NE,BUF,2023-09-10,13:00",
	}, "\n")

	rows, err := parseSchedules(strings.NewReader(csvData), []int{2024})
	require.NoError(t, err)
	require.Len(t, rows, 2) // 2023 filtered out

	// 2024-09-08 was a Sunday.
	assert.Equal(t, "Sunday", rows[0].Weekday)
	require.NotNil(t, rows[0].KickoffHour)
	assert.Equal(t, 13, *rows[0].KickoffHour)

	assert.Equal(t, "Thursday", rows[1].Weekday)
	assert.Nil(t, rows[1].KickoffHour)
}

func TestParseKickoffHour(t *testing.T) {
	h := parseKickoffHour("20:20")
	require.NotNil(t, h)
	assert.Equal(t, 20, *h)

	assert.Nil(t, parseKickoffHour(""))
	assert.Nil(t, parseKickoffHour("kickoff"))
	assert.Nil(t, parseKickoffHour("25:00"))
}

func TestParseRosters(t *testing.T) {
	csvData := strings.Join([]string{
		"season,gsis_id,full_name,team,depth_chart_position",
		"2024,00-001,Patrick Mahomes,KC,QB",
		"2024,NA,Practice Squad,KC,",
	}, "\n")

	rows, err := parseRosters(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "00-001", rows[0].PlayerID)
	assert.Equal(t, "Patrick Mahomes", rows[0].PlayerName)
	assert.Equal(t, "QB", rows[0].Position)
	assert.Equal(t, "", rows[1].PlayerID)
}

func TestParseLinesAliases(t *testing.T) {
	csvData := strings.Join([]string{
		"season,week,team_home,team_away,sportsbook,spread,total,ml_home,ml_away,updated_at",
		"2024,1,KC,LV,draft kings,-7.5,47.5,-320,260,2024-09-07T12:00:00Z",
		"2024,1,SF,SEA,,NA,NA,NA,NA,",
	}, "\n")

	rows, err := parseLines(strings.NewReader(csvData), []int{2024})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "draft kings", rows[0].Book)
	assert.Equal(t, -7.5, *rows[0].SpreadClose)
	assert.Equal(t, 47.5, *rows[0].TotalClose)
	assert.Equal(t, -320, *rows[0].HomeMoneyline)
	require.NotNil(t, rows[0].LineTimestamp)

	assert.Equal(t, "", rows[1].Book)
	assert.Nil(t, rows[1].SpreadClose)
	assert.Nil(t, rows[1].LineTimestamp)
}
