package theodds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourthdownlabs/timeslot-data/internal/teams"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestPairOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{Name: "Over", Description: "Patrick Mahomes", Point: fp(275.5), Price: ip(-110)},
		{Name: "Under", Description: "Patrick Mahomes", Point: fp(275.5), Price: ip(-115)},
		{Name: "Over", Description: "Travis Kelce", Point: fp(5.5), Price: ip(105)},
	}

	pairs := pairOutcomes(outcomes)
	require.Len(t, pairs, 2)

	assert.Equal(t, "Patrick Mahomes", pairs[0].player)
	assert.Equal(t, 275.5, *pairs[0].point)
	assert.Equal(t, -110, *pairs[0].over)
	assert.Equal(t, -115, *pairs[0].under)

	assert.Equal(t, "Travis Kelce", pairs[1].player)
	assert.Equal(t, 105, *pairs[1].over)
	assert.Nil(t, pairs[1].under)
}

func TestMatchGamePrefersDateWindow(t *testing.T) {
	early := time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC)
	late := time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)

	games := []ScheduledGame{
		{GameID: "2024_01_KC_LV", Season: 2024, Week: 1, HomeTeam: "KC", AwayTeam: "LV", GameDate: &early},
		{GameID: "2024_13_KC_LV", Season: 2024, Week: 13, HomeTeam: "KC", AwayTeam: "LV", GameDate: &late},
	}

	g, ok := matchGame(games, "KC", "LV", late.Add(-6*time.Hour))
	require.True(t, ok)
	assert.Equal(t, "2024_13_KC_LV", g.GameID)

	// Outside every window: falls back to the first matchup.
	g, ok = matchGame(games, "KC", "LV", time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "2024_01_KC_LV", g.GameID)

	_, ok = matchGame(games, "SF", "SEA", early)
	assert.False(t, ok)
}

func TestFetchPropsEndToEnd(t *testing.T) {
	gameDate := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sports/americanfootball_nfl/events/":
			fmt.Fprint(w, `[
				{"id":"ev1","commence_time":"2024-09-08T17:00:00Z","home_team":"Kansas City Chiefs","away_team":"Las Vegas Raiders"},
				{"id":"ev2","commence_time":"2024-09-08T20:00:00Z","home_team":"Unknown FC","away_team":"Mystery United"}
			]`)
		case "/sports/americanfootball_nfl/events/ev1/odds/":
			fmt.Fprint(w, `{"bookmakers":[
				{"title":"DraftKings","markets":[{"key":"player_pass_yds","outcomes":[
					{"name":"Over","description":"Patrick Mahomes","point":275.5,"price":-110},
					{"name":"Under","description":"Patrick Mahomes","point":275.5,"price":-115}
				]}]},
				{"title":"BetMGM","markets":[{"key":"player_pass_yds","outcomes":[
					{"name":"Over","description":"Patrick Mahomes","point":274.5,"price":-105}
				]}]}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", slog.Default())
	c.baseURL = srv.URL

	games := []ScheduledGame{
		{GameID: "2024_01_KC_LV", Season: 2024, Week: 1, HomeTeam: "KC", AwayTeam: "LV", GameDate: &gameDate},
	}

	res := FetchProps(context.Background(), c, SportKeyNFL, games, teams.AliasMap(),
		[]string{"draftkings"}, []string{"player_pass_yds"}, slog.Default())

	rows, ok := res.Get()
	require.True(t, ok)
	require.Len(t, rows, 1) // BetMGM filtered, unknown matchup skipped

	row := rows[0]
	assert.Equal(t, "2024_01_KC_LV", row.GameID)
	assert.Equal(t, 202401, row.SeasonWeek)
	assert.Equal(t, "DraftKings", row.Book)
	assert.Equal(t, "Patrick Mahomes", row.PlayerName)
	assert.Equal(t, 275.5, *row.LineValue)
	assert.Equal(t, -110, *row.OverOdds)
	assert.Equal(t, -115, *row.UnderOdds)
}

func TestFetchPropsDisabledWithoutKey(t *testing.T) {
	require.Nil(t, NewClient("", slog.Default()))

	res := FetchProps(context.Background(), nil, SportKeyNFL, nil, nil, nil, nil, slog.Default())
	_, ok := res.Get()
	assert.False(t, ok)
	assert.NotEmpty(t, res.Reason())
	assert.Empty(t, res.OrEmpty())
}
