package warehouse

import (
	"time"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
	"github.com/fourthdownlabs/timeslot-data/internal/facts"
	"github.com/fourthdownlabs/timeslot-data/internal/lines"
	"github.com/fourthdownlabs/timeslot-data/internal/provider/theodds"
)

// FactPlayerTimeslot is the aggregated fact table. Insert-only: a stored
// fact row is never rewritten by the gateway.
var FactPlayerTimeslot = Table{
	Name: config.FactTable,
	Columns: []string{
		"game_id", "season", "week", "team_abbr", "opponent_abbr", "time_slot",
		"player_id", "player_name", "position",
		"passing_yards_avg", "passing_tds_avg", "interceptions_avg",
		"attempts_avg", "completions_avg",
		"rushing_yards_avg", "rushing_tds_avg", "carries_avg",
		"receptions_avg", "receiving_yards_avg", "receiving_tds_avg",
		"sacks_avg", "def_interceptions_avg", "fumbles_recovered_avg",
		"total_touchdowns_avg",
		"games_played", "season_range", "current_roster_only",
	},
	KeyColumns: []string{
		"game_id", "season", "week", "team_abbr", "opponent_abbr",
		"time_slot", "player_id", "position",
	},
	Policy: InsertOnly,
}

// FactValues flattens a fact row into FactPlayerTimeslot column order.
func FactValues(f facts.FactRow) []any {
	return []any{
		f.GameID, f.Season, f.Week, f.TeamAbbr, f.OpponentAbbr, string(f.TimeSlot),
		f.PlayerID, f.PlayerName, f.Position,
		f.PassingYardsAvg, f.PassingTDsAvg, f.InterceptionsAvg,
		f.AttemptsAvg, f.CompletionsAvg,
		f.RushingYardsAvg, f.RushingTDsAvg, f.CarriesAvg,
		f.ReceptionsAvg, f.ReceivingYardsAvg, f.ReceivingTDsAvg,
		f.SacksAvg, f.DefInterceptionsAvg, f.FumblesRecoveredAvg,
		f.TotalTouchdownsAvg,
		f.GamesPlayed, f.SeasonRange, f.CurrentRosterOnly,
	}
}

// DimVegasLines holds betting lines. Insert-only on
// (game_id, book, line_timestamp).
var DimVegasLines = Table{
	Name: config.DimVegasLinesTable,
	Columns: []string{
		"game_id", "season", "week", "book", "home_team", "away_team",
		"favorite_team", "spread_open", "spread_close", "total_open",
		"total_close", "home_moneyline", "away_moneyline", "line_source",
		"line_timestamp",
	},
	KeyColumns: []string{"game_id", "book", "line_timestamp"},
	Policy:     InsertOnly,
}

// LineValues flattens a line row into DimVegasLines column order. A missing
// line_timestamp is stored as the Unix epoch: the column is part of the
// primary key and cannot be null.
func LineValues(l lines.Row) []any {
	ts := time.Unix(0, 0).UTC()
	if l.LineTimestamp != nil {
		ts = *l.LineTimestamp
	}
	return []any{
		l.GameID, l.Season, l.Week, l.Book, l.HomeTeam, l.AwayTeam,
		nilEmpty(l.FavoriteTeam), l.SpreadOpen, l.SpreadClose, l.TotalOpen,
		l.TotalClose, l.HomeMoneyline, l.AwayMoneyline, nilEmpty(l.LineSource),
		ts,
	}
}

// FactPlayerPropLines holds player-prop odds. Insert-only on
// (game_id, book, player_name, market, ts).
var FactPlayerPropLines = Table{
	Name: config.PropsTable,
	Columns: []string{
		"game_id", "season", "week", "seasonweek", "book", "player_id",
		"player_name", "market", "line_value", "over_odds", "under_odds", "ts",
	},
	KeyColumns: []string{"game_id", "book", "player_name", "market", "ts"},
	Policy:     InsertOnly,
}

// PropValues flattens a prop row into FactPlayerPropLines column order.
func PropValues(p theodds.PropRow) []any {
	return []any{
		p.GameID, p.Season, p.Week, p.SeasonWeek, p.Book, nilEmpty(p.PlayerID),
		p.PlayerName, p.Market, p.LineValue, p.OverOdds, p.UnderOdds, p.TS,
	}
}

// nilEmpty maps empty strings to SQL NULL.
func nilEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
