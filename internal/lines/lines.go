// Package lines turns raw betting-line records into dim_vegas_lines rows:
// canonicalizes book names, joins game ids from the schedule, and applies
// the configured book filter.
package lines

import (
	"strings"
	"time"

	"github.com/fourthdownlabs/timeslot-data/internal/gamekey"
	"github.com/fourthdownlabs/timeslot-data/internal/provider/nflverse"
)

// Row is one dim_vegas_lines row.
type Row struct {
	GameID        string
	Season        int
	Week          int
	Book          string
	HomeTeam      string
	AwayTeam      string
	FavoriteTeam  string
	SpreadOpen    *float64
	SpreadClose   *float64
	TotalOpen     *float64
	TotalClose    *float64
	HomeMoneyline *int
	AwayMoneyline *int
	LineSource    string
	LineTimestamp *time.Time
}

// bookNames maps lowercased variants onto the canonical book name.
var bookNames = map[string]string{
	"draftkings": "DraftKings", "draft kings": "DraftKings", "dk": "DraftKings",
	"fanduel": "FanDuel", "fan duel": "FanDuel", "fd": "FanDuel",
	"fanatics": "Fanatics", "fanatics sportsbook": "Fanatics", "betfanatics": "Fanatics",
}

// NormalizeBook canonicalizes a sportsbook name. Exact variants first, then
// loose contains rules; unrecognized names pass through trimmed.
func NormalizeBook(s string) string {
	b := strings.TrimSpace(s)
	low := strings.ToLower(b)
	if canon, ok := bookNames[low]; ok {
		return canon
	}
	switch {
	case strings.Contains(low, "draft") && strings.Contains(low, "king"):
		return "DraftKings"
	case strings.Contains(low, "fan") && strings.Contains(low, "duel"):
		return "FanDuel"
	case strings.Contains(low, "fanatic"):
		return "Fanatics"
	}
	return b
}

// Build joins raw line records with the schedule to stamp game ids, drops
// rows with no scheduled game, normalizes book names, and filters to the
// wanted books (empty filter keeps everything).
func Build(records []nflverse.LineRecord, schedule []nflverse.ScheduleRecord, bookFilter []string) []Row {
	type schedKey struct {
		season, week int
		home, away   string
	}
	gameIDs := make(map[schedKey]string, len(schedule))
	for _, s := range schedule {
		k := schedKey{s.Season, s.Week, s.HomeTeam, s.AwayTeam}
		gameIDs[k] = gamekey.GameID(s.Season, s.Week, s.HomeTeam, s.AwayTeam)
	}

	wanted := make(map[string]bool, len(bookFilter))
	for _, b := range bookFilter {
		wanted[NormalizeBook(b)] = true
	}

	var out []Row
	for _, r := range records {
		gameID, ok := gameIDs[schedKey{r.Season, r.Week, r.HomeTeam, r.AwayTeam}]
		if !ok {
			continue
		}
		book := NormalizeBook(r.Book)
		if len(wanted) > 0 && !wanted[book] {
			continue
		}
		out = append(out, Row{
			GameID:        gameID,
			Season:        r.Season,
			Week:          r.Week,
			Book:          book,
			HomeTeam:      r.HomeTeam,
			AwayTeam:      r.AwayTeam,
			FavoriteTeam:  r.FavoriteTeam,
			SpreadOpen:    r.SpreadOpen,
			SpreadClose:   r.SpreadClose,
			TotalOpen:     r.TotalOpen,
			TotalClose:    r.TotalClose,
			HomeMoneyline: r.HomeMoneyline,
			AwayMoneyline: r.AwayMoneyline,
			LineSource:    "nflverse",
			LineTimestamp: r.LineTimestamp,
		})
	}
	return out
}
