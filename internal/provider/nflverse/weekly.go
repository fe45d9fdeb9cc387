package nflverse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fourthdownlabs/timeslot-data/internal/facts"
)

// WeeklyRecord is one raw per-player per-game-week statistics row with the
// fixed internal schema. PlayerID is "" when the feed omitted it.
type WeeklyRecord struct {
	Season     int
	Week       int
	PlayerID   string
	PlayerName string
	Team       string
	Opponent   string
	Position   string
	Stats      facts.Stats
}

var weeklyColumns = []column{
	{"season", []string{"season"}, true},
	{"week", []string{"week"}, true},
	{"player_id", []string{"player_id", "gsis_id"}, false},
	{"player_name", []string{"player_name", "player_display_name", "player"}, true},
	{"team", []string{"team", "recent_team", "player_team"}, true},
	{"opponent", []string{"opponent", "opponent_team"}, true},
	{"position", []string{"position", "position_group"}, false},

	{"passing_yards", []string{"passing_yards"}, false},
	{"passing_tds", []string{"passing_tds"}, false},
	{"interceptions", []string{"interceptions"}, false},
	{"attempts", []string{"attempts"}, false},
	{"completions", []string{"completions"}, false},
	{"rushing_yards", []string{"rushing_yards"}, false},
	{"rushing_tds", []string{"rushing_tds"}, false},
	{"carries", []string{"carries", "rushing_attempts"}, false},
	{"receptions", []string{"receptions"}, false},
	{"receiving_yards", []string{"receiving_yards"}, false},
	{"receiving_tds", []string{"receiving_tds"}, false},
	{"sacks", []string{"sacks", "def_sacks"}, false},
	{"fumbles_recovered", []string{"fumbles_recovered", "def_fumble_recovery_opp"}, false},
}

// FetchWeekly downloads and parses the weekly player statistics feed for
// the given seasons.
func (c *Client) FetchWeekly(ctx context.Context, seasons []int) ([]WeeklyRecord, error) {
	var all []WeeklyRecord
	for _, season := range seasons {
		path := fmt.Sprintf("player_stats/player_stats_%d.csv", season)
		body, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("fetch weekly stats %d: %w", season, err)
		}
		rows, err := parseWeekly(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse weekly stats %d: %w", season, err)
		}
		c.logger.Info("Weekly stats fetched", "season", season, "rows", len(rows))
		all = append(all, rows...)
	}
	return all, nil
}

func parseWeekly(r io.Reader) ([]WeeklyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveHeader(hdr, weeklyColumns)
	if err != nil {
		return nil, err
	}

	var out []WeeklyRecord
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		season, ok := idx.intOK(rec, "season")
		if !ok {
			continue
		}
		week, ok := idx.intOK(rec, "week")
		if !ok {
			continue
		}

		out = append(out, WeeklyRecord{
			Season:     season,
			Week:       week,
			PlayerID:   idx.str(rec, "player_id"),
			PlayerName: idx.str(rec, "player_name"),
			Team:       idx.str(rec, "team"),
			Opponent:   idx.str(rec, "opponent"),
			Position:   idx.str(rec, "position"),
			Stats: facts.Stats{
				PassingYards:     idx.floatPtr(rec, "passing_yards"),
				PassingTDs:       idx.floatPtr(rec, "passing_tds"),
				Interceptions:    idx.floatPtr(rec, "interceptions"),
				Attempts:         idx.floatPtr(rec, "attempts"),
				Completions:      idx.floatPtr(rec, "completions"),
				RushingYards:     idx.floatPtr(rec, "rushing_yards"),
				RushingTDs:       idx.floatPtr(rec, "rushing_tds"),
				Carries:          idx.floatPtr(rec, "carries"),
				Receptions:       idx.floatPtr(rec, "receptions"),
				ReceivingYards:   idx.floatPtr(rec, "receiving_yards"),
				ReceivingTDs:     idx.floatPtr(rec, "receiving_tds"),
				Sacks:            idx.floatPtr(rec, "sacks"),
				FumblesRecovered: idx.floatPtr(rec, "fumbles_recovered"),
			},
		})
	}
	return out, nil
}
