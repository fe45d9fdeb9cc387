package nflverse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ScheduleRecord is one scheduled contest. Weekday and KickoffHour feed the
// time-slot classification; either may be absent, which classifies the game
// as Unknown downstream.
type ScheduleRecord struct {
	Season      int
	Week        int
	HomeTeam    string
	AwayTeam    string
	GameDate    *time.Time
	Weekday     string
	KickoffHour *int
}

var scheduleColumns = []column{
	{"season", []string{"season"}, true},
	{"week", []string{"week", "week_number"}, true},
	{"home_team", []string{"home_team", "team_home", "home"}, true},
	{"away_team", []string{"away_team", "team_away", "away"}, true},
	{"game_date", []string{"gameday", "game_date"}, false},
	{"weekday", []string{"weekday", "game_day_of_week"}, false},
	{"gametime", []string{"gametime", "game_time", "kickoff"}, false},
}

// FetchSchedules downloads the schedule feed and returns records for the
// requested seasons only.
func (c *Client) FetchSchedules(ctx context.Context, seasons []int) ([]ScheduleRecord, error) {
	body, err := c.get(ctx, "schedules/games.csv")
	if err != nil {
		return nil, fmt.Errorf("fetch schedules: %w", err)
	}
	defer body.Close()

	rows, err := parseSchedules(body, seasons)
	if err != nil {
		return nil, fmt.Errorf("parse schedules: %w", err)
	}
	c.logger.Info("Schedules fetched", "seasons", len(seasons), "rows", len(rows))
	return rows, nil
}

func parseSchedules(r io.Reader, seasons []int) ([]ScheduleRecord, error) {
	want := make(map[int]bool, len(seasons))
	for _, s := range seasons {
		want[s] = true
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveHeader(hdr, scheduleColumns)
	if err != nil {
		return nil, err
	}

	var out []ScheduleRecord
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		season, ok := idx.intOK(rec, "season")
		if !ok || !want[season] {
			continue
		}
		week, ok := idx.intOK(rec, "week")
		if !ok {
			continue
		}

		sr := ScheduleRecord{
			Season:      season,
			Week:        week,
			HomeTeam:    idx.str(rec, "home_team"),
			AwayTeam:    idx.str(rec, "away_team"),
			GameDate:    idx.timePtr(rec, "game_date"),
			Weekday:     idx.str(rec, "weekday"),
			KickoffHour: parseKickoffHour(idx.str(rec, "gametime")),
		}
		if sr.Weekday == "" && sr.GameDate != nil {
			sr.Weekday = sr.GameDate.Weekday().String()
		}
		out = append(out, sr)
	}
	return out, nil
}

// parseKickoffHour extracts the hour from a local "HH:MM" kickoff time.
func parseKickoffHour(s string) *int {
	if s == "" {
		return nil
	}
	h, _, ok := strings.Cut(s, ":")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || n < 0 || n > 23 {
		return nil
	}
	return &n
}
