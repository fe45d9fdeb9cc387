package nflverse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/fourthdownlabs/timeslot-data/internal/feed"
)

// LineRecord is one raw betting-line row. Book names are canonicalized and
// game ids joined by the lines package, not here.
type LineRecord struct {
	Season        int
	Week          int
	HomeTeam      string
	AwayTeam      string
	Book          string
	FavoriteTeam  string
	SpreadOpen    *float64
	SpreadClose   *float64
	TotalOpen     *float64
	TotalClose    *float64
	HomeMoneyline *int
	AwayMoneyline *int
	LineTimestamp *time.Time
}

var lineColumns = []column{
	{"season", []string{"season"}, true},
	{"week", []string{"week", "week_number"}, true},
	{"home_team", []string{"home_team", "team_home", "home"}, true},
	{"away_team", []string{"away_team", "team_away", "away"}, true},
	{"book", []string{"provider", "book", "sportsbook"}, false},
	{"spread_open", []string{"spread_open", "spreadline_open", "spread_opening"}, false},
	{"spread_close", []string{"spread_close", "spreadline_close", "spread_closing", "spread"}, false},
	{"total_open", []string{"total_open", "total_opening"}, false},
	{"total_close", []string{"total_close", "total_closing", "total"}, false},
	{"favorite", []string{"favorite", "favorite_team"}, false},
	{"home_moneyline", []string{"home_moneyline", "ml_home"}, false},
	{"away_moneyline", []string{"away_moneyline", "ml_away"}, false},
	{"line_timestamp", []string{"timestamp", "line_timestamp", "updated_at"}, false},
}

// FetchLines downloads the betting-lines feed for the given seasons.
// The whole feed is best-effort: any fetch or parse failure degrades to
// Unavailable, which the pipeline treats as an empty batch.
func (c *Client) FetchLines(ctx context.Context, seasons []int) feed.Result[[]LineRecord] {
	body, err := c.get(ctx, "betting_lines/betting_lines.csv")
	if err != nil {
		return feed.Unavailable[[]LineRecord](err.Error())
	}
	defer body.Close()

	rows, err := parseLines(body, seasons)
	if err != nil {
		return feed.Unavailable[[]LineRecord](err.Error())
	}
	c.logger.Info("Betting lines fetched", "rows", len(rows))
	return feed.Ok(rows)
}

func parseLines(r io.Reader, seasons []int) ([]LineRecord, error) {
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
	idx, err := resolveHeader(hdr, lineColumns)
	if err != nil {
		return nil, err
	}

	var out []LineRecord
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

		out = append(out, LineRecord{
			Season:        season,
			Week:          week,
			HomeTeam:      idx.str(rec, "home_team"),
			AwayTeam:      idx.str(rec, "away_team"),
			Book:          idx.str(rec, "book"),
			FavoriteTeam:  idx.str(rec, "favorite"),
			SpreadOpen:    idx.floatPtr(rec, "spread_open"),
			SpreadClose:   idx.floatPtr(rec, "spread_close"),
			TotalOpen:     idx.floatPtr(rec, "total_open"),
			TotalClose:    idx.floatPtr(rec, "total_close"),
			HomeMoneyline: idx.intPtr(rec, "home_moneyline"),
			AwayMoneyline: idx.intPtr(rec, "away_moneyline"),
			LineTimestamp: idx.timePtr(rec, "line_timestamp"),
		})
	}
	return out, nil
}
