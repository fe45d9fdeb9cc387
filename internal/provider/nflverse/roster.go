package nflverse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fourthdownlabs/timeslot-data/internal/identity"
)

var rosterColumns = []column{
	{"player_id", []string{"player_id", "gsis_id"}, true},
	{"player_name", []string{"player_name", "full_name", "display_name"}, true},
	{"team", []string{"team", "recent_team"}, true},
	{"position", []string{"position", "depth_chart_position"}, false},
}

// FetchRosters downloads the seasonal roster feed for the given seasons.
// Entries may still carry empty ids or teams; consumers filter what they
// cannot use.
func (c *Client) FetchRosters(ctx context.Context, seasons []int) ([]identity.RosterEntry, error) {
	var all []identity.RosterEntry
	for _, season := range seasons {
		path := fmt.Sprintf("rosters/roster_%d.csv", season)
		body, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("fetch rosters %d: %w", season, err)
		}
		rows, err := parseRosters(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse rosters %d: %w", season, err)
		}
		c.logger.Info("Rosters fetched", "season", season, "rows", len(rows))
		all = append(all, rows...)
	}
	return all, nil
}

func parseRosters(r io.Reader) ([]identity.RosterEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveHeader(hdr, rosterColumns)
	if err != nil {
		return nil, err
	}

	var out []identity.RosterEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		out = append(out, identity.RosterEntry{
			PlayerID:   idx.str(rec, "player_id"),
			PlayerName: idx.str(rec, "player_name"),
			Team:       idx.str(rec, "team"),
			Position:   idx.str(rec, "position"),
		})
	}
	return out, nil
}
