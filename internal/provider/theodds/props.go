package theodds

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fourthdownlabs/timeslot-data/internal/feed"
)

// PropRow is one fact_player_prop_lines row. PlayerID is left empty at
// ingest; the column exists so a later pass can attach canonical ids.
type PropRow struct {
	GameID     string
	Season     int
	Week       int
	SeasonWeek int
	Book       string
	PlayerID   string
	PlayerName string
	Market     string
	LineValue  *float64
	OverOdds   *int
	UnderOdds  *int
	TS         time.Time
}

// ScheduledGame is the slice of schedule data prop matching needs.
type ScheduledGame struct {
	GameID   string
	Season   int
	Week     int
	HomeTeam string
	AwayTeam string
	GameDate *time.Time
}

// FetchProps fetches player props for every provider event that matches a
// scheduled game. nameToAbbr maps the provider's free-form team names to
// abbreviations; books (lowercased) and markets come from configuration.
// A nil client or a failed event listing degrades to Unavailable; one
// event's odds fetch failing skips that event only.
func FetchProps(
	ctx context.Context,
	c *Client,
	sportKey string,
	games []ScheduledGame,
	nameToAbbr map[string]string,
	books, markets []string,
	logger *slog.Logger,
) feed.Result[[]PropRow] {
	if c == nil {
		return feed.Unavailable[[]PropRow]("no odds API key configured")
	}

	events, err := c.Events(ctx, sportKey)
	if err != nil {
		return feed.Unavailable[[]PropRow](err.Error())
	}
	if len(events) == 0 {
		return feed.Ok[[]PropRow](nil)
	}

	wantBook := make(map[string]bool, len(books))
	for _, b := range books {
		wantBook[strings.ToLower(b)] = true
	}

	now := time.Now().UTC()
	var rows []PropRow

	for _, ev := range events {
		home := nameToAbbr[strings.ToLower(strings.TrimSpace(ev.HomeTeam))]
		away := nameToAbbr[strings.ToLower(strings.TrimSpace(ev.AwayTeam))]
		if home == "" || away == "" {
			continue
		}

		game, ok := matchGame(games, home, away, ev.CommenceTime)
		if !ok {
			continue
		}

		odds, err := c.EventOdds(ctx, sportKey, ev.ID, markets)
		if err != nil {
			logger.Warn("Skipping event, odds fetch failed", "event_id", ev.ID, "error", err)
			continue
		}

		for _, bk := range odds.Bookmakers {
			book := strings.TrimSpace(bk.Title)
			if len(wantBook) > 0 && !wantBook[strings.ToLower(book)] {
				continue
			}
			for _, m := range bk.Markets {
				for _, p := range pairOutcomes(m.Outcomes) {
					rows = append(rows, PropRow{
						GameID:     game.GameID,
						Season:     game.Season,
						Week:       game.Week,
						SeasonWeek: game.Season*100 + game.Week,
						Book:       book,
						PlayerName: p.player,
						Market:     m.Key,
						LineValue:  p.point,
						OverOdds:   p.over,
						UnderOdds:  p.under,
						TS:         now,
					})
				}
			}
		}
	}
	return feed.Ok(rows)
}

// matchGame finds the scheduled game for a matchup, preferring one whose
// date falls within two days of the event's commence time.
func matchGame(games []ScheduledGame, home, away string, commence time.Time) (ScheduledGame, bool) {
	var fallback ScheduledGame
	found := false
	for _, g := range games {
		if g.HomeTeam != home || g.AwayTeam != away {
			continue
		}
		if !found {
			fallback = g
			found = true
		}
		if g.GameDate != nil && !commence.IsZero() {
			if diff := commence.Sub(*g.GameDate); diff >= -48*time.Hour && diff <= 48*time.Hour {
				return g, true
			}
		}
	}
	return fallback, found
}

// pairedProp is one player/line pairing of Over and Under odds.
type pairedProp struct {
	player string
	point  *float64
	over   *int
	under  *int
}

// pairOutcomes folds separate Over/Under outcome rows into one pairing per
// (player, line), preserving first-seen order.
func pairOutcomes(outcomes []Outcome) []pairedProp {
	type pairKey struct {
		player   string
		point    float64
		hasPoint bool
	}

	index := make(map[pairKey]int)
	var pairs []pairedProp

	for _, out := range outcomes {
		player := out.Description
		if player == "" {
			player = out.Name
		}

		k := pairKey{player: player}
		if out.Point != nil {
			k.point, k.hasPoint = *out.Point, true
		}

		i, ok := index[k]
		if !ok {
			i = len(pairs)
			index[k] = i
			pairs = append(pairs, pairedProp{player: player, point: out.Point})
		}

		side := strings.ToLower(out.Name)
		if strings.Contains(side, "over") {
			pairs[i].over = out.Price
		}
		if strings.Contains(side, "under") {
			pairs[i].under = out.Price
		}
	}
	return pairs
}
