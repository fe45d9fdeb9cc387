// Package facts collapses resolved weekly observations into one canonical
// fact row per (game, period, team, opponent, time-slot, player, position)
// key. Statistical categories are nullable end to end: a category the feed
// never supplied stays nil in the output, distinguishing "no data" from
// "zero performance".
package facts

import "github.com/fourthdownlabs/timeslot-data/internal/gamekey"

// Stats holds the per-category values of one raw observation. Nil means the
// column was absent upstream.
type Stats struct {
	PassingYards     *float64
	PassingTDs       *float64
	Interceptions    *float64
	Attempts         *float64
	Completions      *float64
	RushingYards     *float64
	RushingTDs       *float64
	Carries          *float64
	Receptions       *float64
	ReceivingYards   *float64
	ReceivingTDs     *float64
	Sacks            *float64
	FumblesRecovered *float64
	TotalTouchdowns  *float64
}

// Row is one raw observation entering aggregation. GameID, TimeSlot, and
// PlayerID must already be stamped by the caller.
type Row struct {
	GameID     string
	Season     int
	Week       int
	Team       string
	Opponent   string
	TimeSlot   gamekey.Slot
	PlayerID   string
	PlayerName string
	Position   string
	Stats      Stats
}

// FactRow is one aggregated observation, keyed for fact_player_timeslot.
type FactRow struct {
	GameID       string
	Season       int
	Week         int
	TeamAbbr     string
	OpponentAbbr string
	TimeSlot     gamekey.Slot
	PlayerID     string
	PlayerName   string
	Position     string

	PassingYardsAvg     *float64
	PassingTDsAvg       *float64
	InterceptionsAvg    *float64
	AttemptsAvg         *float64
	CompletionsAvg      *float64
	RushingYardsAvg     *float64
	RushingTDsAvg       *float64
	CarriesAvg          *float64
	ReceptionsAvg       *float64
	ReceivingYardsAvg   *float64
	ReceivingTDsAvg     *float64
	SacksAvg            *float64
	DefInterceptionsAvg *float64
	FumblesRecoveredAvg *float64
	TotalTouchdownsAvg  *float64

	GamesPlayed       int
	SeasonRange       string
	CurrentRosterOnly bool
}

// acc accumulates one category's mean over non-nil inputs.
type acc struct {
	sum float64
	n   int
}

func (a *acc) add(v *float64) {
	if v != nil {
		a.sum += *v
		a.n++
	}
}

func (a *acc) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	m := a.sum / float64(a.n)
	return &m
}

// group accumulates all categories for one aggregation key.
type group struct {
	first Row // key fields of the first row seen for this group

	passingYards, passingTDs, interceptions, attempts, completions acc
	rushingYards, rushingTDs, carries                              acc
	receptions, receivingYards, receivingTDs                       acc
	sacks, fumblesRecovered, totalTouchdowns                       acc
}

type groupKey struct {
	gameID       string
	season, week int
	team, opp    string
	timeSlot     gamekey.Slot
	playerID     string
	playerName   string
	position     string
}

// Build aggregates rows into fact rows. One output row is produced per
// distinct key, in first-encounter order. seasonRange and currentRosterOnly
// are provenance stamps applied uniformly across the batch.
func Build(rows []Row, seasonRange string, currentRosterOnly bool) []FactRow {
	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0, len(rows))

	for _, r := range rows {
		k := groupKey{
			gameID: r.GameID, season: r.Season, week: r.Week,
			team: r.Team, opp: r.Opponent, timeSlot: r.TimeSlot,
			playerID: r.PlayerID, playerName: r.PlayerName, position: r.Position,
		}
		g, ok := groups[k]
		if !ok {
			g = &group{first: r}
			groups[k] = g
			order = append(order, k)
		}
		g.passingYards.add(r.Stats.PassingYards)
		g.passingTDs.add(r.Stats.PassingTDs)
		g.interceptions.add(r.Stats.Interceptions)
		g.attempts.add(r.Stats.Attempts)
		g.completions.add(r.Stats.Completions)
		g.rushingYards.add(r.Stats.RushingYards)
		g.rushingTDs.add(r.Stats.RushingTDs)
		g.carries.add(r.Stats.Carries)
		g.receptions.add(r.Stats.Receptions)
		g.receivingYards.add(r.Stats.ReceivingYards)
		g.receivingTDs.add(r.Stats.ReceivingTDs)
		g.sacks.add(r.Stats.Sacks)
		g.fumblesRecovered.add(r.Stats.FumblesRecovered)
		g.totalTouchdowns.add(r.Stats.TotalTouchdowns)
	}

	out := make([]FactRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		f := FactRow{
			GameID:       k.gameID,
			Season:       k.season,
			Week:         k.week,
			TeamAbbr:     k.team,
			OpponentAbbr: k.opp,
			TimeSlot:     k.timeSlot,
			PlayerID:     k.playerID,
			PlayerName:   k.playerName,
			Position:     k.position,

			PassingYardsAvg:     g.passingYards.mean(),
			PassingTDsAvg:       g.passingTDs.mean(),
			InterceptionsAvg:    g.interceptions.mean(),
			AttemptsAvg:         g.attempts.mean(),
			CompletionsAvg:      g.completions.mean(),
			RushingYardsAvg:     g.rushingYards.mean(),
			RushingTDsAvg:       g.rushingTDs.mean(),
			CarriesAvg:          g.carries.mean(),
			ReceptionsAvg:       g.receptions.mean(),
			ReceivingYardsAvg:   g.receivingYards.mean(),
			ReceivingTDsAvg:     g.receivingTDs.mean(),
			SacksAvg:            g.sacks.mean(),
			FumblesRecoveredAvg: g.fumblesRecovered.mean(),
			TotalTouchdownsAvg:  g.totalTouchdowns.mean(),

			// Historical behavior kept on purpose: one fact row counts as
			// one game regardless of how many raw rows folded into it.
			// Downstream dashboards already rely on this.
			GamesPlayed:       1,
			SeasonRange:       seasonRange,
			CurrentRosterOnly: currentRosterOnly,
		}

		// Column split: defensive interceptions mirror the interceptions
		// average for team-defense rows only, all other positions stay nil.
		if k.position == "DEF" {
			f.DefInterceptionsAvg = f.InterceptionsAvg
		}

		out = append(out, f)
	}
	return out
}

// storageKey is the fact table's primary key: the aggregation key minus
// player_name.
type storageKey struct {
	gameID       string
	season, week int
	team, opp    string
	timeSlot     gamekey.Slot
	playerID     string
	position     string
}

// DedupeByKey drops fact rows colliding on the storage primary key, keeping
// the last row in order. Collisions arise from upstream joins (a schedule
// row matching both the home and away side), and would otherwise violate
// the fact table's uniqueness constraint. Returns the surviving rows and
// the number removed.
func DedupeByKey(rows []FactRow) ([]FactRow, int) {
	seen := make(map[storageKey]int, len(rows))
	out := make([]FactRow, 0, len(rows))

	for _, r := range rows {
		k := storageKey{
			gameID: r.GameID, season: r.Season, week: r.Week,
			team: r.TeamAbbr, opp: r.OpponentAbbr, timeSlot: r.TimeSlot,
			playerID: r.PlayerID, position: r.Position,
		}
		if i, ok := seen[k]; ok {
			out[i] = r
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}
