package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fourthdownlabs/timeslot-data/internal/config"
	"github.com/fourthdownlabs/timeslot-data/internal/db"
	"github.com/fourthdownlabs/timeslot-data/internal/facts"
	"github.com/fourthdownlabs/timeslot-data/internal/gamekey"
	"github.com/fourthdownlabs/timeslot-data/internal/identity"
	"github.com/fourthdownlabs/timeslot-data/internal/lines"
	"github.com/fourthdownlabs/timeslot-data/internal/provider/nflverse"
	"github.com/fourthdownlabs/timeslot-data/internal/provider/theodds"
	"github.com/fourthdownlabs/timeslot-data/internal/teams"
	"github.com/fourthdownlabs/timeslot-data/internal/warehouse"
)

// Pipeline wires the feeds, the identity resolver, the aggregator, and the
// warehouse gateway into one runnable load.
type Pipeline struct {
	cfg    *config.Config
	gw     *warehouse.Gateway
	nfl    *nflverse.Client
	odds   *theodds.Client
	logger *slog.Logger
}

// New builds a pipeline over an open database pool. The odds client is nil
// when no API key is configured; the props stage then degrades gracefully.
func New(cfg *config.Config, pool *db.Pool, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		gw:     warehouse.NewGateway(pool.Pool, cfg.Schema, logger),
		nfl:    nflverse.NewClient(logger),
		odds:   theodds.NewClient(cfg.OddsAPIKey, logger),
		logger: logger,
	}
}

// Run executes a full load. Stat and schedule feeds are load-bearing: their
// failure aborts the run. Lines and props are best-effort: their failure is
// recorded and the load continues.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	if err := p.bootstrap(ctx); err != nil {
		return result, err
	}

	weekly, err := p.nfl.FetchWeekly(ctx, p.cfg.Years)
	if err != nil {
		return result, fmt.Errorf("weekly stats: %w", err)
	}
	result.WeeklyRows = len(weekly)

	schedules, err := p.nfl.FetchSchedules(ctx, p.cfg.Years)
	if err != nil {
		return result, fmt.Errorf("schedules: %w", err)
	}

	rosters, err := p.nfl.FetchRosters(ctx, p.cfg.Years)
	if err != nil {
		return result, fmt.Errorf("rosters: %w", err)
	}
	resolver := identity.BuildResolver(rosters)

	rows := p.stampRows(weekly, schedules, result)
	if p.cfg.DailyMode {
		rows = filterRecentWeeks(rows, p.cfg.RecentWeeks)
		p.logger.Info("Daily mode", "recent_weeks", p.cfg.RecentWeeks, "rows", len(rows))
	}
	rows = p.resolveIdentity(rows, resolver, result)

	// The dim_player snapshot mirrors the fact scope: the current roster
	// when filtering, otherwise the full season range with the latest
	// observation per player id winning.
	snapshot := rosters
	if p.cfg.CurrentRosterOnly {
		current, err := p.nfl.FetchRosters(ctx, []int{p.cfg.MaxYear()})
		if err != nil {
			return result, fmt.Errorf("current rosters: %w", err)
		}
		before := len(rows)
		rows = filterCurrentRoster(rows, current)
		p.logger.Info("Current-roster filter", "before", before, "after", len(rows))
		snapshot = current
	}

	if err := p.loadPlayers(ctx, snapshot, resolver); err != nil {
		return result, err
	}

	if err := p.loadFacts(ctx, rows, result); err != nil {
		return result, err
	}

	p.loadLines(ctx, schedules, result)

	if err := p.gw.AddIndexes(ctx); err != nil {
		return result, err
	}

	backfilled, err := p.gw.BackfillSyntheticIDs(ctx, rosters)
	if err != nil {
		return result, fmt.Errorf("identity backfill: %w", err)
	}
	result.BackfilledRows = backfilled

	p.loadProps(ctx, schedules, result)

	p.logger.Info("Load complete", "summary", result.Summary())
	return result, nil
}

// Backfill runs the identity backfill alone, without a load.
func (p *Pipeline) Backfill(ctx context.Context) (int64, error) {
	rosters, err := p.nfl.FetchRosters(ctx, p.cfg.Years)
	if err != nil {
		return 0, fmt.Errorf("rosters: %w", err)
	}
	return p.gw.BackfillSyntheticIDs(ctx, rosters)
}

// bootstrap makes sure the schema, tables, migrated columns, and static
// dimensions exist before any batch lands.
func (p *Pipeline) bootstrap(ctx context.Context) error {
	if err := p.gw.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := p.gw.CreateTables(ctx); err != nil {
		return err
	}
	if err := p.gw.EnsureFactColumns(ctx); err != nil {
		return err
	}
	if err := p.gw.EnsurePropsColumns(ctx); err != nil {
		return err
	}
	if err := p.gw.SeedTimeslotDim(ctx); err != nil {
		return err
	}
	if _, err := p.gw.UpsertDimTeams(ctx, teams.Reference()); err != nil {
		return err
	}
	return nil
}

// gameInfo is the schedule-derived stamp for one team's game in a week.
type gameInfo struct {
	gameID string
	slot   gamekey.Slot
}

// stampRows joins weekly observations to the schedule by (season, week,
// team), stamping game_id and time_slot, and derives total touchdowns.
// Rows with no schedule match or an Unknown slot are dropped and counted.
func (p *Pipeline) stampRows(weekly []nflverse.WeeklyRecord, schedules []nflverse.ScheduleRecord, result *RunResult) []facts.Row {
	type teamWeek struct {
		season, week int
		team         string
	}

	// Each scheduled game stamps both participants.
	stamps := make(map[teamWeek]gameInfo, len(schedules)*2)
	for _, s := range schedules {
		info := gameInfo{
			gameID: gamekey.GameID(s.Season, s.Week, s.HomeTeam, s.AwayTeam),
			slot:   gamekey.Classify(s.Weekday, s.KickoffHour),
		}
		stamps[teamWeek{s.Season, s.Week, s.HomeTeam}] = info
		stamps[teamWeek{s.Season, s.Week, s.AwayTeam}] = info
	}

	rows := make([]facts.Row, 0, len(weekly))
	for _, w := range weekly {
		info, ok := stamps[teamWeek{w.Season, w.Week, w.Team}]
		if !ok || info.slot == gamekey.SlotUnknown {
			result.UnknownSlotRows++
			continue
		}

		stats := w.Stats
		stats.TotalTouchdowns = totalTouchdowns(stats)

		rows = append(rows, facts.Row{
			GameID:     info.gameID,
			Season:     w.Season,
			Week:       w.Week,
			Team:       w.Team,
			Opponent:   w.Opponent,
			TimeSlot:   info.slot,
			PlayerID:   w.PlayerID,
			PlayerName: w.PlayerName,
			Position:   w.Position,
			Stats:      stats,
		})
	}
	return rows
}

// totalTouchdowns sums rushing and receiving touchdowns, treating an absent
// category as zero. The total is always present, unlike its inputs.
func totalTouchdowns(s facts.Stats) *float64 {
	var total float64
	if s.RushingTDs != nil {
		total += *s.RushingTDs
	}
	if s.ReceivingTDs != nil {
		total += *s.ReceivingTDs
	}
	return &total
}

// filterRecentWeeks keeps only the trailing n weeks of the latest season
// present in rows.
func filterRecentWeeks(rows []facts.Row, n int) []facts.Row {
	if len(rows) == 0 || n <= 0 {
		return rows
	}
	maxSeason, maxWeek := 0, 0
	for _, r := range rows {
		if r.Season > maxSeason {
			maxSeason, maxWeek = r.Season, r.Week
		} else if r.Season == maxSeason && r.Week > maxWeek {
			maxWeek = r.Week
		}
	}
	out := rows[:0]
	for _, r := range rows {
		if r.Season == maxSeason && r.Week > maxWeek-n {
			out = append(out, r)
		}
	}
	return out
}

// filterCurrentRoster keeps only rows whose resolved player id appears on
// the latest season's roster.
func filterCurrentRoster(rows []facts.Row, current []identity.RosterEntry) []facts.Row {
	ids := make(map[string]bool, len(current))
	for _, e := range current {
		if e.PlayerID != "" {
			ids[e.PlayerID] = true
		}
	}
	out := rows[:0]
	for _, r := range rows {
		if ids[r.PlayerID] {
			out = append(out, r)
		}
	}
	return out
}

// resolveIdentity stamps a player id on every row and counts the synthetic
// placeholders minted along the way.
func (p *Pipeline) resolveIdentity(rows []facts.Row, resolver identity.Resolver, result *RunResult) []facts.Row {
	for i := range rows {
		rows[i].PlayerID = resolver.Resolve(identity.Observation{
			PlayerID:   rows[i].PlayerID,
			PlayerName: rows[i].PlayerName,
			Team:       rows[i].Team,
			Position:   rows[i].Position,
			Season:     rows[i].Season,
			Week:       rows[i].Week,
			Opponent:   rows[i].Opponent,
		})
		if identity.IsSynthetic(rows[i].PlayerID) {
			result.SyntheticIDs++
		}
	}
	return rows
}

// loadPlayers snapshots the given roster scope into dim_player.
func (p *Pipeline) loadPlayers(ctx context.Context, rosters []identity.RosterEntry, resolver identity.Resolver) error {
	if _, err := p.gw.UpsertDimPlayers(ctx, playerSnapshot(rosters, resolver)); err != nil {
		return fmt.Errorf("dim_player: %w", err)
	}
	return nil
}

// playerSnapshot builds dim_player rows from roster entries, resolving
// missing ids through the resolver and dropping entries with no identity.
// Duplicate ids are allowed here; the dimension upsert keeps the last one.
func playerSnapshot(rosters []identity.RosterEntry, resolver identity.Resolver) []warehouse.DimPlayer {
	players := make([]warehouse.DimPlayer, 0, len(rosters))
	for _, e := range rosters {
		if e.PlayerName == "" || e.Team == "" {
			continue
		}
		id := e.PlayerID
		if id == "" {
			mapped, ok := resolver[identity.NormKey(e.PlayerName, e.Team, e.Position)]
			if !ok {
				continue
			}
			id = mapped
		}
		players = append(players, warehouse.DimPlayer{
			PlayerID:   id,
			PlayerName: e.PlayerName,
			TeamAbbr:   e.Team,
			Position:   e.Position,
		})
	}
	return players
}

// loadFacts aggregates, dedupes, optionally clears the target seasons, and
// merges the fact batch.
func (p *Pipeline) loadFacts(ctx context.Context, rows []facts.Row, result *RunResult) error {
	factRows := facts.Build(rows, p.cfg.SeasonRange(), p.cfg.CurrentRosterOnly)
	factRows, removed := facts.DedupeByKey(factRows)
	result.DedupedRows = removed

	// Replace mode clears whole seasons, so it only applies to full loads;
	// a daily load covers a few weeks and relies on insert-only conflicts.
	if p.cfg.ReplaceMode && !p.cfg.DailyMode {
		deleted, err := p.gw.DeleteSeasons(ctx, p.cfg.Years)
		if err != nil {
			return err
		}
		result.DeletedRows = deleted
	}

	batch := make([][]any, 0, len(factRows))
	for _, f := range factRows {
		batch = append(batch, warehouse.FactValues(f))
	}
	written, err := p.gw.Merge(ctx, warehouse.FactPlayerTimeslot, batch)
	if err != nil {
		return fmt.Errorf("fact merge: %w", err)
	}
	result.FactRows = written
	return nil
}

// loadLines fetches and merges the betting-lines feed. Best-effort.
func (p *Pipeline) loadLines(ctx context.Context, schedules []nflverse.ScheduleRecord, result *RunResult) {
	res := p.nfl.FetchLines(ctx, p.cfg.Years)
	records, ok := res.Get()
	if !ok {
		p.logger.Warn("Lines feed unavailable", "reason", res.Reason())
		result.AddErrorf("lines unavailable: %s", res.Reason())
		return
	}

	lineRows := lines.Build(records, schedules, p.cfg.LinesBookFilter)
	batch := make([][]any, 0, len(lineRows))
	for _, l := range lineRows {
		batch = append(batch, warehouse.LineValues(l))
	}
	written, err := p.gw.Merge(ctx, warehouse.DimVegasLines, batch)
	if err != nil {
		p.logger.Warn("Lines merge failed", "error", err)
		result.AddErrorf("lines merge: %v", err)
		return
	}
	result.LineRows = written
}

// loadProps fetches and merges player prop odds. Best-effort, and a no-op
// without an API key.
func (p *Pipeline) loadProps(ctx context.Context, schedules []nflverse.ScheduleRecord, result *RunResult) {
	games := make([]theodds.ScheduledGame, 0, len(schedules))
	for _, s := range schedules {
		games = append(games, theodds.ScheduledGame{
			GameID:   gamekey.GameID(s.Season, s.Week, s.HomeTeam, s.AwayTeam),
			Season:   s.Season,
			Week:     s.Week,
			HomeTeam: s.HomeTeam,
			AwayTeam: s.AwayTeam,
			GameDate: s.GameDate,
		})
	}

	res := theodds.FetchProps(ctx, p.odds, theodds.SportKeyNFL, games,
		teams.AliasMap(), p.cfg.PropsBooks, p.cfg.PropsMarkets, p.logger)
	props, ok := res.Get()
	if !ok {
		p.logger.Info("Props feed unavailable", "reason", res.Reason())
		return
	}

	batch := make([][]any, 0, len(props))
	for _, pr := range props {
		batch = append(batch, warehouse.PropValues(pr))
	}
	written, err := p.gw.Merge(ctx, warehouse.FactPlayerPropLines, batch)
	if err != nil {
		p.logger.Warn("Props merge failed", "error", err)
		result.AddErrorf("props merge: %v", err)
		return
	}
	result.PropRows = written
}
