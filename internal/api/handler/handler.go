// Package handler provides HTTP handlers for the read API. Handlers query
// Postgres directly via pgxpool using statements prepared at connect time —
// no service layer.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourthdownlabs/timeslot-data/internal/api/respond"
	"github.com/fourthdownlabs/timeslot-data/internal/config"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool *pgxpool.Pool
	cfg  *config.Config
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, cfg *config.Config) *Handler {
	return &Handler{pool: pool, cfg: cfg}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Timeslot Data API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	if err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unreachable")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

// factRow is the wire shape of one aggregated fact.
type factRow struct {
	GameID            string   `json:"game_id"`
	Season            int      `json:"season"`
	Week              int      `json:"week"`
	TeamAbbr          string   `json:"team_abbr"`
	OpponentAbbr      string   `json:"opponent_abbr"`
	TimeSlot          string   `json:"time_slot"`
	PlayerID          string   `json:"player_id"`
	PlayerName        string   `json:"player_name"`
	Position          string   `json:"position"`
	PassingYardsAvg   *float64 `json:"passing_yards_avg"`
	RushingYardsAvg   *float64 `json:"rushing_yards_avg"`
	ReceivingYardsAvg *float64 `json:"receiving_yards_avg"`
	GamesPlayed       int      `json:"games_played"`
	SeasonRange       string   `json:"season_range"`
	CurrentRosterOnly bool     `json:"current_roster_only"`
}

// GetFacts serves aggregated facts for one season and week.
func (h *Handler) GetFacts(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_SEASON", "season must be an integer")
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_WEEK", "week must be an integer")
		return
	}

	rows, err := h.pool.Query(r.Context(), "facts_by_season_week", season, week)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "facts query failed")
		return
	}
	defer rows.Close()

	out := []factRow{}
	for rows.Next() {
		var f factRow
		if err := rows.Scan(
			&f.GameID, &f.Season, &f.Week, &f.TeamAbbr, &f.OpponentAbbr, &f.TimeSlot,
			&f.PlayerID, &f.PlayerName, &f.Position,
			&f.PassingYardsAvg, &f.RushingYardsAvg, &f.ReceivingYardsAvg,
			&f.GamesPlayed, &f.SeasonRange, &f.CurrentRosterOnly,
		); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "SCAN_FAILED", "facts scan failed")
			return
		}
		out = append(out, f)
	}
	if rows.Err() != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "facts query failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"season": season,
		"week":   week,
		"count":  len(out),
		"facts":  out,
	})
}

// lineRow is the wire shape of one vegas line.
type lineRow struct {
	GameID        string     `json:"game_id"`
	Season        int        `json:"season"`
	Week          int        `json:"week"`
	Book          string     `json:"book"`
	HomeTeam      string     `json:"home_team"`
	AwayTeam      string     `json:"away_team"`
	FavoriteTeam  *string    `json:"favorite_team"`
	SpreadClose   *float64   `json:"spread_close"`
	TotalClose    *float64   `json:"total_close"`
	LineTimestamp *time.Time `json:"line_timestamp"`
}

// GetGameLines serves all stored lines for one game.
func (h *Handler) GetGameLines(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	rows, err := h.pool.Query(r.Context(), "lines_by_game", gameID)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "lines query failed")
		return
	}
	defer rows.Close()

	out := []lineRow{}
	for rows.Next() {
		var l lineRow
		if err := rows.Scan(
			&l.GameID, &l.Season, &l.Week, &l.Book, &l.HomeTeam, &l.AwayTeam,
			&l.FavoriteTeam, &l.SpreadClose, &l.TotalClose, &l.LineTimestamp,
		); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "SCAN_FAILED", "lines scan failed")
			return
		}
		out = append(out, l)
	}
	if rows.Err() != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "lines query failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"count":   len(out),
		"lines":   out,
	})
}

// GetPlayer serves one dim_player row.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	var id, name string
	var team, position *string
	err := h.pool.QueryRow(r.Context(), "player_by_id", playerID).
		Scan(&id, &name, &team, &position)
	if err == pgx.ErrNoRows {
		respond.WriteError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "no such player")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "player query failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"player_id":   id,
		"player_name": name,
		"team_abbr":   team,
		"position":    position,
	})
}

// GetLoadStatus serves per-slot fact counts and the outstanding synthetic
// id count, for load monitoring.
func (h *Handler) GetLoadStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.pool.Query(r.Context(), "timeslot_counts")
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "timeslot query failed")
		return
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var slot string
		var n int64
		if err := rows.Scan(&slot, &n); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "SCAN_FAILED", "timeslot scan failed")
			return
		}
		counts[slot] = n
	}
	if rows.Err() != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "timeslot query failed")
		return
	}

	var synthetic int64
	if err := h.pool.QueryRow(r.Context(), "synthetic_id_count").Scan(&synthetic); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "synthetic count failed")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"timeslot_counts":         counts,
		"synthetic_ids_remaining": synthetic,
	})
}
