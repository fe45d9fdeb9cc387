// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/ingest and cmd/api. The loaded Config is
// immutable for the life of a run and threaded explicitly through every
// component call.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Table names — single source of truth, matches the warehouse DDL.
const (
	DimTeamTable       = "dim_team"
	DimPlayerTable     = "dim_player"
	DimTimeslotTable   = "dim_timeslot"
	DimVegasLinesTable = "dim_vegas_lines"
	FactTable          = "fact_player_timeslot"
	PropsTable         = "fact_player_prop_lines"
)

// Config is the process-wide run configuration.
type Config struct {
	// Database
	DatabaseURL    string
	Schema         string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Load scope
	Years             []int
	CurrentRosterOnly bool
	ReplaceMode       bool
	DailyMode         bool
	RecentWeeks       int

	// Betting lines
	LinesBookFilter []string

	// Player props
	OddsAPIKey   string
	PropsBooks   []string
	PropsMarkets []string

	// API server
	APIHost          string
	APIPort          int
	Environment      string
	CORSAllowOrigins []string

	// Rate limiting (API server)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	currentYear := time.Now().Year()
	years, err := parseYears(envOr("YEARS", fmt.Sprintf("2015-%d", currentYear)), currentYear)
	if err != nil {
		return nil, fmt.Errorf("parse YEARS: %w", err)
	}

	return &Config{
		DatabaseURL:    dbURL,
		Schema:         envOr("DB_SCHEMA", "nfl"),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		Years:             years,
		CurrentRosterOnly: envBool("CURRENT_ROSTER_ONLY", false),
		ReplaceMode:       envBool("REPLACE_MODE", true),
		DailyMode:         envBool("DAILY_MODE", false),
		RecentWeeks:       envInt("RECENT_WEEKS", 4),

		LinesBookFilter: envList("LINES_BOOK_FILTER", []string{"DraftKings", "FanDuel", "Fanatics"}),

		OddsAPIKey:   envOr("THEODDS_API_KEY", ""),
		PropsBooks:   lowered(envList("PROPS_BOOKS", []string{"DraftKings", "FanDuel", "Fanatics"})),
		PropsMarkets: envList("PROPS_MARKETS", []string{"player_pass_yds", "player_rush_yds", "player_rec_yds", "player_receptions"}),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}, nil
}

// MinYear returns the first season in scope.
func (c *Config) MinYear() int { return c.Years[0] }

// MaxYear returns the last season in scope.
func (c *Config) MaxYear() int { return c.Years[len(c.Years)-1] }

// SeasonRange is the provenance string stamped on every fact row.
func (c *Config) SeasonRange() string {
	return fmt.Sprintf("%d–%d", c.MinYear(), c.MaxYear())
}

// IsProduction returns true if running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseYears parses a CLI-supplied season expression the same way the
// YEARS environment variable is parsed.
func ParseYears(s string) ([]int, error) {
	return parseYears(s, time.Now().Year())
}

var yearRangeRe = regexp.MustCompile(`^\s*(\d{4})\s*-\s*(\d{4})\s*$`)

// parseYears accepts a range ("2015-2024") or a comma list ("2022,2023").
// Empty input defaults to 2015 through the current year. The result is
// always sorted ascending and non-empty.
func parseYears(s string, currentYear int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return yearRange(2015, currentYear), nil
	}

	if m := yearRangeRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		if a > b {
			a, b = b, a
		}
		return yearRange(a, b), nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years in %q", s)
	}
	sort.Ints(years)
	return years, nil
}

func yearRange(a, b int) []int {
	years := make([]int, 0, b-a+1)
	for y := a; y <= b; y++ {
		years = append(years, y)
	}
	return years
}

func lowered(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
