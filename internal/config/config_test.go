package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nfl")
	t.Setenv("YEARS", "2022-2024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nfl", cfg.Schema)
	assert.Equal(t, []int{2022, 2023, 2024}, cfg.Years)
	assert.True(t, cfg.ReplaceMode)
	assert.False(t, cfg.CurrentRosterOnly)
	assert.False(t, cfg.DailyMode)
	assert.Equal(t, 4, cfg.RecentWeeks)
	assert.Equal(t, []string{"DraftKings", "FanDuel", "Fanatics"}, cfg.LinesBookFilter)
	assert.Equal(t, []string{"draftkings", "fanduel", "fanatics"}, cfg.PropsBooks)
	assert.Equal(t, "2022–2024", cfg.SeasonRange())
	assert.Equal(t, 2022, cfg.MinYear())
	assert.Equal(t, 2024, cfg.MaxYear())
}

func TestParseYears(t *testing.T) {
	years, err := parseYears("2015-2017", 2026)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016, 2017}, years)

	// Reversed range is normalized.
	years, err = parseYears("2017-2015", 2026)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016, 2017}, years)

	// Comma list is sorted.
	years, err = parseYears("2024, 2022,2023", 2026)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023, 2024}, years)

	// Empty defaults to 2015..current.
	years, err = parseYears("", 2016)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016}, years)

	_, err = parseYears("twenty-twenty", 2026)
	assert.Error(t, err)
}
