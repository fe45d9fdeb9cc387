package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormKey(t *testing.T) {
	assert.Equal(t, "patrick mahomes|KC|QB", NormKey("  Patrick Mahomes ", "KC", "QB"))
	assert.Equal(t, "a player|KC|", NormKey("A Player", "KC", ""))
}

func TestSyntheticIDDeterministic(t *testing.T) {
	a := SyntheticID("J. Doe", 2024, 3, "KC", "LV")
	b := SyntheticID("J. Doe", 2024, 3, "KC", "LV")
	assert.Equal(t, a, b)

	require.True(t, strings.HasPrefix(a, SyntheticPrefix))
	assert.Len(t, strings.TrimPrefix(a, SyntheticPrefix), 16)

	// Any field change yields a different id.
	assert.NotEqual(t, a, SyntheticID("J. Doe", 2024, 4, "KC", "LV"))
	assert.NotEqual(t, a, SyntheticID("J. Doe", 2024, 3, "LV", "KC"))
	assert.NotEqual(t, a, SyntheticID("J. Doa", 2024, 3, "KC", "LV"))
}

func TestIsSynthetic(t *testing.T) {
	assert.True(t, IsSynthetic(SyntheticID("x", 2024, 1, "KC", "LV")))
	assert.False(t, IsSynthetic("00-0033873"))
}

func TestBuildResolverMode(t *testing.T) {
	entries := []RosterEntry{
		{PlayerID: "A", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
		{PlayerID: "A", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
		{PlayerID: "B", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
	}
	r := BuildResolver(entries)
	assert.Equal(t, "A", r[NormKey("Joe Smith", "KC", "WR")])
}

func TestBuildResolverTieBreakFirstSeen(t *testing.T) {
	entries := []RosterEntry{
		{PlayerID: "B", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
		{PlayerID: "A", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
	}
	r := BuildResolver(entries)

	// No unique mode: first-encountered id wins, in input order.
	assert.Equal(t, "B", r[NormKey("Joe Smith", "KC", "WR")])
}

func TestBuildResolverDropsIncompleteEntries(t *testing.T) {
	entries := []RosterEntry{
		{PlayerID: "", PlayerName: "No Id", Team: "KC", Position: "WR"},
		{PlayerID: "X", PlayerName: "", Team: "KC", Position: "WR"},
		{PlayerID: "X", PlayerName: "No Team", Team: "", Position: "WR"},
		{PlayerID: "Y", PlayerName: "Kept", Team: "KC", Position: "TE"},
	}
	r := BuildResolver(entries)
	require.Len(t, r, 1)
	assert.Equal(t, "Y", r[NormKey("Kept", "KC", "TE")])
}

func TestResolvePrecedence(t *testing.T) {
	r := BuildResolver([]RosterEntry{
		{PlayerID: "roster-id", PlayerName: "Joe Smith", Team: "KC", Position: "WR"},
	})

	// A present id is never overwritten, even with a roster match.
	got := r.Resolve(Observation{
		PlayerID: "feed-id", PlayerName: "Joe Smith", Team: "KC", Position: "WR",
		Season: 2024, Week: 1, Opponent: "LV",
	})
	assert.Equal(t, "feed-id", got)

	// Missing id falls back to the roster map.
	got = r.Resolve(Observation{
		PlayerName: "Joe Smith", Team: "KC", Position: "WR",
		Season: 2024, Week: 1, Opponent: "LV",
	})
	assert.Equal(t, "roster-id", got)

	// No roster match synthesizes a deterministic id.
	got = r.Resolve(Observation{
		PlayerName: "Nobody Known", Team: "KC", Position: "WR",
		Season: 2024, Week: 1, Opponent: "LV",
	})
	assert.Equal(t, SyntheticID("Nobody Known", 2024, 1, "KC", "LV"), got)
}

func TestResolveNeverEmpty(t *testing.T) {
	var r Resolver
	got := r.Resolve(Observation{PlayerName: "X", Team: "KC", Season: 2024, Week: 1, Opponent: "LV"})
	assert.NotEmpty(t, got)
	assert.True(t, IsSynthetic(got))
}
