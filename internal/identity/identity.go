// Package identity resolves canonical player identifiers. The source feeds
// do not reliably carry a player id, so identity is looked up against roster
// data by a normalized (name, team, position) key and, failing that,
// synthesized deterministically so that a later backfill pass can replace it.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// SyntheticPrefix marks placeholder ids produced by SyntheticID. Rows
// carrying this prefix are rewritten by the backfill pass once authoritative
// roster data resolves them.
const SyntheticPrefix = "legacy_"

// RosterEntry is one authoritative roster record.
type RosterEntry struct {
	PlayerID   string
	PlayerName string
	Team       string
	Position   string
}

// NormKey builds the normalized lookup key shared by the resolver and the
// backfill SQL: lowercased trimmed name, team verbatim, position verbatim
// (empty when absent).
func NormKey(name, team, position string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + team + "|" + position
}

// SyntheticID derives a deterministic placeholder id from the observation
// fields. Identical inputs always hash to the identical id, so repeated
// runs never mint a second identity for the same player-game observation.
func SyntheticID(name string, season, week int, team, opponent string) string {
	basis := fmt.Sprintf("%s|%d|%d|%s|%s", name, season, week, team, opponent)
	sum := sha1.Sum([]byte(basis))
	return SyntheticPrefix + hex.EncodeToString(sum[:])[:16]
}

// IsSynthetic reports whether id was produced by SyntheticID.
func IsSynthetic(id string) bool {
	return strings.HasPrefix(id, SyntheticPrefix)
}

// Resolver maps a NormKey to a canonical player id.
type Resolver map[string]string

// BuildResolver collapses roster entries into one canonical id per
// normalized key. When a key saw multiple ids across the season range, the
// statistical mode wins; when no unique mode exists (all counts tied) the
// first-encountered id in input order wins. Entries missing id, name, or
// team are dropped.
func BuildResolver(entries []RosterEntry) Resolver {
	tallies := make(map[string]*tally)
	keyOrder := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.PlayerID == "" || e.PlayerName == "" || e.Team == "" {
			continue
		}
		k := NormKey(e.PlayerName, e.Team, e.Position)
		tl, ok := tallies[k]
		if !ok {
			tl = &tally{counts: make(map[string]int)}
			tallies[k] = tl
			keyOrder = append(keyOrder, k)
		}
		if tl.counts[e.PlayerID] == 0 {
			tl.order = append(tl.order, e.PlayerID)
		}
		tl.counts[e.PlayerID]++
	}

	r := make(Resolver, len(tallies))
	for _, k := range keyOrder {
		r[k] = pickCanonical(tallies[k])
	}
	return r
}

// tally tracks id observation counts for one normalized key, with ids kept
// in first-seen order so tie-breaks are reproducible.
type tally struct {
	counts map[string]int
	order  []string
}

// pickCanonical selects the unique mode, else the first-seen id.
func pickCanonical(tl *tally) string {
	best, bestCount, ties := "", 0, 0
	for _, id := range tl.order {
		n := tl.counts[id]
		switch {
		case n > bestCount:
			best, bestCount, ties = id, n, 1
		case n == bestCount:
			ties++
		}
	}
	if ties > 1 {
		return tl.order[0]
	}
	return best
}

// Observation is one raw statistics row needing a player id. PlayerID is
// empty when the feed omitted it or carried a null sentinel; the parse
// boundary maps those to empty before this package ever sees them.
type Observation struct {
	PlayerID   string
	PlayerName string
	Team       string
	Position   string
	Season     int
	Week       int
	Opponent   string
}

// Resolve returns the player id for an observation. A present id is never
// overwritten; otherwise the roster map is consulted; otherwise a synthetic
// id is minted. Resolution always succeeds, so player_id is never null
// downstream.
func (r Resolver) Resolve(obs Observation) string {
	if obs.PlayerID != "" {
		return obs.PlayerID
	}
	if id, ok := r[NormKey(obs.PlayerName, obs.Team, obs.Position)]; ok && id != "" {
		return id
	}
	return SyntheticID(obs.PlayerName, obs.Season, obs.Week, obs.Team, obs.Opponent)
}
