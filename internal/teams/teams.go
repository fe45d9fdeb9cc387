// Package teams holds the static NFL team reference used to seed dim_team
// and to map free-form team names from odds providers onto canonical
// abbreviations.
package teams

import "strings"

// Team is one dim_team row.
type Team struct {
	Abbr string
	Name string
}

// Reference returns the 32 current franchises.
func Reference() []Team {
	return []Team{
		{"ARI", "Arizona Cardinals"}, {"ATL", "Atlanta Falcons"},
		{"BAL", "Baltimore Ravens"}, {"BUF", "Buffalo Bills"},
		{"CAR", "Carolina Panthers"}, {"CHI", "Chicago Bears"},
		{"CIN", "Cincinnati Bengals"}, {"CLE", "Cleveland Browns"},
		{"DAL", "Dallas Cowboys"}, {"DEN", "Denver Broncos"},
		{"DET", "Detroit Lions"}, {"GB", "Green Bay Packers"},
		{"HOU", "Houston Texans"}, {"IND", "Indianapolis Colts"},
		{"JAX", "Jacksonville Jaguars"}, {"KC", "Kansas City Chiefs"},
		{"LV", "Las Vegas Raiders"}, {"LAC", "Los Angeles Chargers"},
		{"LAR", "Los Angeles Rams"}, {"MIA", "Miami Dolphins"},
		{"MIN", "Minnesota Vikings"}, {"NE", "New England Patriots"},
		{"NO", "New Orleans Saints"}, {"NYG", "New York Giants"},
		{"NYJ", "New York Jets"}, {"PHI", "Philadelphia Eagles"},
		{"PIT", "Pittsburgh Steelers"}, {"SF", "San Francisco 49ers"},
		{"SEA", "Seattle Seahawks"}, {"TB", "Tampa Bay Buccaneers"},
		{"TEN", "Tennessee Titans"}, {"WAS", "Washington Commanders"},
	}
}

// aliases maps lowercased free-form names to abbreviations. Covers full
// names, city-only shorthand, and relocated/renamed franchises.
var aliases = map[string]string{
	"la chargers": "LAC", "la rams": "LAR",
	"washington football team": "WAS", "washington redskins": "WAS",
	"oakland raiders": "LV", "st. louis rams": "LAR", "san diego chargers": "LAC",

	"arizona": "ARI", "atlanta": "ATL", "baltimore": "BAL", "buffalo": "BUF",
	"carolina": "CAR", "chicago": "CHI", "cincinnati": "CIN", "cleveland": "CLE",
	"dallas": "DAL", "denver": "DEN", "detroit": "DET", "green bay": "GB",
	"houston": "HOU", "indianapolis": "IND", "jacksonville": "JAX",
	"kansas city": "KC", "las vegas": "LV", "los angeles": "LAR",
	"miami": "MIA", "minnesota": "MIN", "new england": "NE", "new orleans": "NO",
	"philadelphia": "PHI", "pittsburgh": "PIT", "san francisco": "SF",
	"seattle": "SEA", "tampa bay": "TB", "tennessee": "TEN", "washington": "WAS",
}

// AliasMap returns a lookup from lowercased team name variants to canonical
// abbreviations.
func AliasMap() map[string]string {
	m := make(map[string]string, len(aliases)+32)
	for _, t := range Reference() {
		m[strings.ToLower(t.Name)] = t.Abbr
	}
	for k, v := range aliases {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return m
}

// Resolve maps a free-form team name to its abbreviation, or "" when the
// name is unrecognized.
func Resolve(name string) string {
	return AliasMap()[strings.ToLower(strings.TrimSpace(name))]
}
