package removal

import (
	"sort"
	"strings"

	"github.com/nurpe/billboards-ops/internal/model"
)

// Rank orders team candidates for a billboard. Lower is better.
type Rank int

const (
	// RankCityMatch is a team restricted to a city list that names the billboard city.
	RankCityMatch Rank = iota
	// RankAnyCity is a team without a city restriction.
	RankAnyCity
	// RankSizeOnly is a team that handles the size but is restricted to other cities.
	RankSizeOnly
)

type Candidate struct {
	Team model.InstallationTeam
	Rank Rank
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, value string) bool {
	value = normalize(value)
	if value == "" {
		return false
	}
	for _, item := range list {
		if normalize(item) == value {
			return true
		}
	}
	return false
}

// RankTeams returns every team that handles the billboard size, best first.
// Teams of equal rank keep their input order.
func RankTeams(teams []model.InstallationTeam, size, city string) []Candidate {
	var candidates []Candidate
	for _, team := range teams {
		if !contains(team.Sizes, size) {
			continue
		}
		rank := RankSizeOnly
		switch {
		case len(team.Cities) == 0:
			rank = RankAnyCity
		case contains(team.Cities, city):
			rank = RankCityMatch
		}
		candidates = append(candidates, Candidate{Team: team, Rank: rank})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	return candidates
}

// BestTeam picks the highest ranked team for a billboard.
func BestTeam(teams []model.InstallationTeam, b model.Billboard) (model.InstallationTeam, bool) {
	candidates := RankTeams(teams, b.Size, b.City)
	if len(candidates) == 0 {
		return model.InstallationTeam{}, false
	}
	return candidates[0].Team, true
}
