package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-system/models"
)

// OrderEntrants returns entrants sorted by ascending seed. Unseeded entrants go
// after every seeded one; equal seeds and unseeded entrants keep input order.
// Round-one pairs are taken from adjacent positions of the result.
func OrderEntrants(entrants []*models.Entrant) []*models.Entrant {
	ordered := make([]*models.Entrant, 0, len(entrants))
	for _, e := range entrants {
		if e != nil {
			ordered = append(ordered, e)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := ordered[i].Seed, ordered[j].Seed
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si < *sj
		}
	})
	return ordered
}
