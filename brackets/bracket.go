package brackets

import (
	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
)

// Bracket is the arena of all matches of one tournament, ordered by round then position.
type Bracket struct {
	Size    int             `json:"size"`
	Rounds  int             `json:"rounds"`
	Matches []*models.Match `json:"matches"`
}

// Round returns the matches of round r in position order.
func (b *Bracket) Round(r int) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range b.Matches {
		if m.Round == r {
			out = append(out, m)
		}
	}
	return out
}

// Match looks a match up by its (round, position) coordinates.
func (b *Bracket) Match(round, position int) *models.Match {
	for _, m := range b.Matches {
		if m.Round == round && m.Position == position {
			return m
		}
	}
	return nil
}

func (b *Bracket) ByID(id uuid.UUID) *models.Match {
	for _, m := range b.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Final returns the single match of the last round.
func (b *Bracket) Final() *models.Match {
	final := b.Round(b.Rounds)
	if len(final) != 1 {
		return nil
	}
	return final[0]
}

// Champion is the winner of the final match, if it has been decided.
func Champion(matches []models.Match) *uuid.UUID {
	for i := range matches {
		m := &matches[i]
		if m.IsFinal() && m.WinnerID != nil {
			id := *m.WinnerID
			return &id
		}
	}
	return nil
}
