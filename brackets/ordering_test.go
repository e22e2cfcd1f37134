package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seed(v int) *int { return &v }

func entrant(name string, s *int) *models.Entrant {
	return &models.Entrant{ID: uuid.New(), Name: name, Seed: s}
}

func names(entrants []*models.Entrant) []string {
	out := make([]string, len(entrants))
	for i, e := range entrants {
		out[i] = e.Name
	}
	return out
}

func TestOrderEntrants_SortsBySeedAscending(t *testing.T) {
	in := []*models.Entrant{
		entrant("c", seed(3)),
		entrant("a", seed(1)),
		entrant("b", seed(2)),
	}

	assert.Equal(t, []string{"a", "b", "c"}, names(OrderEntrants(in)))
}

func TestOrderEntrants_UnseededGoLastInInputOrder(t *testing.T) {
	in := []*models.Entrant{
		entrant("x", nil),
		entrant("s2", seed(2)),
		entrant("y", nil),
		entrant("s1", seed(1)),
		entrant("z", nil),
	}

	assert.Equal(t, []string{"s1", "s2", "x", "y", "z"}, names(OrderEntrants(in)))
}

func TestOrderEntrants_EqualSeedsKeepInputOrder(t *testing.T) {
	in := []*models.Entrant{
		entrant("first", seed(5)),
		entrant("top", seed(1)),
		entrant("second", seed(5)),
		entrant("third", seed(5)),
	}

	assert.Equal(t, []string{"top", "first", "second", "third"}, names(OrderEntrants(in)))
}

func TestOrderEntrants_DoesNotMutateInput(t *testing.T) {
	in := []*models.Entrant{entrant("b", seed(2)), entrant("a", seed(1))}

	_ = OrderEntrants(in)

	assert.Equal(t, []string{"b", "a"}, names(in))
}

func TestOrderEntrants_SkipsNil(t *testing.T) {
	in := []*models.Entrant{nil, entrant("a", nil), nil}

	assert.Equal(t, []string{"a"}, names(OrderEntrants(in)))
}
