package brackets

import (
	"context"

	"github.com/Dosada05/bracket-system/models"
)

type GenerateBracketParams struct {
	Tournament *models.Tournament
	Entrants   []*models.Entrant
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}
