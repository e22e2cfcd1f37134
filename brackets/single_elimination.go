package brackets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/bits"

	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
)

type SingleEliminationGenerator struct {
	newID  func() uuid.UUID
	logger *slog.Logger
}

type GeneratorOption func(*SingleEliminationGenerator)

// WithIDSource overrides how match identities are minted.
func WithIDSource(fn func() uuid.UUID) GeneratorOption {
	return func(g *SingleEliminationGenerator) {
		g.newID = fn
	}
}

func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *SingleEliminationGenerator) {
		g.logger = logger
	}
}

func NewSingleEliminationGenerator(opts ...GeneratorOption) BracketGenerator {
	g := &SingleEliminationGenerator{
		newID:  uuid.New,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// BracketSize is the smallest power of two that is >= n.
func BracketSize(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// RoundCount is log2 of a power-of-two bracket size.
func RoundCount(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.TrailingZeros(uint(size))
}

// GenerateBracket builds every round at once. Round one is seeded from adjacent
// pairs of the ordered entrant list; later rounds start empty and are filled by
// RecordResult. Byes are left for the caller to score.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	n := len(params.Entrants)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientEntrants, n)
	}

	var tournamentID uuid.UUID
	if params.Tournament != nil {
		tournamentID = params.Tournament.ID
	}

	ordered := OrderEntrants(params.Entrants)
	if len(ordered) < 2 {
		return nil, fmt.Errorf("%w: got %d non-nil", ErrInsufficientEntrants, len(ordered))
	}

	size := BracketSize(len(ordered))
	numRounds := RoundCount(size)

	g.logger.DebugContext(ctx, "generating single elimination bracket",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("entrants", len(ordered)),
		slog.Int("bracket_size", size),
		slog.Int("rounds", numRounds),
		slog.Int("byes", size-len(ordered)),
	)

	bracket := &Bracket{
		Size:    size,
		Rounds:  numRounds,
		Matches: make([]*models.Match, 0, size-1),
	}

	rounds := make([][]*models.Match, numRounds+1)
	for r := 1; r <= numRounds; r++ {
		count := size >> uint(r)
		rounds[r] = make([]*models.Match, count)
		for pos := 0; pos < count; pos++ {
			m := &models.Match{
				ID:           g.newID(),
				TournamentID: tournamentID,
				Round:        r,
				Position:     pos,
			}
			if r == 1 {
				m.EntrantAID = entrantAt(ordered, 2*pos)
				m.EntrantBID = entrantAt(ordered, 2*pos+1)
			}
			rounds[r][pos] = m
			bracket.Matches = append(bracket.Matches, m)
		}
	}

	// Связи: матч i раунда r -> матч i/2 раунда r+1, слот по чётности
	for r := 1; r < numRounds; r++ {
		for pos, m := range rounds[r] {
			next := rounds[r+1][pos/2]
			nextID := next.ID
			slot := models.SlotA
			if pos%2 == 1 {
				slot = models.SlotB
			}
			m.NextMatchID = &nextID
			m.NextSlot = &slot
		}
	}

	return bracket, nil
}

func entrantAt(ordered []*models.Entrant, idx int) *uuid.UUID {
	if idx >= len(ordered) {
		return nil
	}
	id := ordered[idx].ID
	return &id
}
