package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/google/uuid"
)

type BracketService interface {
	// GenerateBracket replaces any existing bracket of the tournament with a
	// fresh one built from its current entrants.
	GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.Bracket, error)
}

type bracketService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	entrantRepo    repositories.EntrantRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.BracketGenerator
	broadcaster    Broadcaster
	snapshots      SnapshotPublisher
	metrics        MetricsRecorder
	logger         *slog.Logger
}

func NewBracketService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	entrantRepo repositories.EntrantRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.BracketGenerator,
	broadcaster Broadcaster,
	snapshots SnapshotPublisher,
	metrics MetricsRecorder,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		entrantRepo:    entrantRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		broadcaster:    broadcaster,
		snapshots:      snapshots,
		metrics:        metrics,
		logger:         discardLogger(logger),
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, tournamentID uuid.UUID) (*brackets.Bracket, error) {
	var bracket *brackets.Bracket

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.LockForUpdate(ctx, exec, tournamentID); err != nil {
			return mapTournamentRepoError(err)
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return mapTournamentRepoError(err)
		}

		entrants, err := s.entrantRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list entrants for tournament %s: %w", tournamentID, err)
		}
		if len(entrants) < 2 {
			return fmt.Errorf("%w: got %d", ErrInsufficientEntrants, len(entrants))
		}

		deleted, err := s.matchRepo.DeleteByTournament(ctx, exec, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to clear existing bracket of tournament %s: %w", tournamentID, err)
		}
		if deleted > 0 {
			s.logger.InfoContext(ctx, "existing bracket discarded",
				slog.String("tournament_id", tournamentID.String()), slog.Int64("matches", deleted))
		}

		bracket, err = s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Tournament: tournament,
			Entrants:   entrants,
		})
		if err != nil {
			return fmt.Errorf("failed to generate bracket structure for tournament %s: %w", tournamentID, err)
		}

		// Первый проход: матчи без ссылок, чтобы внешние ключи next_match_id были валидны во втором.
		for _, m := range bracket.Matches {
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return fmt.Errorf("failed to save match r%d/p%d: %w", m.Round, m.Position, err)
			}
		}
		// Второй проход: ссылки на следующий матч
		for _, m := range bracket.Matches {
			if m.NextMatchID == nil {
				continue
			}
			if err := s.matchRepo.UpdateNextMatchInfo(ctx, exec, m.ID, m.NextMatchID, m.NextSlot); err != nil {
				if errors.Is(err, repositories.ErrMatchInvalidSlot) {
					return fmt.Errorf("%w: match %s", ErrInvalidSlot, m.ID)
				}
				return fmt.Errorf("failed to link match %s to %s: %w", m.ID, *m.NextMatchID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.String("tournament_id", tournamentID.String()),
		slog.String("generator", s.generator.GetName()),
		slog.Int("size", bracket.Size),
		slog.Int("rounds", bracket.Rounds),
		slog.Int("matches", len(bracket.Matches)))

	if s.metrics != nil {
		s.metrics.BracketGenerated(len(bracket.Matches))
	}
	broadcastTournament(s.broadcaster, tournamentID, brackets.MessageBracketGenerated, bracket)
	s.publishSnapshot(ctx, tournamentID, bracket)
	return bracket, nil
}

// publishSnapshot is best-effort: the bracket is already committed.
func (s *bracketService) publishSnapshot(ctx context.Context, tournamentID uuid.UUID, bracket *brackets.Bracket) {
	if s.snapshots == nil {
		return
	}
	url, err := s.snapshots.Publish(ctx, tournamentID, bracket)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish bracket snapshot",
			slog.String("tournament_id", tournamentID.String()), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "bracket snapshot published",
		slog.String("tournament_id", tournamentID.String()), slog.String("url", url))
}
