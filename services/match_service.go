package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/google/uuid"
)

type MatchService interface {
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]*models.Match, error)
	// RecordScore stores the score of a match and advances its winner.
	RecordScore(ctx context.Context, matchID uuid.UUID, input RecordScoreInput) (*ScoreResult, error)
}

type RecordScoreInput struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

type ScoreResult struct {
	Match      *models.Match `json:"match"`
	Downstream *models.Match `json:"downstream,omitempty"`
	// Cascaded lists matches further along the bracket that lost a stale
	// occupant because an earlier result changed.
	Cascaded []*models.Match `json:"cascaded,omitempty"`
}

type MatchServiceOptions struct {
	RejectTies   bool
	CascadeReset bool
}

type matchService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	broadcaster    Broadcaster
	metrics        MetricsRecorder
	opts           MatchServiceOptions
	logger         *slog.Logger
}

func NewMatchService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	broadcaster Broadcaster,
	metrics MetricsRecorder,
	opts MatchServiceOptions,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		broadcaster:    broadcaster,
		metrics:        metrics,
		opts:           opts,
		logger:         discardLogger(logger),
	}
}

func (s *matchService) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	return m, nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	if matches == nil {
		matches = []*models.Match{}
	}
	return matches, nil
}

func (s *matchService) RecordScore(ctx context.Context, matchID uuid.UUID, input RecordScoreInput) (*ScoreResult, error) {
	if input.Score1 == nil || input.Score2 == nil {
		return nil, fmt.Errorf("%w: score1 and score2 are required", ErrValidationFailed)
	}
	scoreA, scoreB := *input.Score1, *input.Score2
	if scoreA < 0 || scoreB < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	}
	if s.opts.RejectTies && scoreA == scoreB {
		return nil, ErrTieNotAllowed
	}

	var (
		result       *ScoreResult
		tournamentID uuid.UUID
	)
	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapMatchRepoError(err)
		}
		tournamentID = match.TournamentID

		if err := s.tournamentRepo.LockForUpdate(ctx, exec, tournamentID); err != nil {
			return mapTournamentRepoError(err)
		}
		// Перечитываем под блокировкой: другой запрос мог успеть изменить матч.
		match, err = s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapMatchRepoError(err)
		}

		engine := brackets.NewEngine(s.loaderFor(exec))
		adv, err := engine.RecordResult(ctx, *match, scoreA, scoreB)
		if err != nil {
			return mapEngineError(err)
		}

		scored := adv.Match
		if err := s.matchRepo.UpdateResult(ctx, exec, &scored); err != nil {
			return fmt.Errorf("failed to save result of match %s: %w", scored.ID, err)
		}
		result = &ScoreResult{Match: &scored}

		if adv.Downstream != nil {
			downstream := *adv.Downstream
			if err := s.matchRepo.UpdateResult(ctx, exec, &downstream); err != nil {
				return fmt.Errorf("failed to save downstream match %s: %w", downstream.ID, err)
			}
			result.Downstream = &downstream

			if s.opts.CascadeReset && adv.ClearedWinner != nil {
				cascaded, err := s.cascade(ctx, exec, downstream, *adv.ClearedWinner)
				if err != nil {
					return err
				}
				result.Cascaded = cascaded
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("match_id", matchID.String()),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB),
	}
	if result.Match.WinnerID != nil {
		attrs = append(attrs, slog.String("winner_id", result.Match.WinnerID.String()))
	}
	if len(result.Cascaded) > 0 {
		attrs = append(attrs, slog.Int("cascaded", len(result.Cascaded)))
	}
	s.logger.InfoContext(ctx, "match result recorded", attrs...)
	if s.metrics != nil {
		s.metrics.ResultRecorded(result.Match.WinnerID != nil, len(result.Cascaded))
	}

	broadcastTournament(s.broadcaster, tournamentID, brackets.MessageMatchUpdated, result)
	return result, nil
}

// cascade walks forward from the reset match, removing stale from each later
// match it had reached. It stops at the first match stale never got into.
func (s *matchService) cascade(ctx context.Context, exec repositories.SQLExecutor, from models.Match, stale uuid.UUID) ([]*models.Match, error) {
	var cleared []*models.Match
	for from.NextMatchID != nil {
		next, err := s.matchRepo.GetByID(ctx, exec, *from.NextMatchID)
		if err != nil {
			return nil, mapEngineError(mapLoaderError(err))
		}

		updated, lost, changed, err := brackets.Unwind(from, stale, *next)
		if err != nil {
			return nil, mapEngineError(err)
		}
		if !changed {
			break
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, &updated); err != nil {
			return nil, fmt.Errorf("failed to reset match %s: %w", updated.ID, err)
		}
		u := updated
		cleared = append(cleared, &u)

		if lost == nil {
			break
		}
		from, stale = updated, *lost
	}
	return cleared, nil
}

func (s *matchService) loaderFor(exec repositories.SQLExecutor) brackets.MatchLoader {
	return brackets.MatchLoaderFunc(func(ctx context.Context, id uuid.UUID) (*models.Match, error) {
		m, err := s.matchRepo.GetByID(ctx, exec, id)
		if err != nil {
			return nil, mapLoaderError(err)
		}
		return m, nil
	})
}

func mapLoaderError(err error) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return fmt.Errorf("%w: %v", brackets.ErrMatchNotFound, err)
	}
	return err
}

func mapMatchRepoError(err error) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return fmt.Errorf("failed to load match: %w", err)
}

func mapEngineError(err error) error {
	if errors.Is(err, brackets.ErrMatchNotFound) {
		return fmt.Errorf("%w: %v", ErrMatchNotFound, err)
	}
	return err
}
