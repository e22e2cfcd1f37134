package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type TournamentService interface {
	CreateTournament(ctx context.Context, creatorID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*TournamentView, error)
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	AddEntrant(ctx context.Context, tournamentID uuid.UUID, input AddEntrantInput) (*models.Entrant, error)
	ListEntrants(ctx context.Context, tournamentID uuid.UUID) ([]*models.Entrant, error)
}

type CreateTournamentInput struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

type ListTournamentsInput struct {
	CreatedBy *uuid.UUID
	Limit     int
	Offset    int
}

type AddEntrantInput struct {
	Name string `json:"name"`
	Seed *int   `json:"seed,omitempty"`
}

// TournamentView is a tournament with its entrants, bracket and, once the
// final is decided, its champion.
type TournamentView struct {
	models.Tournament
	Entrants   []*models.Entrant `json:"entrants"`
	Matches    []*models.Match   `json:"matches"`
	ChampionID *uuid.UUID        `json:"champion_id"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	entrantRepo    repositories.EntrantRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	entrantRepo repositories.EntrantRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		entrantRepo:    entrantRepo,
		matchRepo:      matchRepo,
		logger:         discardLogger(logger),
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, creatorID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	sport := strings.TrimSpace(input.Sport)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if sport == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		Name:  name,
		Sport: sport,
	}
	if creatorID != uuid.Nil {
		tournament.CreatedBy = &creatorID
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentInvalidCreator) {
			return nil, fmt.Errorf("%w: %v", ErrUserNotFound, err)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created", slog.String("tournament_id", tournament.ID.String()), slog.String("name", tournament.Name))
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*TournamentView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTournamentRepoError(err)
	}

	view := &TournamentView{Tournament: *tournament}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entrants, err := s.entrantRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load entrants for tournament %s: %w", id, err)
		}
		view.Entrants = entrants
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load matches for tournament %s: %w", id, err)
		}
		view.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if view.Entrants == nil {
		view.Entrants = []*models.Entrant{}
	}
	if view.Matches == nil {
		view.Matches = []*models.Match{}
	}
	view.ChampionID = championOf(view.Matches)
	return view, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	filter := repositories.ListTournamentsFilter{
		CreatedBy: input.CreatedBy,
		Limit:     input.Limit,
		Offset:    input.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return tournaments, nil
}

func (s *tournamentService) AddEntrant(ctx context.Context, tournamentID uuid.UUID, input AddEntrantInput) (*models.Entrant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: entrant name is required", ErrValidationFailed)
	}
	if input.Seed != nil && *input.Seed < 1 {
		return nil, fmt.Errorf("%w: seed must be a positive integer", ErrValidationFailed)
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	entrant := &models.Entrant{
		TournamentID: tournamentID,
		Name:         name,
		Seed:         input.Seed,
	}
	if err := s.entrantRepo.Create(ctx, entrant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEntrantNameConflict):
			return nil, fmt.Errorf("%w: %q", ErrEntrantNameConflict, name)
		case errors.Is(err, repositories.ErrEntrantTournamentInvalid):
			return nil, ErrTournamentNotFound
		default:
			return nil, fmt.Errorf("failed to add entrant to tournament %s: %w", tournamentID, err)
		}
	}
	return entrant, nil
}

func (s *tournamentService) ListEntrants(ctx context.Context, tournamentID uuid.UUID) ([]*models.Entrant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err)
	}
	entrants, err := s.entrantRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrants for tournament %s: %w", tournamentID, err)
	}
	if entrants == nil {
		entrants = []*models.Entrant{}
	}
	return entrants, nil
}

func mapTournamentRepoError(err error) error {
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return fmt.Errorf("failed to load tournament: %w", err)
}

func championOf(matches []*models.Match) *uuid.UUID {
	flat := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m != nil {
			flat = append(flat, *m)
		}
	}
	return brackets.Champion(flat)
}
