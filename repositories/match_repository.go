package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchEntrantInvalid    = errors.New("match entrant conflict or invalid")
	ErrMatchPositionConflict  = errors.New("match round/position already taken")
	ErrMatchInvalidSlot       = errors.New("match next slot must be 1 or 2")
)

const matchColumns = `id, tournament_id, round, position, entrant_a_id, entrant_b_id,
		score_a, score_b, winner_id, next_match_id, next_slot, created_at, updated_at`

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (int64, error)
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, nextMatchID *uuid.UUID, nextSlot *models.MatchSlot) error
	// UpdateResult writes occupants, scores and winner.
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts the match without its forward link; links are set afterwards
// with UpdateNextMatchInfo once every match of the bracket exists.
func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO matches
			(id, tournament_id, round, position, entrant_a_id, entrant_b_id, score_a, score_b, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.ID,
		m.TournamentID,
		m.Round,
		m.Position,
		m.EntrantAID,
		m.EntrantBID,
		m.ScoreA,
		m.ScoreB,
		m.WinnerID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	if err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %s: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC, position ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches for tournament %s: %w", tournamentID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, nextMatchID *uuid.UUID, nextSlot *models.MatchSlot) error {
	var slot *int
	if nextSlot != nil {
		v := int(*nextSlot)
		slot = &v
	}
	query := `UPDATE matches SET next_match_id = $1, next_slot = $2, updated_at = now() WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nextMatchID, slot, matchID)
	if err != nil {
		return fmt.Errorf("UpdateNextMatchInfo: failed to execute query for match %s: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET entrant_a_id = $1, entrant_b_id = $2, score_a = $3, score_b = $4, winner_id = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.EntrantAID, m.EntrantBID, m.ScoreA, m.ScoreB, m.WinnerID, m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("UpdateResult: match %s: %w", m.ID, r.handleMatchError(err))
	}
	return nil
}

func scanMatch(row rowScanner, m *models.Match) error {
	var nextSlot sql.NullInt64
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.Position,
		&m.EntrantAID,
		&m.EntrantBID,
		&m.ScoreA,
		&m.ScoreB,
		&m.WinnerID,
		&m.NextMatchID,
		&nextSlot,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if nextSlot.Valid {
		s := models.MatchSlot(nextSlot.Int64)
		m.NextSlot = &s
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_entrant_a_id_fkey", "matches_entrant_b_id_fkey", "matches_winner_id_fkey":
			return ErrMatchEntrantInvalid
		case "matches_tournament_id_round_position_key":
			return ErrMatchPositionConflict
		case "check_next_slot":
			return ErrMatchInvalidSlot
		}
	}
	return err
}
