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
	ErrEntrantNotFound          = errors.New("entrant not found")
	ErrEntrantNameConflict      = errors.New("entrant name already exists in this tournament")
	ErrEntrantTournamentInvalid = errors.New("entrant tournament conflict or invalid")
)

type EntrantRepository interface {
	Create(ctx context.Context, entrant *models.Entrant) error
	// ListByTournament returns entrants in registration order.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Entrant, error)
}

type postgresEntrantRepository struct {
	db *sql.DB
}

func NewPostgresEntrantRepository(db *sql.DB) EntrantRepository {
	return &postgresEntrantRepository{db: db}
}

func (r *postgresEntrantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEntrantRepository) Create(ctx context.Context, e *models.Entrant) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `
		INSERT INTO entrants (id, tournament_id, name, seed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, e.ID, e.TournamentID, e.Name, e.Seed).Scan(&e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "entrants_tournament_id_name_key" {
					return ErrEntrantNameConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "entrants_tournament_id_fkey" {
					return ErrEntrantTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create entrant: %w", err)
	}
	return nil
}

func (r *postgresEntrantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]*models.Entrant, error) {
	// entry_no keeps registration order, it breaks seed ties during bracket generation
	query := `
		SELECT id, tournament_id, name, seed, created_at
		FROM entrants
		WHERE tournament_id = $1
		ORDER BY entry_no ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entrants for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	entrants := make([]*models.Entrant, 0)
	for rows.Next() {
		e := &models.Entrant{}
		if err := rows.Scan(&e.ID, &e.TournamentID, &e.Name, &e.Seed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entrant row: %w", err)
		}
		entrants = append(entrants, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entrant rows iteration: %w", err)
	}
	return entrants, nil
}
