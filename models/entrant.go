package models

import (
	"time"

	"github.com/google/uuid"
)

// Entrant is a team or player taking part in a tournament.
// Seed is optional; lower is stronger.
type Entrant struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Name         string    `json:"name"`
	Seed         *int      `json:"seed,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
