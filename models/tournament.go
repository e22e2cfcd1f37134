package models

import (
	"time"

	"github.com/google/uuid"
)

// Tournament is the read-only context a bracket is built for.
type Tournament struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Sport     string     `json:"sport"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
