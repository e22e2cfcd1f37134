package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMatchError(t *testing.T) {
	r := &postgresMatchRepository{}
	tests := []struct {
		constraint string
		want       error
	}{
		{"matches_tournament_id_fkey", ErrMatchTournamentInvalid},
		{"matches_winner_id_fkey", ErrMatchEntrantInvalid},
		{"matches_tournament_id_round_position_key", ErrMatchPositionConflict},
		{"check_next_slot", ErrMatchInvalidSlot},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: tt.constraint})
			assert.ErrorIs(t, r.handleMatchError(err), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.Equal(t, plain, r.handleMatchError(plain))
	assert.NoError(t, r.handleMatchError(nil))
}

// fakeRow copies values into Scan destinations the way database/sql would
// for the column types a match row uses.
type fakeRow struct {
	values []interface{}
}

func (f fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(f.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(f.values), len(dest))
	}
	for i, v := range f.values {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		case **uuid.UUID:
			if v == nil {
				*d = nil
			} else {
				id := v.(uuid.UUID)
				*d = &id
			}
		case *int:
			*d = v.(int)
		case **int:
			if v == nil {
				*d = nil
			} else {
				n := v.(int)
				*d = &n
			}
		case *sql.NullInt64:
			if v == nil {
				*d = sql.NullInt64{}
			} else {
				*d = sql.NullInt64{Int64: int64(v.(int)), Valid: true}
			}
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanMatch(t *testing.T) {
	id, tournament, a, next := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	var m models.Match
	err := scanMatch(fakeRow{values: []interface{}{
		id, tournament, 1, 3, a, nil, 2, nil, a, next, 2, now, now,
	}}, &m)
	require.NoError(t, err)

	assert.Equal(t, id, m.ID)
	assert.Equal(t, 3, m.Position)
	require.NotNil(t, m.EntrantAID)
	assert.Equal(t, a, *m.EntrantAID)
	assert.Nil(t, m.EntrantBID)
	assert.Equal(t, 2, *m.ScoreA)
	assert.Nil(t, m.ScoreB)
	require.NotNil(t, m.NextSlot)
	assert.Equal(t, models.SlotB, *m.NextSlot)

	var final models.Match
	err = scanMatch(fakeRow{values: []interface{}{
		id, tournament, 2, 0, nil, nil, nil, nil, nil, nil, nil, now, now,
	}}, &final)
	require.NoError(t, err)
	assert.Nil(t, final.NextSlot)
	assert.True(t, final.IsFinal())
}
