package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchSlot names one of the two occupant positions of a match.
// Values match the next_slot CHECK constraint in the matches table.
type MatchSlot int

const (
	SlotA MatchSlot = 1
	SlotB MatchSlot = 2
)

func (s MatchSlot) Valid() bool {
	return s == SlotA || s == SlotB
}

func (s MatchSlot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("MatchSlot(%d)", int(s))
	}
}

type Match struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Round        int       `json:"round"`
	Position     int       `json:"position"`

	EntrantAID *uuid.UUID `json:"entrant_a_id"`
	EntrantBID *uuid.UUID `json:"entrant_b_id"`
	ScoreA     *int       `json:"score_a"`
	ScoreB     *int       `json:"score_b"`
	WinnerID   *uuid.UUID `json:"winner_id"`

	// Forward link: where the winner of this match goes. Empty only for the final.
	NextMatchID *uuid.UUID `json:"next_match_id"`
	NextSlot    *MatchSlot `json:"next_slot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Occupant returns the entrant sitting in the given slot, or nil for an empty slot.
func (m *Match) Occupant(slot MatchSlot) *uuid.UUID {
	switch slot {
	case SlotA:
		return m.EntrantAID
	case SlotB:
		return m.EntrantBID
	}
	return nil
}

// SetOccupant places id (nil clears) into slot. Returns false for an unknown slot.
func (m *Match) SetOccupant(slot MatchSlot, id *uuid.UUID) bool {
	switch slot {
	case SlotA:
		m.EntrantAID = cloneID(id)
	case SlotB:
		m.EntrantBID = cloneID(id)
	default:
		return false
	}
	return true
}

// ClearResult drops recorded scores and winner.
func (m *Match) ClearResult() {
	m.ScoreA = nil
	m.ScoreB = nil
	m.WinnerID = nil
}

func (m *Match) HasResult() bool {
	return m.ScoreA != nil || m.ScoreB != nil || m.WinnerID != nil
}

func (m *Match) IsFinal() bool {
	return m.NextMatchID == nil
}

// IsBye reports a first-round match with exactly one occupied slot.
func (m *Match) IsBye() bool {
	return m.Round == 1 && (m.EntrantAID == nil) != (m.EntrantBID == nil)
}

// Clone returns a deep copy so callers can mutate without aliasing pointer fields.
func (m Match) Clone() Match {
	c := m
	c.EntrantAID = cloneID(m.EntrantAID)
	c.EntrantBID = cloneID(m.EntrantBID)
	c.WinnerID = cloneID(m.WinnerID)
	c.NextMatchID = cloneID(m.NextMatchID)
	c.ScoreA = cloneInt(m.ScoreA)
	c.ScoreB = cloneInt(m.ScoreB)
	if m.NextSlot != nil {
		s := *m.NextSlot
		c.NextSlot = &s
	}
	return c
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
