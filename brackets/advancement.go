package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
)

// Advancement is the outcome of scoring one match: the scored match plus, when
// a winner moved forward, the downstream match it was placed into. Both records
// must be persisted together.
type Advancement struct {
	Match      models.Match  `json:"match"`
	Downstream *models.Match `json:"downstream,omitempty"`

	// ClearedWinner is the downstream winner wiped by the reset, if there was one.
	// Anything that winner had already reached further on is now stale.
	ClearedWinner *uuid.UUID `json:"-"`
}

// MatchLoader fetches a match by identity.
type MatchLoader interface {
	LoadMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
}

type MatchLoaderFunc func(ctx context.Context, id uuid.UUID) (*models.Match, error)

func (f MatchLoaderFunc) LoadMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	return f(ctx, id)
}

// DetermineWinner maps scores to the occupant of the winning slot. A tie, or a
// win for an empty slot, yields nil.
func DetermineWinner(m *models.Match, scoreA, scoreB int) *uuid.UUID {
	var winner *uuid.UUID
	switch {
	case scoreA > scoreB:
		winner = m.EntrantAID
	case scoreB > scoreA:
		winner = m.EntrantBID
	}
	if winner == nil {
		return nil
	}
	id := *winner
	return &id
}

// RecordResult applies scores to match and, if that produces a winner and the
// match has a forward link, places the winner into next and resets next's
// scores and winner. next is only consulted in that case. Inputs are not mutated,
// so calling it twice with the same arguments yields the same Advancement.
func RecordResult(match models.Match, next *models.Match, scoreA, scoreB int) (Advancement, error) {
	updated := match.Clone()
	a, b := scoreA, scoreB
	updated.ScoreA = &a
	updated.ScoreB = &b
	updated.WinnerID = DetermineWinner(&updated, scoreA, scoreB)

	adv := Advancement{Match: updated}
	if updated.WinnerID == nil || updated.NextMatchID == nil {
		return adv, nil
	}

	if updated.NextSlot == nil || !updated.NextSlot.Valid() {
		return Advancement{}, fmt.Errorf("%w: match %s links to %s with slot %v",
			ErrInvalidSlot, updated.ID, *updated.NextMatchID, updated.NextSlot)
	}
	if next == nil || next.ID != *updated.NextMatchID {
		return Advancement{}, fmt.Errorf("%w: downstream match %s of match %s",
			ErrMatchNotFound, *updated.NextMatchID, updated.ID)
	}

	downstream := next.Clone()
	adv.ClearedWinner = downstream.WinnerID
	downstream.SetOccupant(*updated.NextSlot, updated.WinnerID)
	// A new occupant invalidates whatever was recorded for the downstream match.
	downstream.ClearResult()
	adv.Downstream = &downstream
	return adv, nil
}

// Unwind removes stale, an entrant that was advanced out of from, from the match
// from links into, and resets that match's result. It returns the updated match
// and the winner it lost, which is stale one level further on. If the slot no
// longer holds stale, next is returned unchanged with changed=false.
func Unwind(from models.Match, stale uuid.UUID, next models.Match) (updated models.Match, lost *uuid.UUID, changed bool, err error) {
	if from.NextMatchID == nil || *from.NextMatchID != next.ID {
		return next, nil, false, fmt.Errorf("%w: match %s is not linked from %s", ErrMatchNotFound, next.ID, from.ID)
	}
	if from.NextSlot == nil || !from.NextSlot.Valid() {
		return next, nil, false, fmt.Errorf("%w: match %s", ErrInvalidSlot, from.ID)
	}

	occupant := next.Occupant(*from.NextSlot)
	if occupant == nil || *occupant != stale {
		return next, nil, false, nil
	}

	updated = next.Clone()
	lost = updated.WinnerID
	updated.SetOccupant(*from.NextSlot, nil)
	updated.ClearResult()
	return updated, lost, true, nil
}

// Engine binds RecordResult to a loader for the downstream match.
type Engine struct {
	loader MatchLoader
}

func NewEngine(loader MatchLoader) *Engine {
	return &Engine{loader: loader}
}

// RecordResult scores match, loading the downstream match only when a winner
// has to be placed into it.
func (e *Engine) RecordResult(ctx context.Context, match models.Match, scoreA, scoreB int) (Advancement, error) {
	var next *models.Match
	winner := DetermineWinner(&match, scoreA, scoreB)
	if winner != nil && match.NextMatchID != nil {
		if match.NextSlot == nil || !match.NextSlot.Valid() {
			return Advancement{}, fmt.Errorf("%w: match %s", ErrInvalidSlot, match.ID)
		}
		loaded, err := e.loader.LoadMatch(ctx, *match.NextMatchID)
		if err != nil {
			if errors.Is(err, ErrMatchNotFound) {
				return Advancement{}, err
			}
			return Advancement{}, fmt.Errorf("failed to load downstream match %s: %w", *match.NextMatchID, err)
		}
		if loaded == nil {
			return Advancement{}, fmt.Errorf("%w: downstream match %s", ErrMatchNotFound, *match.NextMatchID)
		}
		next = loaded
	}
	return RecordResult(match, next, scoreA, scoreB)
}
