package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-system/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	env := newServiceEnv(t)
	creator := uuid.New()

	created, err := env.tournamentSvc.CreateTournament(context.Background(), creator, CreateTournamentInput{Name: "  Autumn Open ", Sport: "tennis"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Autumn Open", created.Name)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, creator, *created.CreatedBy)

	_, err = env.tournamentSvc.CreateTournament(context.Background(), creator, CreateTournamentInput{Sport: "tennis"})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = env.tournamentSvc.CreateTournament(context.Background(), creator, CreateTournamentInput{Name: "No sport"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAddEntrant(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	seed := 2

	entrant, err := env.tournamentSvc.AddEntrant(ctx, env.tournament.ID, AddEntrantInput{Name: "Lions", Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, env.tournament.ID, entrant.TournamentID)
	assert.Equal(t, 2, *entrant.Seed)

	_, err = env.tournamentSvc.AddEntrant(ctx, env.tournament.ID, AddEntrantInput{Name: "Lions"})
	assert.ErrorIs(t, err, ErrEntrantNameConflict)

	_, err = env.tournamentSvc.AddEntrant(ctx, env.tournament.ID, AddEntrantInput{Name: " "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	zero := 0
	_, err = env.tournamentSvc.AddEntrant(ctx, env.tournament.ID, AddEntrantInput{Name: "Tigers", Seed: &zero})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.tournamentSvc.AddEntrant(ctx, uuid.New(), AddEntrantInput{Name: "Bears"})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	entrants, err := env.tournamentSvc.ListEntrants(ctx, env.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, entrants, 1)
}

func TestGetTournament(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	view, err := env.tournamentSvc.GetTournament(ctx, env.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, env.tournament.Name, view.Name)
	assert.Empty(t, view.Entrants)
	assert.NotNil(t, view.Matches)
	assert.Nil(t, view.ChampionID)

	env.addEntrants(t, 4)
	_, err = env.bracketSvc.GenerateBracket(ctx, env.tournament.ID)
	require.NoError(t, err)

	view, err = env.tournamentSvc.GetTournament(ctx, env.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, view.Entrants, 4)
	assert.Len(t, view.Matches, 3)
	assert.Nil(t, view.ChampionID)

	_, err = env.tournamentSvc.GetTournament(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestListTournaments_ClampsPaging(t *testing.T) {
	env := newServiceEnv(t)

	list, err := env.tournamentSvc.ListTournaments(context.Background(), ListTournamentsInput{Limit: 10_000, Offset: -5})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, repositories.ListTournamentsFilter{Limit: maxListLimit}, env.tournaments.lastFilter)

	_, err = env.tournamentSvc.ListTournaments(context.Background(), ListTournamentsInput{})
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, env.tournaments.lastFilter.Limit)
}
