package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceEnv struct {
	tournament  *models.Tournament
	tournaments *fakeTournamentRepo
	entrants    *fakeEntrantRepo
	matches     *fakeMatchRepo
	tx          *fakeTxManager
	broadcaster *recordingBroadcaster
	snapshots   *fakeSnapshots
	metrics     *countingMetrics

	tournamentSvc TournamentService
	bracketSvc    BracketService
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	tournament := &models.Tournament{ID: uuid.New(), Name: "Spring Cup", Sport: "football"}
	env := &serviceEnv{
		tournament:  tournament,
		tournaments: newFakeTournamentRepo(tournament),
		entrants:    newFakeEntrantRepo(),
		matches:     newFakeMatchRepo(),
		broadcaster: &recordingBroadcaster{},
		snapshots:   &fakeSnapshots{},
		metrics:     &countingMetrics{},
	}
	env.tx = &fakeTxManager{matches: env.matches}
	env.tournamentSvc = NewTournamentService(env.tournaments, env.entrants, env.matches, discardLogger(nil))
	env.bracketSvc = NewBracketService(env.tx, env.tournaments, env.entrants, env.matches,
		brackets.NewSingleEliminationGenerator(), env.broadcaster, env.snapshots, env.metrics, nil)
	return env
}

func (e *serviceEnv) matchService(opts MatchServiceOptions) MatchService {
	return NewMatchService(e.tx, e.tournaments, e.matches, e.broadcaster, e.metrics, opts, nil)
}

func (e *serviceEnv) addEntrants(t *testing.T, n int) []*models.Entrant {
	t.Helper()
	out := make([]*models.Entrant, 0, n)
	for i := 1; i <= n; i++ {
		entrant, err := e.tournamentSvc.AddEntrant(context.Background(), e.tournament.ID, AddEntrantInput{Name: fmt.Sprintf("Team %d", i)})
		require.NoError(t, err)
		out = append(out, entrant)
	}
	return out
}

// at returns the stored match at (round, position).
func (e *serviceEnv) at(t *testing.T, round, position int) models.Match {
	t.Helper()
	all, err := e.matches.ListByTournament(context.Background(), nil, e.tournament.ID)
	require.NoError(t, err)
	for _, m := range all {
		if m.Round == round && m.Position == position {
			return *m
		}
	}
	t.Fatalf("no match at round %d position %d", round, position)
	return models.Match{}
}

func TestGenerateBracket_PersistsLinkedBracket(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 5)

	bracket, err := env.bracketSvc.GenerateBracket(context.Background(), env.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, bracket.Size)
	assert.Equal(t, 3, bracket.Rounds)

	stored, err := env.matches.ListByTournament(context.Background(), nil, env.tournament.ID)
	require.NoError(t, err)
	require.Len(t, stored, 7)

	finals := 0
	for _, m := range stored {
		if m.NextMatchID == nil {
			finals++
			assert.Equal(t, 3, m.Round)
			continue
		}
		require.NotNil(t, m.NextSlot)
		next := env.matches.get(*m.NextMatchID)
		assert.Equal(t, m.Round+1, next.Round)
		assert.Equal(t, m.Position/2, next.Position)
	}
	assert.Equal(t, 1, finals)
	assert.Equal(t, 1, env.tournaments.locks)

	require.Len(t, env.broadcaster.sent, 1)
	sent := env.broadcaster.sent[0]
	assert.Equal(t, brackets.RoomForTournament(env.tournament.ID), sent.room)
	msg, ok := sent.message.(brackets.WebSocketMessage)
	require.True(t, ok)
	assert.Equal(t, brackets.MessageBracketGenerated, msg.Type)

	assert.Equal(t, []uuid.UUID{env.tournament.ID}, env.snapshots.published)
	assert.Equal(t, 1, env.metrics.brackets)
}

func TestGenerateBracket_ReplacesExistingBracket(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 4)
	ctx := context.Background()

	first, err := env.bracketSvc.GenerateBracket(ctx, env.tournament.ID)
	require.NoError(t, err)
	second, err := env.bracketSvc.GenerateBracket(ctx, env.tournament.ID)
	require.NoError(t, err)

	stored, err := env.matches.ListByTournament(ctx, nil, env.tournament.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, m := range stored {
		assert.Nil(t, first.ByID(m.ID), "match from the first bracket survived")
		assert.NotNil(t, second.ByID(m.ID))
	}
}

func TestGenerateBracket_InsufficientEntrants(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 1)
	leftover := models.Match{ID: uuid.New(), TournamentID: env.tournament.ID, Round: 1}
	env.matches.put(leftover)

	_, err := env.bracketSvc.GenerateBracket(context.Background(), env.tournament.ID)
	require.ErrorIs(t, err, ErrInsufficientEntrants)
	assert.ErrorIs(t, err, brackets.ErrInsufficientEntrants)

	stored, err := env.matches.ListByTournament(context.Background(), nil, env.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Empty(t, env.broadcaster.sent)
}

func TestGenerateBracket_UnknownTournament(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.bracketSvc.GenerateBracket(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGenerateBracket_FailureKeepsPreviousBracket(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 4)
	ctx := context.Background()

	first, err := env.bracketSvc.GenerateBracket(ctx, env.tournament.ID)
	require.NoError(t, err)

	env.matches.createErr = errBoom
	_, err = env.bracketSvc.GenerateBracket(ctx, env.tournament.ID)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, env.tx.rollbacks)

	stored, err := env.matches.ListByTournament(ctx, nil, env.tournament.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, m := range stored {
		assert.NotNil(t, first.ByID(m.ID))
	}
	assert.Len(t, env.broadcaster.sent, 1)
}

func TestGenerateBracket_SnapshotFailureIsNotFatal(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 2)
	env.snapshots.err = errBoom

	bracket, err := env.bracketSvc.GenerateBracket(context.Background(), env.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, bracket.Matches, 1)
}

func TestGenerateBracket_WithoutSnapshotsOrBroadcaster(t *testing.T) {
	env := newServiceEnv(t)
	env.addEntrants(t, 3)
	svc := NewBracketService(env.tx, env.tournaments, env.entrants, env.matches,
		brackets.NewSingleEliminationGenerator(), nil, nil, nil, nil)

	bracket, err := svc.GenerateBracket(context.Background(), env.tournament.ID)
	require.NoError(t, err)
	assert.Len(t, bracket.Matches, 3)
}
