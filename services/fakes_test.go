package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/repositories"
	"github.com/google/uuid"
)

// In-memory stand-ins for the postgres repositories.

type fakeTxManager struct {
	matches   *fakeMatchRepo
	calls     int
	rollbacks int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	var snap map[uuid.UUID]models.Match
	if f.matches != nil {
		snap = f.matches.snapshot()
	}
	if err := fn(nil); err != nil {
		f.rollbacks++
		if f.matches != nil {
			f.matches.restore(snap)
		}
		return err
	}
	return nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[uuid.UUID]*models.Tournament
	locks       int
	lastFilter  repositories.ListTournamentsFilter
}

func newFakeTournamentRepo(ts ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[uuid.UUID]*models.Tournament)}
	for _, t := range ts {
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now().UTC()
	c := *t
	r.tournaments[t.ID] = &c
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTournamentRepo) LockForUpdate(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	r.locks++
	return nil
}

type fakeEntrantRepo struct {
	mu       sync.Mutex
	entrants map[uuid.UUID][]*models.Entrant
}

func newFakeEntrantRepo() *fakeEntrantRepo {
	return &fakeEntrantRepo{entrants: make(map[uuid.UUID][]*models.Entrant)}
}

func (r *fakeEntrantRepo) Create(ctx context.Context, e *models.Entrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entrants[e.TournamentID] {
		if existing.Name == e.Name {
			return repositories.ErrEntrantNameConflict
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	c := *e
	r.entrants[e.TournamentID] = append(r.entrants[e.TournamentID], &c)
	return nil
}

func (r *fakeEntrantRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Entrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Entrant, 0, len(r.entrants[tournamentID]))
	for _, e := range r.entrants[tournamentID] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

type fakeMatchRepo struct {
	mu        sync.Mutex
	matches   map[uuid.UUID]models.Match
	createErr error
	updates   int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[uuid.UUID]models.Match)}
}

func (r *fakeMatchRepo) snapshot() map[uuid.UUID]models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]models.Match, len(r.matches))
	for id, m := range r.matches {
		snap[id] = m.Clone()
	}
	return snap
}

func (r *fakeMatchRepo) restore(snap map[uuid.UUID]models.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = snap
}

func (r *fakeMatchRepo) put(m models.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID] = m.Clone()
}

func (r *fakeMatchRepo) get(id uuid.UUID) models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches[id].Clone()
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil && len(r.matches) > 0 {
		return r.createErr
	}
	for _, existing := range r.matches {
		if existing.TournamentID == m.TournamentID && existing.Round == m.Round && existing.Position == m.Position {
			return repositories.ErrMatchPositionConflict
		}
	}
	c := m.Clone()
	c.NextMatchID = nil
	c.NextSlot = nil
	r.matches[m.ID] = c
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := m.Clone()
	return &c, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			c := m.Clone()
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) UpdateNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, matchID uuid.UUID, nextMatchID *uuid.UUID, nextSlot *models.MatchSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if nextSlot != nil && !nextSlot.Valid() {
		return repositories.ErrMatchInvalidSlot
	}
	if nextMatchID != nil {
		id := *nextMatchID
		m.NextMatchID = &id
	}
	if nextSlot != nil {
		s := *nextSlot
		m.NextSlot = &s
	}
	r.matches[matchID] = m
	return nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	c := m.Clone()
	stored.EntrantAID = c.EntrantAID
	stored.EntrantBID = c.EntrantBID
	stored.ScoreA = c.ScoreA
	stored.ScoreB = c.ScoreB
	stored.WinnerID = c.WinnerID
	r.matches[m.ID] = stored
	r.updates++
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	c := *u
	r.users[u.Email] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

type sentMessage struct {
	room    string
	message interface{}
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{room: roomID, message: message})
}

type fakeSnapshots struct {
	published []uuid.UUID
	err       error
}

func (f *fakeSnapshots) Publish(ctx context.Context, tournamentID uuid.UUID, payload interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, tournamentID)
	return "https://cdn.example.com/" + tournamentID.String() + ".json", nil
}

type countingMetrics struct {
	brackets int
	advanced int
	noWinner int
	cascaded int
}

func (c *countingMetrics) BracketGenerated(matches int) { c.brackets++ }

func (c *countingMetrics) ResultRecorded(advanced bool, cascaded int) {
	if advanced {
		c.advanced++
	} else {
		c.noWinner++
	}
	c.cascaded += cascaded
}

var errBoom = errors.New("boom")
