package matchmaking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memLeagueRepo is the in-memory membership store, used by tests and by
// single-binary deployments without postgres.
type memLeagueRepo struct {
	mu      sync.Mutex
	members map[string][]Member // leagueID -> members, insertion order kept
}

func NewMemoryLeagueRepo() *memLeagueRepo {
	return &memLeagueRepo{members: make(map[string][]Member)}
}

func (m *memLeagueRepo) AddMember(leagueID string, member Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[leagueID] = append(m.members[leagueID], member)
}

func (m *memLeagueRepo) ListMembers(ctx context.Context, leagueID string) ([]Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Member, len(m.members[leagueID]))
	copy(out, m.members[leagueID])
	return out, nil
}

// memGameRepo keeps game rows under one mutex, which also makes
// CreateIfBothFree atomic with respect to its own free/busy check.
type memGameRepo struct {
	mu    sync.Mutex
	games map[string]*Game // gameID -> game
}

func NewMemoryGameRepo() *memGameRepo {
	return &memGameRepo{games: make(map[string]*Game)}
}

func (m *memGameRepo) ActiveGameForPlayer(ctx context.Context, leagueID, playerID string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeGameLocked(leagueID, playerID), nil
}

func (m *memGameRepo) activeGameLocked(leagueID, playerID string) *Game {
	for _, g := range m.games {
		if g.LeagueID == leagueID && !g.Completed &&
			(g.PlayerAID == playerID || g.PlayerBID == playerID) {
			cp := *g
			return &cp
		}
	}
	return nil
}

func (m *memGameRepo) PlayedBefore(ctx context.Context, leagueID, playerA, playerB string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.LeagueID != leagueID {
			continue
		}
		if (g.PlayerAID == playerA && g.PlayerBID == playerB) ||
			(g.PlayerAID == playerB && g.PlayerBID == playerA) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memGameRepo) CreateIfBothFree(ctx context.Context, leagueID, playerA, playerB string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeGameLocked(leagueID, playerA) != nil || m.activeGameLocked(leagueID, playerB) != nil {
		return nil, nil
	}
	g := &Game{
		ID:        uuid.NewString(),
		LeagueID:  leagueID,
		PlayerAID: playerA,
		PlayerBID: playerB,
		CreatedAt: time.Now(),
	}
	m.games[g.ID] = g
	cp := *g
	return &cp, nil
}

func (m *memGameRepo) GetByID(ctx context.Context, gameID string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *memGameRepo) MarkCompleted(ctx context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[gameID]; ok {
		g.Completed = true
	}
	return nil
}

func (m *memGameRepo) DeleteByID(ctx context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	return nil
}

// SetSchedule and SetResult mimic the external writes that precede a
// game-updated event. They exist for tests and the in-memory deployment.
func (m *memGameRepo) SetSchedule(gameID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[gameID]; ok {
		g.ScheduledAt = &at
	}
}

func (m *memGameRepo) SetResult(gameID, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[gameID]; ok {
		g.Result = result
	}
}
