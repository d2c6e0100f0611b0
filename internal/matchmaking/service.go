package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	clog "github.com/charmbracelet/log"
)

// Service is the pairing orchestrator. It holds no state between calls, so
// one instance is safe to share across concurrent callers; all mutable state
// lives behind the injected repos.
type Service struct {
	games   GameRepo
	leagues LeagueRepo
	notify  Notifier
	locker  PairLocker

	// OnMatchCreated runs asynchronously after every successful pairing.
	// The shell uses it to push live notifications to connected players.
	OnMatchCreated func(*Game)
}

func NewService(games GameRepo, leagues LeagueRepo, notify Notifier, locker PairLocker) *Service {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &Service{games: games, leagues: leagues, notify: notify, locker: locker}
}

// EnsureMatch guarantees the player has at most one active game in the
// league, creating one if absent and a free opponent exists. A nil game with
// nil error means no opponent is available right now; that is not an error.
func (s *Service) EnsureMatch(ctx context.Context, leagueID, playerID string) (*Game, error) {
	if existing, err := s.games.ActiveGameForPlayer(ctx, leagueID, playerID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	members, err := s.leagues.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	// Pre-filter to free candidates. This is an optimization to avoid lock
	// contention on obviously-busy opponents, not the authoritative check;
	// CreateIfBothFree re-verifies inside the lock.
	var free []Member
	for _, m := range members {
		if m.ID == playerID {
			continue
		}
		active, err := s.games.ActiveGameForPlayer(ctx, leagueID, m.ID)
		if err != nil {
			return nil, err
		}
		if active == nil {
			free = append(free, m)
		}
	}
	if len(free) == 0 {
		return nil, nil
	}

	// Unseen opponents first, rematches as fallback. Order within each
	// partition follows membership order.
	var unseen, seen []Member
	for _, m := range free {
		played, err := s.games.PlayedBefore(ctx, leagueID, playerID, m.ID)
		if err != nil {
			return nil, err
		}
		if played {
			seen = append(seen, m)
		} else {
			unseen = append(unseen, m)
		}
	}
	ordered := append(unseen, seen...)

	for _, candidate := range ordered {
		if candidate.ID == playerID {
			// unreachable given the filter above, kept as a guard
			continue
		}
		var created *Game
		key := pairLockKey(leagueID, playerID, candidate.ID)
		err := s.locker.WithLock(ctx, key, func() error {
			g, err := s.games.CreateIfBothFree(ctx, leagueID, playerID, candidate.ID)
			if err != nil {
				return err
			}
			created = g
			return nil
		})
		if err != nil {
			return nil, err
		}
		if created == nil {
			// lost the race or the candidate got busy; try the next one
			continue
		}
		if created.PlayerAID == created.PlayerBID {
			s.discardSelfPaired(ctx, created)
			continue
		}
		s.sendInvitations(ctx, byID, created)
		if s.OnMatchCreated != nil {
			go s.OnMatchCreated(created)
		}
		return created, nil
	}
	return nil, nil
}

// HandleGameUpdated reacts to an external write on a game: once a schedule
// date and a result are both present the game is completed (one-way), and
// both participants go back through matchmaking.
func (s *Service) HandleGameUpdated(ctx context.Context, gameID string) error {
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return nil // already gone
	}
	if g.ScheduledAt == nil || !g.HasResult() {
		return nil
	}
	if !g.Completed {
		if err := s.games.MarkCompleted(ctx, g.ID); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, playerID := range []string{g.PlayerAID, g.PlayerBID} {
		wg.Add(1)
		go func(i int, playerID string) {
			defer wg.Done()
			_, errs[i] = s.EnsureMatch(ctx, g.LeagueID, playerID)
		}(i, playerID)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// BackfillLeague sweeps the whole league, giving every member who can be
// matched an active game. Safe to run repeatedly: members who already have
// one short-circuit inside EnsureMatch.
func (s *Service) BackfillLeague(ctx context.Context, leagueID string) error {
	members, err := s.leagues.ListMembers(ctx, leagueID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if _, err := s.EnsureMatch(ctx, leagueID, m.ID); err != nil {
			return fmt.Errorf("backfill %s: %w", m.ID, err)
		}
	}
	return nil
}

// discardSelfPaired cleans up a game that pairs a player with themself.
// That row is a repo defect; it must never reach a caller. Hard deletion is
// preferred, completing the row is the fallback when the repo cannot delete.
func (s *Service) discardSelfPaired(ctx context.Context, g *Game) {
	if deleter, ok := s.games.(GameDeleter); ok {
		if err := deleter.DeleteByID(ctx, g.ID); err != nil {
			clog.Error("failed to delete self-paired game", "game", g.ID, "err", err)
			return
		}
		clog.Warn("deleted self-paired game", "game", g.ID, "league", g.LeagueID, "player", g.PlayerAID)
		return
	}
	if err := s.games.MarkCompleted(ctx, g.ID); err != nil {
		clog.Error("failed to retire self-paired game", "game", g.ID, "err", err)
		return
	}
	clog.Warn("retired self-paired game, repo cannot delete", "game", g.ID, "league", g.LeagueID, "player", g.PlayerAID)
}

// sendInvitations mails both participants that have an email on file.
// Members without one are skipped silently; delivery failures are logged
// and otherwise ignored.
func (s *Service) sendInvitations(ctx context.Context, byID map[string]Member, g *Game) {
	if s.notify == nil {
		return
	}
	var recipients []Recipient
	for _, playerID := range []string{g.PlayerAID, g.PlayerBID} {
		if m, ok := byID[playerID]; ok && m.Email != "" {
			recipients = append(recipients, Recipient{PlayerID: m.ID, Email: m.Email})
		}
	}
	if len(recipients) == 0 {
		return
	}
	if err := s.notify.SendMatchInvitation(ctx, recipients, g); err != nil {
		clog.Warn("match invitation delivery failed", "game", g.ID, "err", err)
	}
}
