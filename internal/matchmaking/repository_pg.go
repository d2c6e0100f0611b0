package matchmaking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Postgres-backed repos. CreateIfBothFree takes a transaction-scoped
// advisory lock on the pair key, so the free/busy check and the insert are
// atomic even across processes sharing the database.

type pgLeagueRepo struct {
	db *sql.DB
}

func NewPostgresLeagueRepo(db *sql.DB) *pgLeagueRepo {
	return &pgLeagueRepo{db: db}
}

func (r *pgLeagueRepo) ListMembers(ctx context.Context, leagueID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, COALESCE(email, '') FROM league_members WHERE league_id = $1 ORDER BY player_id`,
		leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Email); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type pgGameRepo struct {
	db *sql.DB
}

func NewPostgresGameRepo(db *sql.DB) *pgGameRepo {
	return &pgGameRepo{db: db}
}

const gameColumns = `id, league_id, player_a, player_b, scheduled_at, result, completed, created_at`

func scanGame(row interface{ Scan(...any) error }) (*Game, error) {
	var g Game
	var scheduled sql.NullTime
	err := row.Scan(&g.ID, &g.LeagueID, &g.PlayerAID, &g.PlayerBID, &scheduled, &g.Result, &g.Completed, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if scheduled.Valid {
		t := scheduled.Time
		g.ScheduledAt = &t
	}
	return &g, nil
}

func (r *pgGameRepo) ActiveGameForPlayer(ctx context.Context, leagueID, playerID string) (*Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games
		 WHERE league_id = $1 AND NOT completed AND (player_a = $2 OR player_b = $2)
		 LIMIT 1`, leagueID, playerID)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("active game for %s: %w", playerID, err)
	}
	return g, nil
}

func (r *pgGameRepo) PlayedBefore(ctx context.Context, leagueID, playerA, playerB string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM games
		    WHERE league_id = $1
		      AND ((player_a = $2 AND player_b = $3) OR (player_a = $3 AND player_b = $2))
		 )`, leagueID, playerA, playerB).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("played before: %w", err)
	}
	return exists, nil
}

func (r *pgGameRepo) CreateIfBothFree(ctx context.Context, leagueID, playerA, playerB string) (*Game, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer tx.Rollback()

	// Serialize concurrent creators of the same pair for the duration of the
	// transaction. hashtext collisions only cost extra serialization.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		pairLockKey(leagueID, playerA, playerB)); err != nil {
		return nil, fmt.Errorf("pair advisory lock: %w", err)
	}

	var busy bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM games
		    WHERE league_id = $1 AND NOT completed
		      AND (player_a IN ($2, $3) OR player_b IN ($2, $3))
		 )`, leagueID, playerA, playerB).Scan(&busy)
	if err != nil {
		return nil, fmt.Errorf("free check: %w", err)
	}
	if busy {
		return nil, nil
	}

	g := &Game{
		ID:        uuid.NewString(),
		LeagueID:  leagueID,
		PlayerAID: playerA,
		PlayerBID: playerB,
		CreatedAt: time.Now(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, league_id, player_a, player_b, created_at) VALUES ($1, $2, $3, $4, $5)`,
		g.ID, g.LeagueID, g.PlayerAID, g.PlayerBID, g.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return g, nil
}

func (r *pgGameRepo) GetByID(ctx context.Context, gameID string) (*Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, gameID)
	g, err := scanGame(row)
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return g, nil
}

func (r *pgGameRepo) MarkCompleted(ctx context.Context, gameID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE games SET completed = TRUE WHERE id = $1`, gameID); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (r *pgGameRepo) DeleteByID(ctx context.Context, gameID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM games WHERE id = $1`, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
