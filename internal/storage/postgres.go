package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

var DB *sql.DB

func InitPostgres(dsn string) error {
	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	if err := DB.Ping(); err != nil {
		return err
	}
	return ensureSchema(DB)
}

// ensureSchema creates the tables the matchmaking repos query. Kept minimal
// on purpose; anything beyond these two tables belongs to the surrounding
// application.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS league_members (
    league_id TEXT NOT NULL,
    player_id TEXT NOT NULL,
    email     TEXT,
    PRIMARY KEY (league_id, player_id)
);
CREATE TABLE IF NOT EXISTS games (
    id           TEXT PRIMARY KEY,
    league_id    TEXT NOT NULL,
    player_a     TEXT NOT NULL,
    player_b     TEXT NOT NULL,
    scheduled_at TIMESTAMPTZ,
    result       TEXT NOT NULL DEFAULT '',
    completed    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS games_active_idx ON games (league_id, player_a, player_b) WHERE NOT completed;
`)
	return err
}
