package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store persists per-user API tokens in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the token database under dataDir, creating the
// directory and schema if needed. The database uses WAL mode so the
// serve process and the token CLI can share it.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("tokens: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tokens.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("tokens: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("tokens: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("tokens: migration: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS user_tokens (
			user_id    TEXT PRIMARY KEY,
			token      TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Set saves or replaces the token for a user.
func (s *Store) Set(userID, token string) error {
	if userID == "" {
		return fmt.Errorf("tokens: user ID is required")
	}
	if token == "" {
		return fmt.Errorf("tokens: token is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO user_tokens (user_id, token) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, updated_at = datetime('now')`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("tokens: save token: %w", err)
	}
	return nil
}

// Resolve implements Resolver against the database.
func (s *Store) Resolve(ctx context.Context, userID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM user_tokens WHERE user_id = ?`, userID,
	).Scan(&token)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w for user %q", ErrNotFound, userID)
	}
	if err != nil {
		return "", fmt.Errorf("tokens: query token: %w", err)
	}
	return token, nil
}

// Delete removes a user's token. Deleting an absent user is not an error.
func (s *Store) Delete(userID string) error {
	if _, err := s.db.Exec(`DELETE FROM user_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("tokens: delete token: %w", err)
	}
	return nil
}

// List returns the user IDs with stored tokens, sorted. Token values
// are never returned.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT user_id FROM user_tokens ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("tokens: list tokens: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
