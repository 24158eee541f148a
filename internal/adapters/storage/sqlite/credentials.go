// Package sqlite persiste las credenciales de la consola en un sqlite
// local, para que la sesión sobreviva reinicios del proceso.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"pet-admin-console/internal/ports/auth"
)

// La fila es única: la consola maneja una sola sesión a la vez.
const credentialKey = "console"

const schema = `
CREATE TABLE IF NOT EXISTS credential (
    key TEXT PRIMARY KEY,
    token TEXT NOT NULL,
    user_name TEXT NOT NULL DEFAULT ''
);
`

type CredentialStore struct {
	db *sql.DB
}

// Open abre (o crea) el archivo sqlite y asegura el schema.
// Es seguro llamarlo múltiples veces: usa IF NOT EXISTS.
func Open(path string) (*CredentialStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: path required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &CredentialStore{db: db}, nil
}

func (s *CredentialStore) Close() error {
	return s.db.Close()
}

func (s *CredentialStore) Save(token, userName string) error {
	_, err := s.db.Exec(`
		INSERT INTO credential (key, token, user_name) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, user_name = excluded.user_name
	`, credentialKey, token, userName)
	if err != nil {
		return fmt.Errorf("sqlite: save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load() (string, string, bool, error) {
	var token, userName string
	err := s.db.QueryRow(
		`SELECT token, user_name FROM credential WHERE key = ?`, credentialKey,
	).Scan(&token, &userName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("sqlite: load credential: %w", err)
	}
	return token, userName, token != "", nil
}

func (s *CredentialStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM credential WHERE key = ?`, credentialKey); err != nil {
		return fmt.Errorf("sqlite: clear credential: %w", err)
	}
	return nil
}

var _ auth.TokenStore = (*CredentialStore)(nil)
