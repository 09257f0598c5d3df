// Package store implements the read-only preferences collaborator
// (spec.md §1, §6): the digest core never owns or writes user preferences,
// it only reads a single key-value row, grounded on the persistence
// adapters' sqlx/pgx convention.
package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PreferencesStore implements port.PreferencesReader against a single
// key-value table owned by another service.
type PreferencesStore struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *PreferencesStore {
	return &PreferencesStore{db: db}
}

type preferenceRow struct {
	Value string `db:"value"`
}

// GetPreference implements port.PreferencesReader.GetPreference.
func (s *PreferencesStore) GetPreference(ctx context.Context, userID, key string) (string, bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return "", false, err
	}

	const query = `
		SELECT value
		FROM user_preferences
		WHERE user_id = $1 AND key = $2
	`

	var row preferenceRow
	if err := s.db.GetContext(ctx, &row, query, id, key); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}

	return row.Value, true, nil
}
