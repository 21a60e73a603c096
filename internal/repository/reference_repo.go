package repository

import (
	"time"

	"github.com/brainydocs/brainydocs/internal/domain"
)

// ReferenceRepository tracks which source documents a user's answers cited
type ReferenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// Upsert records a citation for a user, refreshing last_seen on repeats
func (r *ReferenceRepository) Upsert(userID, source string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_references (user_id, source, last_seen)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, source) DO UPDATE SET last_seen = excluded.last_seen
	`, userID, source, time.Now())
	return err
}

// ListByUser lists a user's references, most recently seen first
func (r *ReferenceRepository) ListByUser(userID string) ([]*domain.Reference, error) {
	rows, err := r.db.Query(`
		SELECT user_id, source, last_seen
		FROM user_references WHERE user_id = ?
		ORDER BY last_seen DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*domain.Reference
	for rows.Next() {
		ref := &domain.Reference{}
		if err := rows.Scan(&ref.UserID, &ref.Source, &ref.LastSeen); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}
