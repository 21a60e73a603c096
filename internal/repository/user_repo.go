package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/brainydocs/brainydocs/internal/domain"
)

// UserRepository handles user persistence
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, name, provider, password_hash, google_sub, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.Name, user.Provider, user.PasswordHash,
		user.GoogleSub, user.CreatedAt)

	return err
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, name, provider, password_hash, google_sub, created_at
		FROM users WHERE id = ?
	`, id))
}

// GetByEmail retrieves a user by email and provider
func (r *UserRepository) GetByEmail(email, provider string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, name, provider, password_hash, google_sub, created_at
		FROM users WHERE email = ? AND provider = ?
	`, email, provider))
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var name, passwordHash, googleSub sql.NullString

	err := row.Scan(&user.ID, &user.Email, &name, &user.Provider,
		&passwordHash, &googleSub, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.PasswordHash = passwordHash.String
	user.GoogleSub = googleSub.String

	return user, nil
}

// Count returns the total number of users
func (r *UserRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
