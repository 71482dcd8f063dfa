package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/i474232898/weather-history/internal/account"
)

// UserRepository implements account.Store.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A taken username is reported by the UNIQUE
// constraint, never by a prior lookup.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*account.User, error) {
	query := r.db.rebind(`INSERT INTO users (username, hash) VALUES (?, ?) RETURNING id`)

	var id int64
	if err := r.db.QueryRowContext(ctx, query, username, passwordHash).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return nil, account.ErrDuplicateUsername
		}
		return nil, unavailable("insert user", err)
	}

	return &account.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*account.User, error) {
	query := r.db.rebind(`SELECT id, username, hash FROM users WHERE username = ?`)

	var u account.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}
		return nil, unavailable("find user", err)
	}
	return &u, nil
}
