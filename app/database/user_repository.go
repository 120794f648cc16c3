package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lysyi3m/moodlehack/app/model"
)

var _ UserRepository = (*UserRepo)(nil)

// UserRepo handles database operations for accounts
type UserRepo struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `WHERE username = ?`, username)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_active, created_at FROM users `+where, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsActive, &user.Created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?)
	`, user.Username, user.PasswordHash, user.IsActive, now)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}

	user.ID = id
	user.Created = now
	return nil
}

func (r *UserRepo) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
