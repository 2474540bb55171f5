package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taskboard-io/taskboard-backend/internal/auth/domain"
)

// UserRepository persists accounts and their session tokens.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_digest, auth_token, created_at, updated_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var token sql.NullString

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &token, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if token.Valid {
		u.AuthToken = &token.String
	}
	return &u, nil
}

// GetByEmail retrieves a user by their login email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByAuthToken resolves a presented session token to its user.
func (r *UserRepository) GetByAuthToken(ctx context.Context, token string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE auth_token = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, token))
}

// ReplaceAuthToken swaps in a freshly issued token. The single UPDATE keeps
// the at-most-one-valid-token rule intact under concurrent logins: whichever
// statement commits last owns the token.
func (r *UserRepository) ReplaceAuthToken(ctx context.Context, userID int64, token string) error {
	query := `
		UPDATE users
		SET auth_token = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("replace auth token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Create inserts a new account. Used by seeding and test setup.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	query := `
		INSERT INTO users (email, password_digest)
		VALUES ($1, $2)
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRowContext(ctx, query, email, passwordHash))
}
