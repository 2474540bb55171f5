package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard-io/taskboard-backend/internal/auth/domain"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByAuthToken(ctx context.Context, token string) (*domain.User, error)
	ReplaceAuthToken(ctx context.Context, userID int64, token string) error
}

// Hash of an unguessable password, compared against on unknown emails so a
// login miss costs the same bcrypt work as a hit.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements the session gate: credential verification on login
// and token resolution for every authenticated request.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the email/password pair and, on success, issues a fresh
// opaque token that replaces any previous one for the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.users.ReplaceAuthToken(ctx, user.ID, token); err != nil {
		return nil, err
	}

	return &domain.Session{AuthToken: token, Email: user.Email}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByAuthToken(ctx, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword produces a bcrypt digest for account seeding.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}
