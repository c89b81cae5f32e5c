package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/user/domain/entity"
	"recipe_backend/internal/shared/apperr"
)

// dummyHash is compared against when the user does not exist so that both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID. It returns ErrSessionNotFound when missing.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked by setting RevokedAt.
	Revoke(ctx context.Context, id string) error
}

// TokenGenerator はアクセストークン生成のインターフェースを定義します。
type TokenGenerator interface {
	// GenerateToken creates a signed token bound to a user and a session.
	GenerateToken(userID uint, sessionID string) (string, error)
}

// ClientInfo describes the client a session is issued to.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// AuthUsecase authenticates users and manages the sessions behind their tokens.
type AuthUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
	ttl      time.Duration
}

// NewAuthUsecase creates an AuthUsecase. ttl is the lifetime of issued sessions.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
	}
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Login verifies the credentials and returns a signed token.
// Every failure (unknown email, wrong password, inactive account) yields
// ErrInvalidCredentials. The bcrypt comparison runs even when the user does
// not exist.
func (a *AuthUsecase) Login(ctx context.Context, email, password string, client ClientInfo) (string, error) {
	user, err := a.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if user == nil || compareErr != nil || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now()
	session := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := a.tokens.GenerateToken(user.ID, session.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Logout revokes the session behind the caller's token.
func (a *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if err := a.sessions.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperr.ErrUnauthenticated
		}
		return err
	}
	return nil
}

// ValidateSession reports whether a token's session is still usable: it must
// exist, belong to userID, be neither expired nor revoked, and its user must
// be active.
func (a *AuthUsecase) ValidateSession(ctx context.Context, userID uint, sessionID string) error {
	session, err := a.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return apperr.ErrUnauthenticated
		}
		return err
	}
	if session.UserID != userID || !session.IsValid() {
		return apperr.ErrUnauthenticated
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperr.ErrUnauthenticated
		}
		return err
	}
	if !user.IsActive {
		return apperr.ErrUnauthenticated
	}
	return nil
}
