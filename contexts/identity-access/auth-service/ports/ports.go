package ports

import (
	"context"
	"time"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error)
	SaveUser(ctx context.Context, user entities.User) error
	ListUsers(ctx context.Context) ([]entities.User, error)
	DeleteUser(ctx context.Context, userID string) (bool, error)
}

type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, token entities.ResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (entities.ResetToken, bool, error)
	DeleteResetTokensByUser(ctx context.Context, userID string) error
}

type Repository interface {
	UserRepository
	ResetTokenRepository
}

// UnitOfWork runs fn against a repository bound to one transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenIssuer signs and verifies bearer access tokens.
type TokenIssuer interface {
	Issue(user entities.User) (entities.AccessToken, error)
	Parse(token string) (string, error)
}

// ResetTokenFactory creates a raw reset token and the hash that is stored.
type ResetTokenFactory interface {
	NewResetToken() (raw string, hash string, err error)
	HashResetToken(raw string) string
}

// ResetTokenSender delivers a raw reset token to the account owner.
type ResetTokenSender interface {
	SendResetToken(ctx context.Context, user entities.User, rawToken string, expiresAt time.Time) error
}

// ForumContent is the forum-side view this module needs when managing users.
type ForumContent interface {
	DeleteUserContent(ctx context.Context, userID string) error
	ContentStats(ctx context.Context) (entities.ContentStats, error)
}
