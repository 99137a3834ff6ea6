package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "moringadesk/contexts/identity-access/auth-service/application"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"
)

const defaultResetTTL = 30 * time.Minute

// ResetPasswordCommand redeems a reset token for a new password.
type ResetPasswordCommand struct {
	Token       string
	NewPassword string
}

// PasswordResetUseCase issues and redeems password reset tokens.
type PasswordResetUseCase struct {
	Store   ports.UnitOfWork
	Hasher  ports.PasswordHasher
	Factory ports.ResetTokenFactory
	Sender  ports.ResetTokenSender
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	TTL     time.Duration
	Logger  *slog.Logger
}

// RequestReset issues a reset token for a known email. Unknown emails succeed
// silently so callers cannot probe for accounts.
func (uc PasswordResetUseCase) RequestReset(ctx context.Context, email string) error {
	logger := application.ResolveLogger(uc.Logger)
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	ttl := uc.TTL
	if ttl <= 0 {
		ttl = defaultResetTTL
	}

	var (
		user     entities.User
		known    bool
		rawToken string
		expires  time.Time
	)
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		user, known, err = repo.GetUserByEmail(ctx, email)
		if err != nil || !known {
			return err
		}
		raw, hash, err := uc.Factory.NewResetToken()
		if err != nil {
			return err
		}
		tokenID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		expires = now.Add(ttl)
		rawToken = raw
		return repo.CreateResetToken(ctx, entities.ResetToken{
			TokenID:   tokenID,
			UserID:    user.UserID,
			TokenHash: hash,
			ExpiresAt: expires,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}
	if !known {
		logger.Info("password reset requested for unknown email",
			"event", "auth_password_reset_unknown_email",
			"module", "identity-access/auth-service",
			"layer", "application",
		)
		return nil
	}
	if uc.Sender != nil {
		if err := uc.Sender.SendResetToken(ctx, user, rawToken, expires); err != nil {
			logger.Error("password reset delivery failed",
				"event", "auth_password_reset_delivery_failed",
				"module", "identity-access/auth-service",
				"layer", "application",
				"user_id", user.UserID,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("password reset token issued",
		"event", "auth_password_reset_issued",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", user.UserID,
		"expires_at", expires,
	)
	return nil
}

// ResetPassword swaps the password hash and burns every outstanding token
// for the user.
func (uc PasswordResetUseCase) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) error {
	raw := strings.TrimSpace(cmd.Token)
	if raw == "" {
		return domainerrors.ErrInvalidResetToken
	}
	if err := validatePassword(cmd.NewPassword); err != nil {
		return err
	}
	passwordHash, err := uc.Hasher.Hash(cmd.NewPassword)
	if err != nil {
		return err
	}

	var userID string
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		token, found, err := repo.GetResetTokenByHash(ctx, uc.Factory.HashResetToken(raw))
		if err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		if !found || token.Expired(now) {
			return domainerrors.ErrInvalidResetToken
		}
		user, err := repo.GetUser(ctx, token.UserID)
		if err != nil {
			return domainerrors.ErrInvalidResetToken
		}
		user.PasswordHash = passwordHash
		user.UpdatedAt = now
		if err := repo.SaveUser(ctx, user); err != nil {
			return err
		}
		userID = user.UserID
		return repo.DeleteResetTokensByUser(ctx, user.UserID)
	})
	if err != nil {
		return err
	}
	application.ResolveLogger(uc.Logger).Info("password reset completed",
		"event", "auth_password_reset_completed",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", userID,
	)
	return nil
}
