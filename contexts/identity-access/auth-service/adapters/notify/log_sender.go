package notify

import (
	"context"
	"log/slog"
	"time"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
)

// LogSender writes reset tokens to the structured log instead of mailing
// them. It is the delivery used until an email provider is wired.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) SendResetToken(_ context.Context, user entities.User, rawToken string, expiresAt time.Time) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("password reset token generated",
		"event", "auth_password_reset_token_generated",
		"module", "identity-access/auth-service",
		"layer", "adapter",
		"user_id", user.UserID,
		"email", user.Email,
		"reset_token", rawToken,
		"expires_at", expiresAt,
	)
	return nil
}
