package application

import (
	"context"
	"log/slog"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

// Notifier writes notifications as a best-effort side effect of another
// mutation. It runs in its own unit of work after the primary one committed,
// and it never returns an error to the caller.
type Notifier struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Emit stores a notification for recipientID unless the actor is the
// recipient. It reports whether a row was written.
func (n Notifier) Emit(
	ctx context.Context,
	actorID string,
	recipientID string,
	notificationType entities.NotificationType,
	payload map[string]any,
) bool {
	logger := ResolveLogger(n.Logger)
	actorID = strings.TrimSpace(actorID)
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" || actorID == recipientID {
		return false
	}
	if n.Store == nil || n.IDGen == nil || n.Clock == nil {
		logger.Warn("notification emitter is not configured",
			"event", "forum_notification_emitter_unconfigured",
			"module", "community-qa/forum-service",
			"layer", "application",
			"type", string(notificationType),
		)
		return false
	}

	notificationID, err := n.IDGen.NewID(ctx)
	if err != nil {
		n.logFailure(logger, err, recipientID, notificationType)
		return false
	}
	notification := entities.Notification{
		NotificationID: notificationID,
		UserID:         recipientID,
		Type:           notificationType,
		Payload:        payload,
		CreatedAt:      n.Clock.Now().UTC(),
	}
	if err := n.Store.Do(ctx, func(repo ports.Repository) error {
		return repo.CreateNotification(ctx, notification)
	}); err != nil {
		n.logFailure(logger, err, recipientID, notificationType)
		return false
	}

	logger.Info("notification emitted",
		"event", "forum_notification_emitted",
		"module", "community-qa/forum-service",
		"layer", "application",
		"notification_id", notification.NotificationID,
		"user_id", recipientID,
		"type", string(notificationType),
	)
	return true
}

func (n Notifier) logFailure(
	logger *slog.Logger,
	err error,
	recipientID string,
	notificationType entities.NotificationType,
) {
	logger.Warn("notification emit failed",
		"event", "forum_notification_emit_failed",
		"module", "community-qa/forum-service",
		"layer", "application",
		"user_id", recipientID,
		"type", string(notificationType),
		"error", err.Error(),
	)
}
