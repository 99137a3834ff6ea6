package commands

import (
	"context"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

// NotificationUseCase handles recipient-driven notification writes.
type NotificationUseCase struct {
	Store  ports.UnitOfWork
	Logger *slog.Logger
}

// MarkAllRead returns how many notifications flipped to read.
func (uc NotificationUseCase) MarkAllRead(ctx context.Context, actor entities.Actor) (int, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	var updated int
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		updated, err = repo.MarkAllRead(ctx, strings.TrimSpace(actor.UserID))
		return err
	})
	if err != nil {
		return 0, err
	}
	application.ResolveLogger(uc.Logger).Info("notifications marked read",
		"event", "forum_notifications_marked_read",
		"module", "community-qa/forum-service",
		"layer", "application",
		"user_id", actor.UserID,
		"updated", updated,
	)
	return updated, nil
}
