package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

const (
	minFlagReason = 5
	maxFlagReason = 300
)

// CreateFlagCommand is the write-model input for reporting content.
type CreateFlagCommand struct {
	Actor      entities.Actor
	TargetType entities.TargetType
	TargetID   string
	Reason     string
}

// DismissFlagCommand names the flag an admin dismisses.
type DismissFlagCommand struct {
	Actor  entities.Actor
	FlagID string
}

// FlagUseCase records and dismisses moderation flags.
type FlagUseCase struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc FlagUseCase) CreateFlag(ctx context.Context, cmd CreateFlagCommand) (entities.Flag, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return entities.Flag{}, err
	}
	if !cmd.TargetType.Valid() {
		return entities.Flag{}, domainerrors.ErrUnknownTargetType
	}
	reason, err := requireText(cmd.Reason, "reason", minFlagReason, maxFlagReason)
	if err != nil {
		return entities.Flag{}, err
	}
	userID := strings.TrimSpace(cmd.Actor.UserID)

	var flag entities.Flag
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		target, err := resolveTarget(ctx, repo, cmd.TargetType, cmd.TargetID)
		if err != nil {
			return err
		}
		if target.AuthorID == userID {
			return domainerrors.ErrSelfFlagNotAllowed
		}
		if _, found, err := repo.GetFlagByIdentity(ctx, userID, target.Type, target.ID); err != nil {
			return err
		} else if found {
			return domainerrors.ErrAlreadyFlagged
		}
		flagID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		flag = entities.Flag{
			FlagID:     flagID,
			UserID:     userID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Reason:     reason,
			CreatedAt:  uc.Clock.Now().UTC(),
		}
		if err := repo.CreateFlag(ctx, flag); err != nil {
			if errors.Is(err, domainerrors.ErrConflict) {
				return domainerrors.ErrAlreadyFlagged
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.Flag{}, err
	}
	application.ResolveLogger(uc.Logger).Info("content flagged",
		"event", "forum_flag_created",
		"module", "community-qa/forum-service",
		"layer", "application",
		"flag_id", flag.FlagID,
		"user_id", flag.UserID,
		"target_type", string(flag.TargetType),
		"target_id", flag.TargetID,
	)
	return flag, nil
}

func (uc FlagUseCase) DismissFlag(ctx context.Context, cmd DismissFlagCommand) error {
	if err := requireAdmin(cmd.Actor); err != nil {
		return err
	}
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		deleted, err := repo.DeleteFlag(ctx, strings.TrimSpace(cmd.FlagID))
		if err != nil {
			return err
		}
		if !deleted {
			return domainerrors.ErrFlagNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	application.ResolveLogger(uc.Logger).Info("flag dismissed",
		"event", "forum_flag_dismissed",
		"module", "community-qa/forum-service",
		"layer", "application",
		"flag_id", cmd.FlagID,
		"admin_id", cmd.Actor.UserID,
	)
	return nil
}
