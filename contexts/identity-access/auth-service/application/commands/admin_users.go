package commands

import (
	"context"
	"log/slog"
	"strings"

	application "moringadesk/contexts/identity-access/auth-service/application"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"
)

// UpdateRoleCommand is an admin request to change a user's role.
type UpdateRoleCommand struct {
	Actor  entities.Identity
	UserID string
	Role   entities.Role
}

// DeleteUserCommand is an admin request to remove a user and their content.
type DeleteUserCommand struct {
	Actor  entities.Identity
	UserID string
}

// AdminUserUseCase holds the admin-only account operations.
type AdminUserUseCase struct {
	Store   ports.UnitOfWork
	Content ports.ForumContent
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc AdminUserUseCase) UpdateRole(ctx context.Context, cmd UpdateRoleCommand) (entities.User, error) {
	if err := ensureAdmin(cmd.Actor); err != nil {
		return entities.User{}, err
	}
	if !cmd.Role.Valid() {
		return entities.User{}, domainerrors.ErrInvalidRole
	}
	userID := strings.TrimSpace(cmd.UserID)
	if userID == cmd.Actor.UserID {
		return entities.User{}, domainerrors.ErrCannotChangeOwnRole
	}

	var user entities.User
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		user, err = repo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		user.Role = cmd.Role
		user.UpdatedAt = uc.Clock.Now().UTC()
		return repo.SaveUser(ctx, user)
	})
	if err != nil {
		return entities.User{}, err
	}
	application.ResolveLogger(uc.Logger).Info("user role updated",
		"event", "auth_user_role_updated",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", user.UserID,
		"admin_id", cmd.Actor.UserID,
		"role", string(user.Role),
	)
	return user, nil
}

// DeleteUser removes the user's forum content first and the account second.
// The two steps commit separately; a failure after the first leaves an
// account with no content, and repeating the call finishes the job.
func (uc AdminUserUseCase) DeleteUser(ctx context.Context, cmd DeleteUserCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := ensureAdmin(cmd.Actor); err != nil {
		return err
	}
	userID := strings.TrimSpace(cmd.UserID)
	if userID == cmd.Actor.UserID {
		return domainerrors.ErrCannotDeleteSelf
	}
	if err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		_, err := repo.GetUser(ctx, userID)
		return err
	}); err != nil {
		return err
	}

	if uc.Content != nil {
		if err := uc.Content.DeleteUserContent(ctx, userID); err != nil {
			logger.Error("user content purge failed",
				"event", "auth_user_content_purge_failed",
				"module", "identity-access/auth-service",
				"layer", "application",
				"user_id", userID,
				"error", err.Error(),
			)
			return err
		}
	}

	var deleted bool
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		if err := repo.DeleteResetTokensByUser(ctx, userID); err != nil {
			return err
		}
		var err error
		deleted, err = repo.DeleteUser(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return domainerrors.ErrUserNotFound
	}
	logger.Info("user deleted",
		"event", "auth_user_deleted",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", userID,
		"admin_id", cmd.Actor.UserID,
	)
	return nil
}

// PromoteAdmin grants the admin role to the account registered under email.
// It reports false when no such account exists.
func (uc AdminUserUseCase) PromoteAdmin(ctx context.Context, email string) (bool, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var promoted bool
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		user, found, err := repo.GetUserByEmail(ctx, email)
		if err != nil || !found {
			return err
		}
		if user.IsAdmin() {
			promoted = true
			return nil
		}
		user.Role = entities.RoleAdmin
		user.UpdatedAt = uc.Clock.Now().UTC()
		if err := repo.SaveUser(ctx, user); err != nil {
			return err
		}
		promoted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if promoted {
		application.ResolveLogger(uc.Logger).Info("bootstrap admin ensured",
			"event", "auth_bootstrap_admin_ensured",
			"module", "identity-access/auth-service",
			"layer", "application",
		)
	}
	return promoted, nil
}
