package queries

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	application "moringadesk/contexts/identity-access/auth-service/application"
	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"
)

// IdentityQueries resolves bearer tokens and the caller's profile.
type IdentityQueries struct {
	Store  ports.UnitOfWork
	Tokens ports.TokenIssuer
	Logger *slog.Logger
}

// ResolveIdentity verifies a bearer token and loads the user it names. The
// role comes from storage, so role changes apply to tokens already issued.
func (q IdentityQueries) ResolveIdentity(ctx context.Context, token string) (entities.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.User{}, domainerrors.ErrUnauthenticated
	}
	userID, err := q.Tokens.Parse(token)
	if err != nil {
		application.ResolveLogger(q.Logger).Debug("bearer token rejected",
			"event", "auth_token_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.User{}, domainerrors.ErrInvalidToken
	}
	var user entities.User
	err = q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		user, err = repo.GetUser(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return entities.User{}, domainerrors.ErrTokenUserMissing
		}
		return entities.User{}, err
	}
	return user, nil
}

func (q IdentityQueries) Me(ctx context.Context, actor entities.Identity) (entities.User, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return entities.User{}, domainerrors.ErrUnauthenticated
	}
	var user entities.User
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		user, err = repo.GetUser(ctx, actor.UserID)
		return err
	})
	return user, err
}

// DisplayNames maps each known user id to its full name. Ids without an
// account are left out.
func (q IdentityQueries) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		for _, userID := range userIDs {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				continue
			}
			if _, seen := names[userID]; seen {
				continue
			}
			user, err := repo.GetUser(ctx, userID)
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			names[userID] = user.FullName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// UserQueries serves the admin user list with forum content counts.
type UserQueries struct {
	Store   ports.UnitOfWork
	Content ports.ForumContent
	Logger  *slog.Logger
}

// ListUsers returns every account newest first with authored content counts.
func (q UserQueries) ListUsers(ctx context.Context, actor entities.Identity) ([]entities.UserSummary, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return nil, domainerrors.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrAdminOnly
	}
	var users []entities.User
	if err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		users, err = repo.ListUsers(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	stats := entities.ContentStats{}
	if q.Content != nil {
		var err error
		stats, err = q.Content.ContentStats(ctx)
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	items := make([]entities.UserSummary, 0, len(users))
	for _, user := range users {
		items = append(items, entities.UserSummary{
			User:           user,
			QuestionsCount: stats.Questions[user.UserID],
			AnswersCount:   stats.Answers[user.UserID],
		})
	}
	return items, nil
}
