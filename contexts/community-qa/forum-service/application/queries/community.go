package queries

import (
	"context"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

// CommunityQueries serves scores, tags, flags, notifications and FAQs.
type CommunityQueries struct {
	Store ports.UnitOfWork
}

// Score is the live sum of vote values on the target, 0 when nobody voted.
func (q CommunityQueries) Score(ctx context.Context, targetType entities.TargetType, targetID string) (Score, error) {
	if !targetType.Valid() {
		return Score{}, domainerrors.ErrUnknownTargetType
	}
	result := Score{TargetType: targetType, TargetID: strings.TrimSpace(targetID)}
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		result.Score, err = repo.SumVotes(ctx, targetType, result.TargetID)
		return err
	})
	if err != nil {
		return Score{}, err
	}
	return result, nil
}

func (q CommunityQueries) Tags(ctx context.Context) ([]entities.TagUsage, error) {
	var tags []entities.TagUsage
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		tags, err = repo.ListTagsWithUsage(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (q CommunityQueries) Flags(ctx context.Context, actor entities.Actor, filter entities.FlagFilter) ([]entities.Flag, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, domainerrors.ErrAdminOnly
	}
	if filter.TargetType != "" && !filter.TargetType.Valid() {
		return nil, domainerrors.ErrUnknownTargetType
	}
	filter.TargetID = strings.TrimSpace(filter.TargetID)
	var flags []entities.Flag
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		flags, err = repo.ListFlags(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return flags, nil
}

func (q CommunityQueries) Notifications(ctx context.Context, actor entities.Actor, unreadOnly bool) ([]entities.Notification, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	var notifications []entities.Notification
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		notifications, err = repo.ListNotifications(ctx, strings.TrimSpace(actor.UserID), unreadOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (q CommunityQueries) FAQs(ctx context.Context) ([]entities.FAQ, error) {
	var faqs []entities.FAQ
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		faqs, err = repo.ListFAQs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

// AuthorStats returns question and answer counts keyed by author id.
func (q CommunityQueries) AuthorStats(ctx context.Context) (entities.AuthorStats, error) {
	var stats entities.AuthorStats
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		stats, err = repo.AuthorStats(ctx)
		return err
	})
	return stats, err
}
