package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/domain/services"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

const (
	minTagName = 2
	maxTagName = 50
)

// FollowCommand identifies the question an actor follows or unfollows.
type FollowCommand struct {
	Actor      entities.Actor
	QuestionID string
}

// CreateTagCommand is the admin input for a new tag.
type CreateTagCommand struct {
	Actor entities.Actor
	Name  string
}

// AttachTagsCommand lists tags the question owner attaches.
type AttachTagsCommand struct {
	Actor      entities.Actor
	QuestionID string
	TagIDs     []string
}

// LinkRelatedCommand lists questions the owner links as related.
type LinkRelatedCommand struct {
	Actor      entities.Actor
	QuestionID string
	RelatedIDs []string
}

// EngagementUseCase covers follows, tags and related-question links.
type EngagementUseCase struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Follow is idempotent and returns the existing row when present.
func (uc EngagementUseCase) Follow(ctx context.Context, cmd FollowCommand) (entities.Follow, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return entities.Follow{}, err
	}
	userID := strings.TrimSpace(cmd.Actor.UserID)
	var follow entities.Follow
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		existing, found, err := repo.GetFollow(ctx, userID, question.QuestionID)
		if err != nil {
			return err
		}
		if found {
			follow = existing
			return nil
		}
		followID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		follow = entities.Follow{
			FollowID:   followID,
			UserID:     userID,
			QuestionID: question.QuestionID,
			CreatedAt:  uc.Clock.Now().UTC(),
		}
		return repo.CreateFollow(ctx, follow)
	})
	if err != nil {
		return entities.Follow{}, err
	}
	application.ResolveLogger(uc.Logger).Info("question followed",
		"event", "forum_question_followed",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", follow.QuestionID,
		"user_id", userID,
	)
	return follow, nil
}

func (uc EngagementUseCase) Unfollow(ctx context.Context, cmd FollowCommand) error {
	if err := requireActor(cmd.Actor); err != nil {
		return err
	}
	return uc.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		return repo.DeleteFollow(ctx, strings.TrimSpace(cmd.Actor.UserID), question.QuestionID)
	})
}

func (uc EngagementUseCase) CreateTag(ctx context.Context, cmd CreateTagCommand) (entities.Tag, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.Tag{}, err
	}
	name, err := requireText(entities.NormalizeTagName(cmd.Name), "name", minTagName, maxTagName)
	if err != nil {
		return entities.Tag{}, err
	}
	var tag entities.Tag
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		if _, found, err := repo.GetTagByName(ctx, name); err != nil {
			return err
		} else if found {
			return domainerrors.ErrTagExists
		}
		tagID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		tag = entities.Tag{TagID: tagID, Name: name, CreatedAt: uc.Clock.Now().UTC()}
		if err := repo.CreateTag(ctx, tag); err != nil {
			if errors.Is(err, domainerrors.ErrConflict) {
				return domainerrors.ErrTagExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.Tag{}, err
	}
	application.ResolveLogger(uc.Logger).Info("tag created",
		"event", "forum_tag_created",
		"module", "community-qa/forum-service",
		"layer", "application",
		"tag_id", tag.TagID,
		"name", tag.Name,
	)
	return tag, nil
}

// AttachTags links tags to a question owned by the actor and returns the
// question's full tag set afterwards.
func (uc EngagementUseCase) AttachTags(ctx context.Context, cmd AttachTagsCommand) ([]entities.Tag, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return nil, err
	}
	var tags []entities.Tag
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		if err := services.EnsureQuestionOwner(question, cmd.Actor.UserID); err != nil {
			return err
		}
		current, err := repo.ListTagsForQuestion(ctx, question.QuestionID)
		if err != nil {
			return err
		}
		attached := make(map[string]struct{}, len(current))
		for _, tag := range current {
			attached[tag.TagID] = struct{}{}
		}
		now := uc.Clock.Now().UTC()
		for _, rawID := range cmd.TagIDs {
			tag, err := repo.GetTag(ctx, strings.TrimSpace(rawID))
			if err != nil {
				return err
			}
			if _, ok := attached[tag.TagID]; ok {
				continue
			}
			if err := repo.AttachTag(ctx, entities.QuestionTag{
				QuestionID: question.QuestionID,
				TagID:      tag.TagID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			attached[tag.TagID] = struct{}{}
		}
		tags, err = repo.ListTagsForQuestion(ctx, question.QuestionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// LinkRelated stores symmetric links between the question and each related
// question. Existing links are kept as they are.
func (uc EngagementUseCase) LinkRelated(ctx context.Context, cmd LinkRelatedCommand) ([]entities.Question, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return nil, err
	}
	var related []entities.Question
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		if err := services.EnsureQuestionOwner(question, cmd.Actor.UserID); err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		for _, rawID := range cmd.RelatedIDs {
			relatedID := strings.TrimSpace(rawID)
			if relatedID == question.QuestionID {
				return domainerrors.ErrSelfLinkNotAllowed
			}
			if _, err := repo.GetQuestion(ctx, relatedID); err != nil {
				if errors.Is(err, domainerrors.ErrQuestionNotFound) {
					return domainerrors.ErrRelatedNotFound
				}
				return err
			}
			if err := repo.LinkRelated(ctx, entities.RelatedQuestion{
				QuestionID:        question.QuestionID,
				RelatedQuestionID: relatedID,
				CreatedAt:         now,
			}); err != nil {
				return err
			}
		}
		related, err = repo.ListRelatedQuestions(ctx, question.QuestionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return related, nil
}
