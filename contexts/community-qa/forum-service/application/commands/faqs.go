package commands

import (
	"context"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

// CreateFAQCommand is the admin input for a new FAQ entry.
type CreateFAQCommand struct {
	Actor    entities.Actor
	Question string
	Answer   string
	Category string
}

// UpdateFAQCommand carries a partial FAQ edit; nil fields are kept.
type UpdateFAQCommand struct {
	Actor    entities.Actor
	FAQID    string
	Question *string
	Answer   *string
	Category *string
}

// DeleteFAQCommand names the FAQ entry to remove.
type DeleteFAQCommand struct {
	Actor entities.Actor
	FAQID string
}

// FAQUseCase maintains the admin-curated FAQ list.
type FAQUseCase struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc FAQUseCase) CreateFAQ(ctx context.Context, cmd CreateFAQCommand) (entities.FAQ, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.FAQ{}, err
	}
	question, err := requireText(cmd.Question, "question", 5, 0)
	if err != nil {
		return entities.FAQ{}, err
	}
	answer, err := requireText(cmd.Answer, "answer", 5, 0)
	if err != nil {
		return entities.FAQ{}, err
	}
	var faq entities.FAQ
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		faqID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		faq = entities.FAQ{
			FAQID:     faqID,
			Question:  question,
			Answer:    answer,
			Category:  strings.TrimSpace(cmd.Category),
			CreatedBy: strings.TrimSpace(cmd.Actor.UserID),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return repo.CreateFAQ(ctx, faq)
	})
	if err != nil {
		return entities.FAQ{}, err
	}
	application.ResolveLogger(uc.Logger).Info("faq created",
		"event", "forum_faq_created",
		"module", "community-qa/forum-service",
		"layer", "application",
		"faq_id", faq.FAQID,
	)
	return faq, nil
}

func (uc FAQUseCase) UpdateFAQ(ctx context.Context, cmd UpdateFAQCommand) (entities.FAQ, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.FAQ{}, err
	}
	var faq entities.FAQ
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		faq, err = repo.GetFAQ(ctx, strings.TrimSpace(cmd.FAQID))
		if err != nil {
			return err
		}
		if cmd.Question != nil {
			if faq.Question, err = requireText(*cmd.Question, "question", 5, 0); err != nil {
				return err
			}
		}
		if cmd.Answer != nil {
			if faq.Answer, err = requireText(*cmd.Answer, "answer", 5, 0); err != nil {
				return err
			}
		}
		if cmd.Category != nil {
			faq.Category = strings.TrimSpace(*cmd.Category)
		}
		faq.UpdatedAt = uc.Clock.Now().UTC()
		return repo.SaveFAQ(ctx, faq)
	})
	if err != nil {
		return entities.FAQ{}, err
	}
	return faq, nil
}

func (uc FAQUseCase) DeleteFAQ(ctx context.Context, cmd DeleteFAQCommand) error {
	if err := requireAdmin(cmd.Actor); err != nil {
		return err
	}
	return uc.Store.Do(ctx, func(repo ports.Repository) error {
		deleted, err := repo.DeleteFAQ(ctx, strings.TrimSpace(cmd.FAQID))
		if err != nil {
			return err
		}
		if !deleted {
			return domainerrors.ErrFAQNotFound
		}
		return nil
	})
}
