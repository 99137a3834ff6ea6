package commands

import (
	"context"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

const (
	minQuestionTitle = 10
	maxQuestionTitle = 200
	minQuestionBody  = 20
)

// CreateQuestionCommand is the write-model input for asking a question.
type CreateQuestionCommand struct {
	Actor    entities.Actor
	Title    string
	Body     string
	Category string
	Stage    string
}

// UpdateQuestionCommand carries a partial moderation edit; nil fields are left
// untouched.
type UpdateQuestionCommand struct {
	Actor      entities.Actor
	QuestionID string
	Title      *string
	Body       *string
	Category   *string
	Stage      *string
}

// QuestionUseCase creates questions and applies admin edits.
type QuestionUseCase struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc QuestionUseCase) CreateQuestion(ctx context.Context, cmd CreateQuestionCommand) (entities.Question, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return entities.Question{}, err
	}
	title, err := requireText(cmd.Title, "title", minQuestionTitle, maxQuestionTitle)
	if err != nil {
		return entities.Question{}, err
	}
	body, err := requireText(cmd.Body, "body", minQuestionBody, 0)
	if err != nil {
		return entities.Question{}, err
	}

	var question entities.Question
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		questionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		question = entities.Question{
			QuestionID: questionID,
			AuthorID:   strings.TrimSpace(cmd.Actor.UserID),
			Title:      title,
			Body:       body,
			Category:   strings.TrimSpace(cmd.Category),
			Stage:      strings.TrimSpace(cmd.Stage),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return repo.CreateQuestion(ctx, question)
	})
	if err != nil {
		return entities.Question{}, err
	}
	application.ResolveLogger(uc.Logger).Info("question created",
		"event", "forum_question_created",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"author_id", question.AuthorID,
	)
	return question, nil
}

func (uc QuestionUseCase) UpdateQuestion(ctx context.Context, cmd UpdateQuestionCommand) (entities.Question, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.Question{}, err
	}
	var (
		title, body string
		err         error
	)
	if cmd.Title != nil {
		if title, err = requireText(*cmd.Title, "title", minQuestionTitle, maxQuestionTitle); err != nil {
			return entities.Question{}, err
		}
	}
	if cmd.Body != nil {
		if body, err = requireText(*cmd.Body, "body", minQuestionBody, 0); err != nil {
			return entities.Question{}, err
		}
	}

	var question entities.Question
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		question, err = repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		if cmd.Title != nil {
			question.Title = title
		}
		if cmd.Body != nil {
			question.Body = body
		}
		if cmd.Category != nil {
			question.Category = strings.TrimSpace(*cmd.Category)
		}
		if cmd.Stage != nil {
			question.Stage = strings.TrimSpace(*cmd.Stage)
		}
		question.UpdatedAt = uc.Clock.Now().UTC()
		return repo.SaveQuestion(ctx, question)
	})
	if err != nil {
		return entities.Question{}, err
	}
	application.ResolveLogger(uc.Logger).Info("question updated by admin",
		"event", "forum_question_admin_updated",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", question.QuestionID,
		"admin_id", cmd.Actor.UserID,
	)
	return question, nil
}
