package commands

import (
	"context"
	"log/slog"
	"strings"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	"moringadesk/contexts/community-qa/forum-service/domain/services"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

const (
	minAnswerBody      = 20
	minAdminAnswerBody = 5
)

// CreateAnswerCommand is the write-model input for posting an answer.
type CreateAnswerCommand struct {
	Actor      entities.Actor
	QuestionID string
	Body       string
}

// AcceptAnswerCommand names the question and the answer its owner accepts.
type AcceptAnswerCommand struct {
	Actor      entities.Actor
	QuestionID string
	AnswerID   string
}

// AcceptAnswerResult reports the accepted answer and whether anything changed.
type AcceptAnswerResult struct {
	Question         entities.Question
	Answer           entities.Answer
	PreviousAnswerID string
	Changed          bool
}

// UpdateAnswerCommand carries an admin edit of an answer body.
type UpdateAnswerCommand struct {
	Actor    entities.Actor
	AnswerID string
	Body     string
}

// AnswerUseCase owns the answer lifecycle, including acceptance.
type AnswerUseCase struct {
	Store    ports.UnitOfWork
	Notifier application.Notifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc AnswerUseCase) CreateAnswer(ctx context.Context, cmd CreateAnswerCommand) (entities.Answer, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := requireActor(cmd.Actor); err != nil {
		return entities.Answer{}, err
	}
	body, err := requireText(cmd.Body, "body", minAnswerBody, 0)
	if err != nil {
		return entities.Answer{}, err
	}

	var (
		answer   entities.Answer
		question entities.Question
	)
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		question, err = repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		answerID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		now := uc.Clock.Now().UTC()
		answer = entities.Answer{
			AnswerID:   answerID,
			QuestionID: question.QuestionID,
			AuthorID:   strings.TrimSpace(cmd.Actor.UserID),
			Body:       body,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return repo.CreateAnswer(ctx, answer)
	})
	if err != nil {
		return entities.Answer{}, err
	}

	uc.Notifier.Emit(ctx, answer.AuthorID, question.AuthorID, entities.NotificationAnswerPosted, map[string]any{
		"question_id": question.QuestionID,
		"answer_id":   answer.AnswerID,
		"actor_id":    answer.AuthorID,
	})
	logger.Info("answer created",
		"event", "forum_answer_created",
		"module", "community-qa/forum-service",
		"layer", "application",
		"answer_id", answer.AnswerID,
		"question_id", answer.QuestionID,
		"author_id", answer.AuthorID,
	)
	return answer, nil
}

// AcceptAnswer marks the answer as the question's accepted answer. Clearing
// the previous answer and setting the new one commit together.
func (uc AnswerUseCase) AcceptAnswer(ctx context.Context, cmd AcceptAnswerCommand) (AcceptAnswerResult, error) {
	cmd.Actor = cmd.Actor.Normalized()
	logger := application.ResolveLogger(uc.Logger)
	if err := requireActor(cmd.Actor); err != nil {
		return AcceptAnswerResult{}, err
	}

	var result AcceptAnswerResult
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(cmd.QuestionID))
		if err != nil {
			return err
		}
		if err := services.EnsureQuestionOwner(question, cmd.Actor.UserID); err != nil {
			return err
		}
		answer, err := repo.GetAnswer(ctx, strings.TrimSpace(cmd.AnswerID))
		if err != nil {
			return err
		}
		transition, err := services.PlanAcceptance(question, answer)
		if err != nil {
			return err
		}
		result = AcceptAnswerResult{
			Question:         transition.Question,
			Answer:           transition.Answer,
			PreviousAnswerID: transition.PreviousAnswerID,
			Changed:          !transition.Noop,
		}
		if transition.Noop {
			return nil
		}

		now := uc.Clock.Now().UTC()
		if transition.PreviousAnswerID != "" {
			previous, err := repo.GetAnswer(ctx, transition.PreviousAnswerID)
			if err == nil {
				previous.IsAccepted = false
				previous.UpdatedAt = now
				if err := repo.SaveAnswer(ctx, previous); err != nil {
					return err
				}
			} else if !isNotFound(err) {
				return err
			}
		}
		result.Answer.UpdatedAt = now
		result.Question.UpdatedAt = now
		if err := repo.SaveAnswer(ctx, result.Answer); err != nil {
			return err
		}
		return repo.SaveQuestion(ctx, result.Question)
	})
	if err != nil {
		logger.Warn("answer acceptance rejected",
			"event", "forum_answer_accept_rejected",
			"module", "community-qa/forum-service",
			"layer", "application",
			"question_id", cmd.QuestionID,
			"answer_id", cmd.AnswerID,
			"user_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return AcceptAnswerResult{}, err
	}

	if result.Changed {
		uc.Notifier.Emit(ctx, cmd.Actor.UserID, result.Answer.AuthorID, entities.NotificationAcceptedAnswer, map[string]any{
			"question_id": result.Question.QuestionID,
			"answer_id":   result.Answer.AnswerID,
			"actor_id":    strings.TrimSpace(cmd.Actor.UserID),
		})
	}
	logger.Info("answer accepted",
		"event", "forum_answer_accepted",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", result.Question.QuestionID,
		"answer_id", result.Answer.AnswerID,
		"previous_answer_id", result.PreviousAnswerID,
		"changed", result.Changed,
	)
	return result, nil
}

// UpdateAnswer is the moderation edit path.
func (uc AnswerUseCase) UpdateAnswer(ctx context.Context, cmd UpdateAnswerCommand) (entities.Answer, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return entities.Answer{}, err
	}
	body, err := requireText(cmd.Body, "body", minAdminAnswerBody, 0)
	if err != nil {
		return entities.Answer{}, err
	}
	var answer entities.Answer
	err = uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		answer, err = repo.GetAnswer(ctx, strings.TrimSpace(cmd.AnswerID))
		if err != nil {
			return err
		}
		answer.Body = body
		answer.UpdatedAt = uc.Clock.Now().UTC()
		return repo.SaveAnswer(ctx, answer)
	})
	if err != nil {
		return entities.Answer{}, err
	}
	application.ResolveLogger(uc.Logger).Info("answer updated by admin",
		"event", "forum_answer_admin_updated",
		"module", "community-qa/forum-service",
		"layer", "application",
		"answer_id", answer.AnswerID,
		"admin_id", cmd.Actor.UserID,
	)
	return answer, nil
}
