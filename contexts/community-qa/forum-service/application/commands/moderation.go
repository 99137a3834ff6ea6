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

// DeleteContentCommand names the question or answer an admin removes.
type DeleteContentCommand struct {
	Actor entities.Actor
	ID    string
}

// ModerationUseCase removes content together with every row that references
// it. Each public method runs in a single unit of work so a storage failure
// leaves nothing half deleted.
type ModerationUseCase struct {
	Store  ports.UnitOfWork
	Logger *slog.Logger
}

func (uc ModerationUseCase) DeleteQuestion(ctx context.Context, cmd DeleteContentCommand) error {
	if err := requireAdmin(cmd.Actor); err != nil {
		return err
	}
	var deleted bool
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		deleted, err = deleteQuestion(ctx, repo, strings.TrimSpace(cmd.ID))
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return domainerrors.ErrQuestionNotFound
	}
	application.ResolveLogger(uc.Logger).Info("question deleted",
		"event", "forum_question_deleted",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", cmd.ID,
		"admin_id", cmd.Actor.UserID,
	)
	return nil
}

func (uc ModerationUseCase) DeleteAnswer(ctx context.Context, cmd DeleteContentCommand) error {
	if err := requireAdmin(cmd.Actor); err != nil {
		return err
	}
	var deleted bool
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		deleted, err = deleteAnswer(ctx, repo, strings.TrimSpace(cmd.ID))
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return domainerrors.ErrAnswerNotFound
	}
	application.ResolveLogger(uc.Logger).Info("answer deleted",
		"event", "forum_answer_deleted",
		"module", "community-qa/forum-service",
		"layer", "application",
		"answer_id", cmd.ID,
		"admin_id", cmd.Actor.UserID,
	)
	return nil
}

// DeleteUserContent decomposes everything a user authored or references. It
// must run before the user record itself is removed. It is idempotent.
func (uc ModerationUseCase) DeleteUserContent(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domainerrors.ErrInvalidInput
	}
	err := uc.Store.Do(ctx, func(repo ports.Repository) error {
		answerIDs, err := repo.ListAnswerIDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		for _, answerID := range answerIDs {
			if _, err := deleteAnswer(ctx, repo, answerID); err != nil {
				return err
			}
		}
		questionIDs, err := repo.ListQuestionIDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		for _, questionID := range questionIDs {
			if _, err := deleteQuestion(ctx, repo, questionID); err != nil {
				return err
			}
		}
		if err := repo.DeleteFlagsByUser(ctx, userID); err != nil {
			return err
		}
		if err := repo.DeleteVotesByUser(ctx, userID); err != nil {
			return err
		}
		if err := repo.DeleteFollowsByUser(ctx, userID); err != nil {
			return err
		}
		if err := repo.DeleteViewsByViewer(ctx, userID); err != nil {
			return err
		}
		return repo.DeleteNotificationsByUser(ctx, userID)
	})
	if err != nil {
		application.ResolveLogger(uc.Logger).Error("user content deletion failed",
			"event", "forum_user_content_delete_failed",
			"module", "community-qa/forum-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return err
	}
	application.ResolveLogger(uc.Logger).Info("user content deleted",
		"event", "forum_user_content_deleted",
		"module", "community-qa/forum-service",
		"layer", "application",
		"user_id", userID,
	)
	return nil
}

func deleteQuestion(ctx context.Context, repo ports.Repository, questionID string) (bool, error) {
	if _, err := repo.GetQuestion(ctx, questionID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	answerIDs, err := repo.ListAnswerIDsByQuestion(ctx, questionID)
	if err != nil {
		return false, err
	}
	if len(answerIDs) > 0 {
		if err := repo.DeleteFlagsByTargets(ctx, entities.TargetAnswer, answerIDs); err != nil {
			return false, err
		}
		if err := repo.DeleteVotesByTargets(ctx, entities.TargetAnswer, answerIDs); err != nil {
			return false, err
		}
		if err := repo.DeleteAnswers(ctx, answerIDs); err != nil {
			return false, err
		}
	}
	questionIDs := []string{questionID}
	if err := repo.DeleteFlagsByTargets(ctx, entities.TargetQuestion, questionIDs); err != nil {
		return false, err
	}
	if err := repo.DeleteVotesByTargets(ctx, entities.TargetQuestion, questionIDs); err != nil {
		return false, err
	}
	if err := repo.DeleteFollowsByQuestion(ctx, questionID); err != nil {
		return false, err
	}
	if err := repo.DeleteQuestionTags(ctx, questionID); err != nil {
		return false, err
	}
	if err := repo.DeleteRelatedLinks(ctx, questionID); err != nil {
		return false, err
	}
	if err := repo.DeleteViewsByQuestion(ctx, questionID); err != nil {
		return false, err
	}
	if err := repo.DeleteQuestion(ctx, questionID); err != nil {
		return false, err
	}
	return true, nil
}

func deleteAnswer(ctx context.Context, repo ports.Repository, answerID string) (bool, error) {
	answer, err := repo.GetAnswer(ctx, answerID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	question, err := repo.GetQuestion(ctx, answer.QuestionID)
	if err != nil && !isNotFound(err) {
		return false, err
	}
	if err == nil && question.AcceptedAnswerID == answer.AnswerID {
		question.AcceptedAnswerID = ""
		if err := repo.SaveQuestion(ctx, question); err != nil {
			return false, err
		}
	}
	answerIDs := []string{answer.AnswerID}
	if err := repo.DeleteFlagsByTargets(ctx, entities.TargetAnswer, answerIDs); err != nil {
		return false, err
	}
	if err := repo.DeleteVotesByTargets(ctx, entities.TargetAnswer, answerIDs); err != nil {
		return false, err
	}
	if err := repo.DeleteAnswers(ctx, answerIDs); err != nil {
		return false, err
	}
	return true, nil
}
