package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

func requireActor(actor entities.Actor) error {
	if !actor.Authenticated() {
		return domainerrors.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(actor entities.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domainerrors.ErrAdminOnly
	}
	return nil
}

// resolveTarget loads the question or answer a vote or flag points at.
func resolveTarget(
	ctx context.Context,
	repo ports.Repository,
	targetType entities.TargetType,
	targetID string,
) (entities.Target, error) {
	targetID = strings.TrimSpace(targetID)
	switch targetType {
	case entities.TargetQuestion:
		question, err := repo.GetQuestion(ctx, targetID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrQuestionNotFound) {
				return entities.Target{}, domainerrors.ErrTargetNotFound
			}
			return entities.Target{}, err
		}
		return entities.Target{
			Type:       entities.TargetQuestion,
			ID:         question.QuestionID,
			AuthorID:   question.AuthorID,
			QuestionID: question.QuestionID,
		}, nil
	case entities.TargetAnswer:
		answer, err := repo.GetAnswer(ctx, targetID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrAnswerNotFound) {
				return entities.Target{}, domainerrors.ErrTargetNotFound
			}
			return entities.Target{}, err
		}
		return entities.Target{
			Type:       entities.TargetAnswer,
			ID:         answer.AnswerID,
			AuthorID:   answer.AuthorID,
			QuestionID: answer.QuestionID,
		}, nil
	default:
		return entities.Target{}, domainerrors.ErrUnknownTargetType
	}
}

// requireText trims value and checks its length in runes. max <= 0 means
// unbounded.
func requireText(value string, field string, min int, max int) (string, error) {
	value = strings.TrimSpace(value)
	length := utf8.RuneCountInString(value)
	if length < min {
		return "", fmt.Errorf("%w: %s must be at least %d characters", domainerrors.ErrInvalidInput, field, min)
	}
	if max > 0 && length > max {
		return "", fmt.Errorf("%w: %s must be at most %d characters", domainerrors.ErrInvalidInput, field, max)
	}
	return value, nil
}

func isNotFound(err error) bool {
	return domainerrors.KindOf(err) == domainerrors.KindNotFound
}
