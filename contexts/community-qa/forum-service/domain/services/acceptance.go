package services

import (
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
)

// AcceptanceTransition describes the writes that move a question to
// has_accepted_answer(answer). Noop is set when the answer is already accepted.
type AcceptanceTransition struct {
	Noop             bool
	PreviousAnswerID string
	Question         entities.Question
	Answer           entities.Answer
}

// EnsureQuestionOwner rejects callers that did not author the question.
func EnsureQuestionOwner(question entities.Question, userID string) error {
	if strings.TrimSpace(userID) == "" || question.AuthorID != strings.TrimSpace(userID) {
		return domainerrors.ErrNotOwner
	}
	return nil
}

// PlanAcceptance checks membership and returns the transition to apply.
// Ownership and existence are checked by the caller beforehand.
func PlanAcceptance(question entities.Question, answer entities.Answer) (AcceptanceTransition, error) {
	if answer.QuestionID != question.QuestionID {
		return AcceptanceTransition{}, domainerrors.ErrAnswerNotInQuestion
	}
	if question.AcceptedAnswerID == answer.AnswerID && answer.IsAccepted {
		return AcceptanceTransition{Noop: true, Question: question, Answer: answer}, nil
	}

	transition := AcceptanceTransition{Question: question, Answer: answer}
	if question.AcceptedAnswerID != "" && question.AcceptedAnswerID != answer.AnswerID {
		transition.PreviousAnswerID = question.AcceptedAnswerID
	}
	transition.Answer.IsAccepted = true
	transition.Question.AcceptedAnswerID = answer.AnswerID
	return transition, nil
}

// OrderAnswers puts the accepted answer first and keeps the remaining order.
func OrderAnswers(answers []entities.Answer) []entities.Answer {
	ordered := make([]entities.Answer, 0, len(answers))
	for _, answer := range answers {
		if answer.IsAccepted {
			ordered = append(ordered, answer)
		}
	}
	for _, answer := range answers {
		if !answer.IsAccepted {
			ordered = append(ordered, answer)
		}
	}
	return ordered
}
