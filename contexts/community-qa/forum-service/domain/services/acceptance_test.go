package services

import (
	"errors"
	"testing"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
)

func TestPlanAcceptanceTransfersFromPreviousAnswer(t *testing.T) {
	question := entities.Question{QuestionID: "q-1", AuthorID: "owner", AcceptedAnswerID: "a-1"}
	answer := entities.Answer{AnswerID: "a-2", QuestionID: "q-1"}

	transition, err := PlanAcceptance(question, answer)
	if err != nil {
		t.Fatalf("plan acceptance failed: %v", err)
	}
	if transition.Noop {
		t.Fatalf("expected a state change")
	}
	if transition.PreviousAnswerID != "a-1" {
		t.Fatalf("expected previous answer a-1, got %q", transition.PreviousAnswerID)
	}
	if !transition.Answer.IsAccepted || transition.Question.AcceptedAnswerID != "a-2" {
		t.Fatalf("unexpected transition %+v", transition)
	}
}

func TestPlanAcceptanceIsNoopForAcceptedAnswer(t *testing.T) {
	question := entities.Question{QuestionID: "q-1", AcceptedAnswerID: "a-1"}
	answer := entities.Answer{AnswerID: "a-1", QuestionID: "q-1", IsAccepted: true}

	transition, err := PlanAcceptance(question, answer)
	if err != nil {
		t.Fatalf("plan acceptance failed: %v", err)
	}
	if !transition.Noop {
		t.Fatalf("expected noop transition")
	}
}

func TestPlanAcceptanceRejectsForeignAnswer(t *testing.T) {
	_, err := PlanAcceptance(
		entities.Question{QuestionID: "q-1"},
		entities.Answer{AnswerID: "a-9", QuestionID: "q-2"},
	)
	if !errors.Is(err, domainerrors.ErrAnswerNotInQuestion) {
		t.Fatalf("expected ErrAnswerNotInQuestion, got %v", err)
	}
	if domainerrors.KindOf(err) != domainerrors.KindInvalidState {
		t.Fatalf("expected invalid_state kind, got %s", domainerrors.KindOf(err))
	}
}

func TestEnsureQuestionOwner(t *testing.T) {
	question := entities.Question{QuestionID: "q-1", AuthorID: "owner"}
	if err := EnsureQuestionOwner(question, "owner"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := EnsureQuestionOwner(question, "someone"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := EnsureQuestionOwner(question, " "); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for blank actor, got %v", err)
	}
}

func TestOrderAnswersPutsAcceptedFirst(t *testing.T) {
	ordered := OrderAnswers([]entities.Answer{
		{AnswerID: "a-1"},
		{AnswerID: "a-2", IsAccepted: true},
		{AnswerID: "a-3"},
	})
	got := []string{ordered[0].AnswerID, ordered[1].AnswerID, ordered[2].AnswerID}
	want := []string{"a-2", "a-1", "a-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestUnknownTargetTypeIsTargetNotFoundVariant(t *testing.T) {
	if !errors.Is(domainerrors.ErrUnknownTargetType, domainerrors.ErrTargetNotFound) {
		t.Fatalf("expected unknown target type to match ErrTargetNotFound")
	}
	if domainerrors.KindOf(domainerrors.ErrUnknownTargetType) != domainerrors.KindInvalid {
		t.Fatalf("expected invalid kind for unknown target type")
	}
	if domainerrors.KindOf(domainerrors.ErrTargetNotFound) != domainerrors.KindNotFound {
		t.Fatalf("expected not_found kind for missing target")
	}
}
