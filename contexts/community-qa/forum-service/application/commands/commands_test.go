package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"moringadesk/contexts/community-qa/forum-service/adapters/memory"
	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/application/commands"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

var (
	author = entities.Actor{UserID: "author-1", Role: entities.RoleStudent}
	helper = entities.Actor{UserID: "helper-1", Role: entities.RoleStudent}
	reader = entities.Actor{UserID: "reader-1", Role: entities.RoleStudent}
	staff  = entities.Actor{UserID: "staff-1", Role: entities.RoleAdmin}
)

var errStorageDown = errors.New("storage unavailable")

// faultyStore wraps the memory store and hands use cases a repository whose
// selected methods fail.
type faultyStore struct {
	inner              *memory.Store
	failNotifications  bool
	failDeleteQuestion bool
	failSaveQuestion   bool
	staleVoteReads     int
}

func (s *faultyStore) Do(ctx context.Context, fn func(repo ports.Repository) error) error {
	return s.inner.Do(ctx, func(repo ports.Repository) error {
		return fn(&faultyRepo{Repository: repo, store: s})
	})
}

type faultyRepo struct {
	ports.Repository
	store *faultyStore
}

func (r *faultyRepo) CreateNotification(ctx context.Context, notification entities.Notification) error {
	if r.store.failNotifications {
		return errStorageDown
	}
	return r.Repository.CreateNotification(ctx, notification)
}

func (r *faultyRepo) DeleteQuestion(ctx context.Context, questionID string) error {
	if r.store.failDeleteQuestion {
		return errStorageDown
	}
	return r.Repository.DeleteQuestion(ctx, questionID)
}

func (r *faultyRepo) SaveQuestion(ctx context.Context, question entities.Question) error {
	if r.store.failSaveQuestion {
		return errStorageDown
	}
	return r.Repository.SaveQuestion(ctx, question)
}

// GetVoteByIdentity hides existing votes a fixed number of times, which is
// what a reader racing a concurrent insert observes.
func (r *faultyRepo) GetVoteByIdentity(
	ctx context.Context,
	userID string,
	targetType entities.TargetType,
	targetID string,
) (entities.Vote, bool, error) {
	if r.store.staleVoteReads > 0 {
		r.store.staleVoteReads--
		return entities.Vote{}, false, nil
	}
	return r.Repository.GetVoteByIdentity(ctx, userID, targetType, targetID)
}

type fixture struct {
	memory     *memory.Store
	store      *faultyStore
	questions  commands.QuestionUseCase
	answers    commands.AnswerUseCase
	votes      commands.VoteUseCase
	moderation commands.ModerationUseCase
}

func newFixture() fixture {
	mem := memory.NewStore()
	store := &faultyStore{inner: mem}
	notifier := application.Notifier{Store: store, Clock: mem, IDGen: mem}
	return fixture{
		memory:     mem,
		store:      store,
		questions:  commands.QuestionUseCase{Store: store, Clock: mem, IDGen: mem},
		answers:    commands.AnswerUseCase{Store: store, Notifier: notifier, Clock: mem, IDGen: mem},
		votes:      commands.VoteUseCase{Store: store, Notifier: notifier, Clock: mem, IDGen: mem},
		moderation: commands.ModerationUseCase{Store: store},
	}
}

func (f fixture) question(t *testing.T, actor entities.Actor) entities.Question {
	t.Helper()
	question, err := f.questions.CreateQuestion(context.Background(), commands.CreateQuestionCommand{
		Actor: actor,
		Title: "How do deferred calls see named results?",
		Body:  "The returned value changes after the deferred closure runs.",
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	return question
}

func (f fixture) answer(t *testing.T, actor entities.Actor, questionID string) entities.Answer {
	t.Helper()
	answer, err := f.answers.CreateAnswer(context.Background(), commands.CreateAnswerCommand{
		Actor:      actor,
		QuestionID: questionID,
		Body:       "Deferred closures run after the result is assigned.",
	})
	if err != nil {
		t.Fatalf("create answer failed: %v", err)
	}
	return answer
}

func TestCastVoteSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	question := f.question(t, author)
	f.store.failNotifications = true

	result, err := f.votes.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:      reader,
		TargetType: entities.TargetQuestion,
		TargetID:   question.QuestionID,
		Value:      1,
	})
	if err != nil {
		t.Fatalf("expected vote to succeed despite notification failure, got %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("expected score 1, got %d", result.Score)
	}
	counts := f.memory.Counts()
	if counts["votes"] != 1 {
		t.Fatalf("expected vote to be committed, got %d rows", counts["votes"])
	}
	if counts["notifications"] != 0 {
		t.Fatalf("expected no notification rows, got %d", counts["notifications"])
	}
}

func TestCastVoteRetriesConcurrentInsertAsUpdate(t *testing.T) {
	f := newFixture()
	question := f.question(t, author)
	ctx := context.Background()

	first, err := f.votes.CastVote(ctx, commands.CastVoteCommand{
		Actor: reader, TargetType: entities.TargetQuestion, TargetID: question.QuestionID, Value: 1,
	})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	f.store.staleVoteReads = 1
	second, err := f.votes.CastVote(ctx, commands.CastVoteCommand{
		Actor: reader, TargetType: entities.TargetQuestion, TargetID: question.QuestionID, Value: -1,
	})
	if err != nil {
		t.Fatalf("expected conflict to be retried, got %v", err)
	}
	if !second.WasUpdate || second.Vote.VoteID != first.Vote.VoteID {
		t.Fatalf("expected retry to update the existing vote, got %+v", second.Vote)
	}
	if second.Score != -1 {
		t.Fatalf("expected score -1, got %d", second.Score)
	}
	if rows := f.memory.VoteRows(reader.UserID, entities.TargetQuestion, question.QuestionID); rows != 1 {
		t.Fatalf("expected one vote row, got %d", rows)
	}
}

func TestConcurrentVotesKeepOneRow(t *testing.T) {
	f := newFixture()
	question := f.question(t, author)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, _ = f.votes.CastVote(context.Background(), commands.CastVoteCommand{
				Actor: reader, TargetType: entities.TargetQuestion, TargetID: question.QuestionID, Value: value,
			})
		}(1 - 2*(i%2))
	}
	wg.Wait()

	if rows := f.memory.VoteRows(reader.UserID, entities.TargetQuestion, question.QuestionID); rows != 1 {
		t.Fatalf("expected one vote row, got %d", rows)
	}
}

func TestAcceptAnswerRollsBackWhenQuestionSaveFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	question := f.question(t, author)
	answer := f.answer(t, helper, question.QuestionID)
	f.store.failSaveQuestion = true

	_, err := f.answers.AcceptAnswer(ctx, commands.AcceptAnswerCommand{
		Actor: author, QuestionID: question.QuestionID, AnswerID: answer.AnswerID,
	})
	if !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage failure, got %v", err)
	}

	f.store.failSaveQuestion = false
	var stored entities.Answer
	if err := f.store.Do(ctx, func(repo ports.Repository) error {
		var err error
		stored, err = repo.GetAnswer(ctx, answer.AnswerID)
		return err
	}); err != nil {
		t.Fatalf("load answer failed: %v", err)
	}
	if stored.IsAccepted {
		t.Fatalf("expected answer acceptance to be rolled back")
	}
}

func TestAcceptAnswerSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture()
	question := f.question(t, author)
	answer := f.answer(t, helper, question.QuestionID)
	f.store.failNotifications = true

	result, err := f.answers.AcceptAnswer(context.Background(), commands.AcceptAnswerCommand{
		Actor: author, QuestionID: question.QuestionID, AnswerID: answer.AnswerID,
	})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if !result.Changed || result.Question.AcceptedAnswerID != answer.AnswerID {
		t.Fatalf("unexpected accept result: %+v", result)
	}
}

func TestDeleteQuestionRollsBackOnFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	question := f.question(t, author)
	answer := f.answer(t, helper, question.QuestionID)
	if _, err := f.votes.CastVote(ctx, commands.CastVoteCommand{
		Actor: reader, TargetType: entities.TargetAnswer, TargetID: answer.AnswerID, Value: 1,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	before := f.memory.Counts()

	f.store.failDeleteQuestion = true
	err := f.moderation.DeleteQuestion(ctx, commands.DeleteContentCommand{Actor: staff, ID: question.QuestionID})
	if !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	after := f.memory.Counts()
	for table, count := range before {
		if after[table] != count {
			t.Fatalf("expected %s to be untouched after rollback, before=%d after=%d", table, count, after[table])
		}
	}
}

func TestDeleteQuestionRequiresAdmin(t *testing.T) {
	f := newFixture()
	question := f.question(t, author)

	err := f.moderation.DeleteQuestion(context.Background(), commands.DeleteContentCommand{Actor: author, ID: question.QuestionID})
	if !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	if f.memory.Counts()["questions"] != 1 {
		t.Fatalf("expected question to remain")
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []commands.CreateQuestionCommand{
		{Actor: author, Title: "short", Body: "A body that is long enough to pass."},
		{Actor: author, Title: "A title that is long enough", Body: "too short"},
		{Actor: author, Title: "          ", Body: "A body that is long enough to pass."},
	}
	for _, cmd := range cases {
		if _, err := f.questions.CreateQuestion(ctx, cmd); domainerrors.KindOf(err) != domainerrors.KindInvalid {
			t.Fatalf("expected invalid input for %+v, got %v", cmd, err)
		}
	}
	if _, err := f.questions.CreateQuestion(ctx, commands.CreateQuestionCommand{
		Title: "A title that is long enough", Body: "A body that is long enough to pass.",
	}); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestCreateAnswerRequiresExistingQuestion(t *testing.T) {
	f := newFixture()

	_, err := f.answers.CreateAnswer(context.Background(), commands.CreateAnswerCommand{
		Actor: helper, QuestionID: "missing", Body: "A helpful answer that is long enough.",
	})
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestUpdateAnswerIsAdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	question := f.question(t, author)
	answer := f.answer(t, helper, question.QuestionID)

	if _, err := f.answers.UpdateAnswer(ctx, commands.UpdateAnswerCommand{
		Actor: helper, AnswerID: answer.AnswerID, Body: "edited",
	}); !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	updated, err := f.answers.UpdateAnswer(ctx, commands.UpdateAnswerCommand{
		Actor: staff, AnswerID: answer.AnswerID, Body: "edited",
	})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Body != "edited" {
		t.Fatalf("expected body to be updated, got %q", updated.Body)
	}
}
