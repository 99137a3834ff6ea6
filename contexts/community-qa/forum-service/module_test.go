package forumservice_test

import (
	"context"
	"errors"
	"testing"

	forumservice "moringadesk/contexts/community-qa/forum-service"
	"moringadesk/contexts/community-qa/forum-service/application/queries"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	httptransport "moringadesk/contexts/community-qa/forum-service/transport/http"
)

var (
	owner   = entities.Actor{UserID: "user-owner", Role: entities.RoleStudent}
	voter   = entities.Actor{UserID: "user-voter", Role: entities.RoleStudent}
	helperX = entities.Actor{UserID: "user-x", Role: entities.RoleStudent}
	helperY = entities.Actor{UserID: "user-y", Role: entities.RoleStudent}
	admin   = entities.Actor{UserID: "user-admin", Role: entities.RoleAdmin}
)

func createQuestion(t *testing.T, module forumservice.Module, actor entities.Actor, title string) httptransport.QuestionResponse {
	t.Helper()
	question, err := module.Handler.CreateQuestionHandler(context.Background(), actor, httptransport.CreateQuestionRequest{
		Title:    title,
		Body:     "I keep getting a nil pointer panic when the handler runs.",
		Category: "golang",
		Stage:    "week-2",
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	return question
}

func createAnswer(t *testing.T, module forumservice.Module, actor entities.Actor, questionID string) httptransport.AnswerResponse {
	t.Helper()
	answer, err := module.Handler.CreateAnswerHandler(context.Background(), actor, questionID, httptransport.CreateAnswerRequest{
		Body: "Initialise the map before writing to it in the constructor.",
	})
	if err != nil {
		t.Fatalf("create answer failed: %v", err)
	}
	return answer
}

func notificationsOf(t *testing.T, module forumservice.Module, actor entities.Actor, kind string) int {
	t.Helper()
	items, err := module.Handler.NotificationsHandler(context.Background(), actor, false)
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	count := 0
	for _, item := range items {
		if item.Type == kind {
			count++
		}
	}
	return count
}

func TestVoteOverwriteKeepsSingleRowAndNotifiesAuthor(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Why does my handler panic?")

	first, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{
		TargetType: "question",
		TargetID:   question.ID,
		Value:      1,
	})
	if err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if first.Score != 1 {
		t.Fatalf("expected score 1, got %d", first.Score)
	}
	if got := notificationsOf(t, module, owner, "vote_received"); got != 1 {
		t.Fatalf("expected 1 vote notification, got %d", got)
	}

	second, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{
		TargetType: "question",
		TargetID:   question.ID,
		Value:      -1,
	})
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if second.Score != -1 {
		t.Fatalf("expected score -1, got %d", second.Score)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stable vote id, got %s and %s", first.ID, second.ID)
	}
	if rows := module.Store.VoteRows(voter.UserID, entities.TargetQuestion, question.ID); rows != 1 {
		t.Fatalf("expected exactly one vote row, got %d", rows)
	}

	score, err := module.Handler.ScoreHandler(ctx, "question", question.ID)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score.Score != -1 {
		t.Fatalf("expected read score -1, got %d", score.Score)
	}
}

func TestVoteWithPaddedActorIDOverwritesSameRow(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Why does my handler panic?")
	padded := entities.Actor{UserID: "  " + voter.UserID + " ", Role: entities.RoleStudent}

	if _, err := module.Handler.CastVoteHandler(ctx, padded, httptransport.CastVoteRequest{
		TargetType: "question", TargetID: question.ID, Value: 1,
	}); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	second, err := module.Handler.CastVoteHandler(ctx, padded, httptransport.CastVoteRequest{
		TargetType: "question", TargetID: question.ID, Value: -1,
	})
	if err != nil {
		t.Fatalf("second vote failed: %v", err)
	}
	if second.Value != -1 || second.Score != -1 {
		t.Fatalf("expected value -1 and score -1, got value=%d score=%d", second.Value, second.Score)
	}
	if second.UserID != voter.UserID {
		t.Fatalf("expected stored voter %q, got %q", voter.UserID, second.UserID)
	}
	if rows := module.Store.VoteRows(voter.UserID, entities.TargetQuestion, question.ID); rows != 1 {
		t.Fatalf("expected exactly one vote row, got %d", rows)
	}
}

func TestAcceptAnswerWithPaddedOwnerID(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Answering my own question")
	answer := createAnswer(t, module, owner, question.ID)
	padded := entities.Actor{UserID: " " + owner.UserID + " ", Role: entities.RoleStudent}

	if _, err := module.Handler.AcceptAnswerHandler(ctx, padded, question.ID, answer.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := notificationsOf(t, module, owner, "accepted_answer"); got != 0 {
		t.Fatalf("expected no self notification, got %d", got)
	}
}

func TestVoteReversalRestoresPriorScore(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Slice append inside a loop")
	answer := createAnswer(t, module, helperX, question.ID)

	if _, err := module.Handler.CastVoteHandler(ctx, helperY, httptransport.CastVoteRequest{
		TargetType: "answer", TargetID: answer.ID, Value: 1,
	}); err != nil {
		t.Fatalf("baseline vote failed: %v", err)
	}
	before, _ := module.Handler.ScoreHandler(ctx, "answer", answer.ID)

	if _, err := module.Handler.CastVoteHandler(ctx, owner, httptransport.CastVoteRequest{
		TargetType: "answer", TargetID: answer.ID, Value: 1,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, owner, httptransport.CastVoteRequest{
		TargetType: "answer", TargetID: answer.ID, Value: -1,
	}); err != nil {
		t.Fatalf("reverse vote failed: %v", err)
	}
	after, _ := module.Handler.ScoreHandler(ctx, "answer", answer.ID)
	if after.Score != before.Score-1 {
		t.Fatalf("expected score %d after +1/-1 from new voter, got %d", before.Score-1, after.Score)
	}

	payloadHasQuestion := false
	items, _ := module.Handler.NotificationsHandler(ctx, helperX, false)
	for _, item := range items {
		if item.Type == "vote_received" && item.Payload["question_id"] == question.ID {
			payloadHasQuestion = true
		}
	}
	if !payloadHasQuestion {
		t.Fatalf("expected answer vote notification to carry question_id")
	}
}

func TestSelfVoteIsForbiddenAndWritesNothing(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Goroutine leak in worker pool")

	_, err := module.Handler.CastVoteHandler(ctx, owner, httptransport.CastVoteRequest{
		TargetType: "question", TargetID: question.ID, Value: 1,
	})
	if !errors.Is(err, domainerrors.ErrSelfVoteNotAllowed) {
		t.Fatalf("expected self vote error, got %v", err)
	}
	if domainerrors.KindOf(err) != domainerrors.KindForbidden {
		t.Fatalf("expected forbidden kind, got %s", domainerrors.KindOf(err))
	}
	if rows := module.Store.VoteRows(owner.UserID, entities.TargetQuestion, question.ID); rows != 0 {
		t.Fatalf("expected no vote rows, got %d", rows)
	}
	if got := notificationsOf(t, module, owner, "vote_received"); got != 0 {
		t.Fatalf("expected no notifications, got %d", got)
	}
}

func TestVoteTargetResolution(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)

	_, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{
		TargetType: "comment", TargetID: "x", Value: 1,
	})
	if !errors.Is(err, domainerrors.ErrTargetNotFound) || domainerrors.KindOf(err) != domainerrors.KindInvalid {
		t.Fatalf("expected invalid target type, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{
		TargetType: "answer", TargetID: "missing", Value: 1,
	})
	if !errors.Is(err, domainerrors.ErrTargetNotFound) || domainerrors.KindOf(err) != domainerrors.KindNotFound {
		t.Fatalf("expected target not found, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{
		TargetType: "question", TargetID: "missing", Value: 3,
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoteValue) {
		t.Fatalf("expected invalid vote value, got %v", err)
	}
}

func TestAcceptAnswerTransfersAcceptance(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "How do I close a channel safely?")
	a1 := createAnswer(t, module, helperX, question.ID)
	a2 := createAnswer(t, module, helperY, question.ID)

	first, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, a1.ID)
	if err != nil {
		t.Fatalf("accept a1 failed: %v", err)
	}
	if !first.Changed || first.AcceptedAnswerID != a1.ID {
		t.Fatalf("unexpected first accept result: %+v", first)
	}
	if got := notificationsOf(t, module, helperX, "accepted_answer"); got != 1 {
		t.Fatalf("expected one accepted notification for X, got %d", got)
	}

	second, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, a2.ID)
	if err != nil {
		t.Fatalf("accept a2 failed: %v", err)
	}
	if second.PreviousAnswerID != a1.ID {
		t.Fatalf("expected previous answer %s, got %s", a1.ID, second.PreviousAnswerID)
	}

	detail, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{})
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.AcceptedAnswerID == nil || *detail.AcceptedAnswerID != a2.ID {
		t.Fatalf("expected accepted answer %s, got %v", a2.ID, detail.AcceptedAnswerID)
	}
	accepted := 0
	for _, answer := range detail.Answers {
		if answer.IsAccepted {
			accepted++
			if answer.ID != a2.ID {
				t.Fatalf("expected only a2 accepted, found %s", answer.ID)
			}
		}
	}
	if accepted != 1 {
		t.Fatalf("expected exactly one accepted answer, got %d", accepted)
	}
	if detail.Answers[0].ID != a2.ID {
		t.Fatalf("expected accepted answer listed first")
	}
	if got := notificationsOf(t, module, helperY, "accepted_answer"); got != 1 {
		t.Fatalf("expected one accepted notification for Y, got %d", got)
	}
	if got := notificationsOf(t, module, helperX, "accepted_answer"); got != 1 {
		t.Fatalf("expected no new notification for X, got %d", got)
	}
}

func TestAcceptAnswerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Why is my test flaky on CI?")
	answer := createAnswer(t, module, helperX, question.ID)

	if _, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, answer.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	again, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, answer.ID)
	if err != nil {
		t.Fatalf("repeat accept failed: %v", err)
	}
	if again.Changed {
		t.Fatalf("expected repeat accept to be a no-op")
	}
	if got := notificationsOf(t, module, helperX, "accepted_answer"); got != 1 {
		t.Fatalf("expected a single accepted notification, got %d", got)
	}
}

func TestAcceptAnswerFailureOrder(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Struct embedding vs composition")
	other := createQuestion(t, module, helperY, "Interfaces with pointer receivers")
	foreign := createAnswer(t, module, helperX, other.ID)

	cases := []struct {
		name       string
		actor      entities.Actor
		questionID string
		answerID   string
		want       error
	}{
		{name: "missing question", actor: owner, questionID: "missing", answerID: foreign.ID, want: domainerrors.ErrQuestionNotFound},
		{name: "not owner before answer lookup", actor: helperX, questionID: question.ID, answerID: "missing", want: domainerrors.ErrNotOwner},
		{name: "missing answer", actor: owner, questionID: question.ID, answerID: "missing", want: domainerrors.ErrAnswerNotFound},
		{name: "answer of another question", actor: owner, questionID: question.ID, answerID: foreign.ID, want: domainerrors.ErrAnswerNotInQuestion},
	}
	for _, tc := range cases {
		_, err := module.Handler.AcceptAnswerHandler(ctx, tc.actor, tc.questionID, tc.answerID)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSelfAcceptDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Answering my own question")
	answer := createAnswer(t, module, owner, question.ID)

	if _, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, answer.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	items, err := module.Handler.NotificationsHandler(ctx, owner, false)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no notifications for self actions, got %d", len(items))
	}
}

func TestAnswerPostedNotification(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Context cancellation in HTTP client")
	createAnswer(t, module, helperX, question.ID)

	items, err := module.Handler.NotificationsHandler(ctx, owner, true)
	if err != nil {
		t.Fatalf("notifications failed: %v", err)
	}
	if len(items) != 1 || items[0].Type != "answer_posted" {
		t.Fatalf("expected one unread answer_posted notification, got %+v", items)
	}

	marked, err := module.Handler.MarkAllReadHandler(ctx, owner)
	if err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	if marked.Updated != 1 {
		t.Fatalf("expected 1 updated, got %d", marked.Updated)
	}
	unread, _ := module.Handler.NotificationsHandler(ctx, owner, true)
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Deleting rows inside a transaction")
	other := createQuestion(t, module, helperY, "Unrelated question about modules")
	answer := createAnswer(t, module, helperX, question.ID)

	tag, err := module.Handler.CreateTagHandler(ctx, admin, httptransport.CreateTagRequest{Name: "  Databases "})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	if _, err := module.Handler.AttachTagsHandler(ctx, owner, question.ID, httptransport.AttachTagsRequest{TagIDs: []string{tag.ID}}); err != nil {
		t.Fatalf("attach tag failed: %v", err)
	}
	if _, err := module.Handler.LinkRelatedHandler(ctx, owner, question.ID, httptransport.LinkRelatedRequest{
		RelatedQuestionIDs: []string{other.ID},
	}); err != nil {
		t.Fatalf("link related failed: %v", err)
	}
	if _, err := module.Handler.FollowHandler(ctx, voter, question.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{TargetType: "question", TargetID: question.ID, Value: 1}); err != nil {
		t.Fatalf("question vote failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, voter, httptransport.CastVoteRequest{TargetType: "answer", TargetID: answer.ID, Value: 1}); err != nil {
		t.Fatalf("answer vote failed: %v", err)
	}
	if _, err := module.Handler.CreateFlagHandler(ctx, voter, httptransport.CreateFlagRequest{TargetType: "question", TargetID: question.ID, Reason: "off topic"}); err != nil {
		t.Fatalf("question flag failed: %v", err)
	}
	if _, err := module.Handler.CreateFlagHandler(ctx, voter, httptransport.CreateFlagRequest{TargetType: "answer", TargetID: answer.ID, Reason: "copied text"}); err != nil {
		t.Fatalf("answer flag failed: %v", err)
	}
	if _, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{UserID: voter.UserID}); err != nil {
		t.Fatalf("detail failed: %v", err)
	}

	if err := module.Handler.DeleteQuestionHandler(ctx, admin, question.ID); err != nil {
		t.Fatalf("delete question failed: %v", err)
	}
	counts := module.Store.Counts()
	for _, table := range []string{"answers", "votes", "flags", "follows", "question_tags", "related_questions", "question_views"} {
		if counts[table] != 0 {
			t.Fatalf("expected %s to be empty after cascade, got %d", table, counts[table])
		}
	}
	if counts["questions"] != 1 || counts["tags"] != 1 {
		t.Fatalf("expected unrelated question and tag to survive, got %+v", counts)
	}
	if _, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{}); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
	if err := module.Handler.DeleteQuestionHandler(ctx, admin, question.ID); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected repeat delete to report not found, got %v", err)
	}
}

func TestDeleteAcceptedAnswerClearsQuestion(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Buffered versus unbuffered channels")
	answer := createAnswer(t, module, helperX, question.ID)
	if _, err := module.Handler.AcceptAnswerHandler(ctx, owner, question.ID, answer.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if err := module.Handler.DeleteAnswerHandler(ctx, helperX, answer.ID); !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	if err := module.Handler.DeleteAnswerHandler(ctx, admin, answer.ID); err != nil {
		t.Fatalf("delete answer failed: %v", err)
	}
	detail, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{})
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.AcceptedAnswerID != nil {
		t.Fatalf("expected accepted answer to be cleared, got %s", *detail.AcceptedAnswerID)
	}
	if len(detail.Answers) != 0 {
		t.Fatalf("expected no answers, got %d", len(detail.Answers))
	}
}

func TestDeleteUserContentStripsReferences(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	mine := createQuestion(t, module, helperX, "Questions authored by the departing user")
	theirs := createQuestion(t, module, owner, "Question that stays after the purge")
	createAnswer(t, module, helperX, theirs.ID)
	kept := createAnswer(t, module, helperY, theirs.ID)
	createAnswer(t, module, helperY, mine.ID)

	if _, err := module.Handler.CastVoteHandler(ctx, helperX, httptransport.CastVoteRequest{TargetType: "answer", TargetID: kept.ID, Value: 1}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := module.Handler.FollowHandler(ctx, helperX, theirs.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if _, err := module.Handler.CreateFlagHandler(ctx, helperX, httptransport.CreateFlagRequest{TargetType: "question", TargetID: theirs.ID, Reason: "duplicate question"}); err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if _, err := module.Handler.QuestionDetailHandler(ctx, theirs.ID, queries.Viewer{UserID: helperX.UserID}); err != nil {
		t.Fatalf("detail failed: %v", err)
	}

	if err := module.Handler.Moderation.DeleteUserContent(ctx, helperX.UserID); err != nil {
		t.Fatalf("delete user content failed: %v", err)
	}
	counts := module.Store.Counts()
	if counts["questions"] != 1 {
		t.Fatalf("expected one question left, got %d", counts["questions"])
	}
	if counts["answers"] != 1 {
		t.Fatalf("expected only the other user's answer left, got %d", counts["answers"])
	}
	for _, table := range []string{"votes", "follows", "flags", "question_views"} {
		if counts[table] != 0 {
			t.Fatalf("expected %s to be empty, got %d", table, counts[table])
		}
	}
	items, _ := module.Handler.NotificationsHandler(ctx, helperX, false)
	if len(items) != 0 {
		t.Fatalf("expected departing user's notifications removed, got %d", len(items))
	}

	if err := module.Handler.Moderation.DeleteUserContent(ctx, helperX.UserID); err != nil {
		t.Fatalf("expected repeat purge to succeed, got %v", err)
	}
}

func TestListQuestionsFiltersAndCounts(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	first := createQuestion(t, module, owner, "Reading files line by line")
	second := createQuestion(t, module, helperX, "Parsing JSON into structs")
	createAnswer(t, module, helperY, second.ID)
	tag, err := module.Handler.CreateTagHandler(ctx, admin, httptransport.CreateTagRequest{Name: "json"})
	if err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	if _, err := module.Handler.AttachTagsHandler(ctx, helperX, second.ID, httptransport.AttachTagsRequest{TagIDs: []string{tag.ID, tag.ID}}); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	all, err := module.Handler.ListQuestionsHandler(ctx, httptransport.ListQuestionsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected newest question first, got %+v", all)
	}
	if all[0].AnswersCount != 1 {
		t.Fatalf("expected answers_count 1, got %d", all[0].AnswersCount)
	}

	tagged, _ := module.Handler.ListQuestionsHandler(ctx, httptransport.ListQuestionsRequest{Tag: " JSON "})
	if len(tagged) != 1 || tagged[0].ID != second.ID {
		t.Fatalf("expected tag filter to match second question, got %+v", tagged)
	}
	searched, _ := module.Handler.ListQuestionsHandler(ctx, httptransport.ListQuestionsRequest{Search: "LINE BY"})
	if len(searched) != 1 || searched[0].ID != first.ID {
		t.Fatalf("expected search to match first question, got %+v", searched)
	}

	tags, _ := module.Handler.ListTagsHandler(ctx)
	if len(tags) != 1 || tags[0].UsageCount != 1 {
		t.Fatalf("expected one tag used once, got %+v", tags)
	}
	if _, err := module.Handler.CreateTagHandler(ctx, admin, httptransport.CreateTagRequest{Name: "JSON"}); !errors.Is(err, domainerrors.ErrTagExists) {
		t.Fatalf("expected duplicate tag conflict, got %v", err)
	}
}

func TestQuestionViewsRecordedOncePerViewer(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Counting question views properly")

	for i := 0; i < 3; i++ {
		if _, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{UserID: voter.UserID}); err != nil {
			t.Fatalf("detail failed: %v", err)
		}
	}
	if _, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{SessionID: "anon-1"}); err != nil {
		t.Fatalf("anonymous detail failed: %v", err)
	}
	detail, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{SessionID: "anon-1"})
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.ViewsCount != 2 {
		t.Fatalf("expected 2 distinct views, got %d", detail.ViewsCount)
	}
}

func TestDuplicatesRequireMeaningfulTitle(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	createQuestion(t, module, owner, "Handling errors from deferred Close")

	short, err := module.Handler.DuplicatesHandler(ctx, "errors")
	if err != nil {
		t.Fatalf("duplicates failed: %v", err)
	}
	if len(short) != 0 {
		t.Fatalf("expected no suggestions for short title, got %d", len(short))
	}
	matches, err := module.Handler.DuplicatesHandler(ctx, "errors from deferred")
	if err != nil {
		t.Fatalf("duplicates failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(matches))
	}
}

func TestFollowAndRelatedRules(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Choosing between sync.Map and mutex")
	other := createQuestion(t, module, helperX, "RWMutex starvation under load")

	first, err := module.Handler.FollowHandler(ctx, voter, question.ID)
	if err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	second, err := module.Handler.FollowHandler(ctx, voter, question.ID)
	if err != nil {
		t.Fatalf("repeat follow failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected idempotent follow")
	}
	if _, err := module.Handler.FollowHandler(ctx, voter, "missing"); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected not found for unknown question, got %v", err)
	}
	if err := module.Handler.UnfollowHandler(ctx, voter, question.ID); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if err := module.Handler.UnfollowHandler(ctx, voter, question.ID); err != nil {
		t.Fatalf("repeat unfollow failed: %v", err)
	}

	if _, err := module.Handler.LinkRelatedHandler(ctx, owner, question.ID, httptransport.LinkRelatedRequest{
		RelatedQuestionIDs: []string{question.ID},
	}); !errors.Is(err, domainerrors.ErrSelfLinkNotAllowed) {
		t.Fatalf("expected self link error, got %v", err)
	}
	if _, err := module.Handler.LinkRelatedHandler(ctx, owner, question.ID, httptransport.LinkRelatedRequest{
		RelatedQuestionIDs: []string{"missing"},
	}); !errors.Is(err, domainerrors.ErrRelatedNotFound) {
		t.Fatalf("expected related not found, got %v", err)
	}
	if _, err := module.Handler.LinkRelatedHandler(ctx, helperX, question.ID, httptransport.LinkRelatedRequest{
		RelatedQuestionIDs: []string{other.ID},
	}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := module.Handler.LinkRelatedHandler(ctx, owner, question.ID, httptransport.LinkRelatedRequest{
			RelatedQuestionIDs: []string{other.ID},
		}); err != nil {
			t.Fatalf("link failed: %v", err)
		}
	}
	reverse, err := module.Handler.RelatedHandler(ctx, other.ID)
	if err != nil {
		t.Fatalf("related failed: %v", err)
	}
	if len(reverse) != 1 || reverse[0].ID != question.ID {
		t.Fatalf("expected symmetric link, got %+v", reverse)
	}
}

func TestFlagRules(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	question := createQuestion(t, module, owner, "Is it fine to panic in init?")

	if _, err := module.Handler.CreateFlagHandler(ctx, owner, httptransport.CreateFlagRequest{
		TargetType: "question", TargetID: question.ID, Reason: "my own post",
	}); !errors.Is(err, domainerrors.ErrSelfFlagNotAllowed) {
		t.Fatalf("expected self flag error, got %v", err)
	}
	flag, err := module.Handler.CreateFlagHandler(ctx, voter, httptransport.CreateFlagRequest{
		TargetType: "question", TargetID: question.ID, Reason: "spam link",
	})
	if err != nil {
		t.Fatalf("flag failed: %v", err)
	}
	if _, err := module.Handler.CreateFlagHandler(ctx, voter, httptransport.CreateFlagRequest{
		TargetType: "question", TargetID: question.ID, Reason: "spam again",
	}); !errors.Is(err, domainerrors.ErrAlreadyFlagged) {
		t.Fatalf("expected already flagged, got %v", err)
	}
	if _, err := module.Handler.ListFlagsHandler(ctx, voter, "", ""); !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	flags, err := module.Handler.ListFlagsHandler(ctx, admin, "question", question.ID)
	if err != nil {
		t.Fatalf("list flags failed: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("expected one flag, got %d", len(flags))
	}
	if err := module.Handler.DismissFlagHandler(ctx, admin, flag.ID); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if err := module.Handler.DismissFlagHandler(ctx, admin, flag.ID); !errors.Is(err, domainerrors.ErrFlagNotFound) {
		t.Fatalf("expected flag not found, got %v", err)
	}
}

func TestFAQLifecycle(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)

	if _, err := module.Handler.CreateFAQHandler(ctx, voter, httptransport.CreateFAQRequest{
		Question: "How do I reset my password?", Answer: "Use the forgot password link.",
	}); !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}
	faq, err := module.Handler.CreateFAQHandler(ctx, admin, httptransport.CreateFAQRequest{
		Question: "How do I reset my password?", Answer: "Use the forgot password link.", Category: "account",
	})
	if err != nil {
		t.Fatalf("create faq failed: %v", err)
	}
	category := "accounts"
	updated, err := module.Handler.UpdateFAQHandler(ctx, admin, faq.ID, httptransport.UpdateFAQRequest{Category: &category})
	if err != nil {
		t.Fatalf("update faq failed: %v", err)
	}
	if updated.Category != "accounts" || updated.Question != faq.Question {
		t.Fatalf("unexpected faq after update: %+v", updated)
	}
	if err := module.Handler.DeleteFAQHandler(ctx, admin, faq.ID); err != nil {
		t.Fatalf("delete faq failed: %v", err)
	}
	if err := module.Handler.DeleteFAQHandler(ctx, admin, faq.ID); !errors.Is(err, domainerrors.ErrFAQNotFound) {
		t.Fatalf("expected faq not found, got %v", err)
	}
}

type authorDirectory struct {
	names map[string]string
	err   error
}

func (d authorDirectory) DisplayNames(_ context.Context, _ []string) (map[string]string, error) {
	return d.names, d.err
}

func TestQuestionResponsesResolveAuthorNames(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	module.Handler.Authors = authorDirectory{names: map[string]string{owner.UserID: "Owner Person"}}

	created := createQuestion(t, module, owner, "Why does my goroutine leak on shutdown?")
	if created.AuthorName != "Owner Person" {
		t.Fatalf("expected author name on create, got %q", created.AuthorName)
	}
	createQuestion(t, module, helperX, "How do I close a channel safely?")

	items, err := module.Handler.ListQuestionsHandler(ctx, httptransport.ListQuestionsRequest{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	names := map[string]string{}
	for _, item := range items {
		names[item.AuthorID] = item.AuthorName
	}
	if names[owner.UserID] != "Owner Person" || names[helperX.UserID] != "" {
		t.Fatalf("expected known author named and unknown left blank, got %+v", names)
	}
}

func TestQuestionReadsSurviveAuthorLookupFailure(t *testing.T) {
	ctx := context.Background()
	module := forumservice.NewInMemoryModule(nil)
	module.Handler.Authors = authorDirectory{err: errors.New("directory offline")}

	question := createQuestion(t, module, owner, "Why does my goroutine leak on shutdown?")
	detail, err := module.Handler.QuestionDetailHandler(ctx, question.ID, queries.Viewer{})
	if err != nil {
		t.Fatalf("expected detail despite lookup failure, got %v", err)
	}
	if detail.AuthorName != "" {
		t.Fatalf("expected blank author name, got %q", detail.AuthorName)
	}
}
