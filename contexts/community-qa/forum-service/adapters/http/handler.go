package httpadapter

import (
	"context"
	"log/slog"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/application/commands"
	"moringadesk/contexts/community-qa/forum-service/application/queries"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	"moringadesk/contexts/community-qa/forum-service/ports"
	httptransport "moringadesk/contexts/community-qa/forum-service/transport/http"
)

// Handler maps transport DTOs onto forum use cases. Request validation and
// identity resolution happen before it is called.
type Handler struct {
	Questions     commands.QuestionUseCase
	Answers       commands.AnswerUseCase
	Votes         commands.VoteUseCase
	Engagement    commands.EngagementUseCase
	Flags         commands.FlagUseCase
	Moderation    commands.ModerationUseCase
	FAQs          commands.FAQUseCase
	Notifications commands.NotificationUseCase
	Reads         queries.QuestionQueries
	Community     queries.CommunityQueries
	Authors       ports.AuthorDirectory
	Logger        *slog.Logger
}

func (h Handler) CreateQuestionHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateQuestionRequest,
) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.CreateQuestion(ctx, commands.CreateQuestionCommand{
		Actor:    actor,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Stage:    req.Stage,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return h.namedQuestion(ctx, mapQuestion(question)), nil
}

func (h Handler) ListQuestionsHandler(
	ctx context.Context,
	req httptransport.ListQuestionsRequest,
) ([]httptransport.QuestionSummaryResponse, error) {
	items, err := h.Reads.ListQuestions(ctx, entities.QuestionFilter{
		Category: req.Category,
		Stage:    req.Stage,
		Tag:      req.Tag,
		Search:   req.Search,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, err
	}
	return h.namedSummaries(ctx, mapSummaries(items)), nil
}

func (h Handler) QuestionDetailHandler(
	ctx context.Context,
	questionID string,
	viewer queries.Viewer,
) (httptransport.QuestionDetailResponse, error) {
	detail, err := h.Reads.QuestionDetail(ctx, questionID, viewer)
	if err != nil {
		return httptransport.QuestionDetailResponse{}, err
	}
	return httptransport.QuestionDetailResponse{
		QuestionResponse: h.namedQuestion(ctx, mapQuestion(detail.Question)),
		Tags:             mapTags(detail.Tags),
		Answers:          mapAnswerViews(detail.Answers),
		VoteScore:        detail.VoteScore,
		ViewsCount:       detail.ViewsCount,
	}, nil
}

func (h Handler) DuplicatesHandler(ctx context.Context, title string) ([]httptransport.QuestionResponse, error) {
	questions, err := h.Reads.Duplicates(ctx, title)
	if err != nil {
		return nil, err
	}
	return h.namedQuestions(ctx, mapQuestions(questions)), nil
}

func (h Handler) UpdateQuestionHandler(
	ctx context.Context,
	actor entities.Actor,
	questionID string,
	req httptransport.UpdateQuestionRequest,
) (httptransport.QuestionResponse, error) {
	question, err := h.Questions.UpdateQuestion(ctx, commands.UpdateQuestionCommand{
		Actor:      actor,
		QuestionID: questionID,
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
		Stage:      req.Stage,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return h.namedQuestion(ctx, mapQuestion(question)), nil
}

func (h Handler) DeleteQuestionHandler(ctx context.Context, actor entities.Actor, questionID string) error {
	return h.Moderation.DeleteQuestion(ctx, commands.DeleteContentCommand{Actor: actor, ID: questionID})
}

func (h Handler) CreateAnswerHandler(
	ctx context.Context,
	actor entities.Actor,
	questionID string,
	req httptransport.CreateAnswerRequest,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.CreateAnswer(ctx, commands.CreateAnswerCommand{
		Actor:      actor,
		QuestionID: questionID,
		Body:       req.Body,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return mapAnswer(answer, 0), nil
}

func (h Handler) ListAnswersHandler(ctx context.Context, questionID string) ([]httptransport.AnswerResponse, error) {
	answers, err := h.Reads.ListAnswers(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return mapAnswerViews(answers), nil
}

func (h Handler) AcceptAnswerHandler(
	ctx context.Context,
	actor entities.Actor,
	questionID string,
	answerID string,
) (httptransport.AcceptAnswerResponse, error) {
	result, err := h.Answers.AcceptAnswer(ctx, commands.AcceptAnswerCommand{
		Actor:      actor,
		QuestionID: questionID,
		AnswerID:   answerID,
	})
	if err != nil {
		return httptransport.AcceptAnswerResponse{}, err
	}
	return httptransport.AcceptAnswerResponse{
		QuestionID:       result.Question.QuestionID,
		AcceptedAnswerID: result.Answer.AnswerID,
		PreviousAnswerID: result.PreviousAnswerID,
		Changed:          result.Changed,
	}, nil
}

func (h Handler) UpdateAnswerHandler(
	ctx context.Context,
	actor entities.Actor,
	answerID string,
	req httptransport.UpdateAnswerRequest,
) (httptransport.AnswerResponse, error) {
	answer, err := h.Answers.UpdateAnswer(ctx, commands.UpdateAnswerCommand{
		Actor:    actor,
		AnswerID: answerID,
		Body:     req.Body,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	score, err := h.Community.Score(ctx, entities.TargetAnswer, answer.AnswerID)
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return mapAnswer(answer, score.Score), nil
}

func (h Handler) DeleteAnswerHandler(ctx context.Context, actor entities.Actor, answerID string) error {
	return h.Moderation.DeleteAnswer(ctx, commands.DeleteContentCommand{Actor: actor, ID: answerID})
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		Actor:      actor,
		TargetType: entities.TargetType(req.TargetType),
		TargetID:   req.TargetID,
		Value:      req.Value,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ID:         result.Vote.VoteID,
		UserID:     result.Vote.UserID,
		TargetType: string(result.Vote.TargetType),
		TargetID:   result.Vote.TargetID,
		Value:      result.Vote.Value,
		Score:      result.Score,
		CreatedAt:  result.Vote.CreatedAt,
		UpdatedAt:  result.Vote.UpdatedAt,
	}, nil
}

func (h Handler) ScoreHandler(ctx context.Context, targetType string, targetID string) (httptransport.ScoreResponse, error) {
	score, err := h.Community.Score(ctx, entities.TargetType(targetType), targetID)
	if err != nil {
		return httptransport.ScoreResponse{}, err
	}
	return httptransport.ScoreResponse{
		TargetType: string(score.TargetType),
		TargetID:   score.TargetID,
		Score:      score.Score,
	}, nil
}

func (h Handler) FollowHandler(ctx context.Context, actor entities.Actor, questionID string) (httptransport.FollowResponse, error) {
	follow, err := h.Engagement.Follow(ctx, commands.FollowCommand{Actor: actor, QuestionID: questionID})
	if err != nil {
		return httptransport.FollowResponse{}, err
	}
	return httptransport.FollowResponse{
		ID:         follow.FollowID,
		UserID:     follow.UserID,
		QuestionID: follow.QuestionID,
		CreatedAt:  follow.CreatedAt,
	}, nil
}

func (h Handler) UnfollowHandler(ctx context.Context, actor entities.Actor, questionID string) error {
	return h.Engagement.Unfollow(ctx, commands.FollowCommand{Actor: actor, QuestionID: questionID})
}

func (h Handler) AttachTagsHandler(
	ctx context.Context,
	actor entities.Actor,
	questionID string,
	req httptransport.AttachTagsRequest,
) ([]httptransport.TagResponse, error) {
	tags, err := h.Engagement.AttachTags(ctx, commands.AttachTagsCommand{
		Actor:      actor,
		QuestionID: questionID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	return mapTags(tags), nil
}

func (h Handler) LinkRelatedHandler(
	ctx context.Context,
	actor entities.Actor,
	questionID string,
	req httptransport.LinkRelatedRequest,
) ([]httptransport.QuestionResponse, error) {
	related, err := h.Engagement.LinkRelated(ctx, commands.LinkRelatedCommand{
		Actor:      actor,
		QuestionID: questionID,
		RelatedIDs: req.RelatedQuestionIDs,
	})
	if err != nil {
		return nil, err
	}
	return h.namedQuestions(ctx, mapQuestions(related)), nil
}

func (h Handler) RelatedHandler(ctx context.Context, questionID string) ([]httptransport.QuestionResponse, error) {
	related, err := h.Reads.ListRelated(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return h.namedQuestions(ctx, mapQuestions(related)), nil
}

func (h Handler) CreateTagHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateTagRequest,
) (httptransport.TagResponse, error) {
	tag, err := h.Engagement.CreateTag(ctx, commands.CreateTagCommand{Actor: actor, Name: req.Name})
	if err != nil {
		return httptransport.TagResponse{}, err
	}
	return httptransport.TagResponse{ID: tag.TagID, Name: tag.Name}, nil
}

func (h Handler) ListTagsHandler(ctx context.Context) ([]httptransport.TagUsageResponse, error) {
	tags, err := h.Community.Tags(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.TagUsageResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, httptransport.TagUsageResponse{
			ID:         tag.TagID,
			Name:       tag.Name,
			UsageCount: tag.UsageCount,
		})
	}
	return items, nil
}

func (h Handler) CreateFlagHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateFlagRequest,
) (httptransport.FlagResponse, error) {
	flag, err := h.Flags.CreateFlag(ctx, commands.CreateFlagCommand{
		Actor:      actor,
		TargetType: entities.TargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.FlagResponse{}, err
	}
	return mapFlag(flag), nil
}

func (h Handler) ListFlagsHandler(
	ctx context.Context,
	actor entities.Actor,
	targetType string,
	targetID string,
) ([]httptransport.FlagResponse, error) {
	flags, err := h.Community.Flags(ctx, actor, entities.FlagFilter{
		TargetType: entities.TargetType(targetType),
		TargetID:   targetID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.FlagResponse, 0, len(flags))
	for _, flag := range flags {
		items = append(items, mapFlag(flag))
	}
	return items, nil
}

func (h Handler) DismissFlagHandler(ctx context.Context, actor entities.Actor, flagID string) error {
	return h.Flags.DismissFlag(ctx, commands.DismissFlagCommand{Actor: actor, FlagID: flagID})
}

func (h Handler) NotificationsHandler(
	ctx context.Context,
	actor entities.Actor,
	unreadOnly bool,
) ([]httptransport.NotificationResponse, error) {
	notifications, err := h.Community.Notifications(ctx, actor, unreadOnly)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, httptransport.NotificationResponse{
			ID:        notification.NotificationID,
			Type:      string(notification.Type),
			Payload:   notification.Payload,
			IsRead:    notification.IsRead,
			CreatedAt: notification.CreatedAt,
		})
	}
	return items, nil
}

func (h Handler) MarkAllReadHandler(ctx context.Context, actor entities.Actor) (httptransport.MarkAllReadResponse, error) {
	updated, err := h.Notifications.MarkAllRead(ctx, actor)
	if err != nil {
		return httptransport.MarkAllReadResponse{}, err
	}
	return httptransport.MarkAllReadResponse{Updated: updated}, nil
}

func (h Handler) MyQuestionsHandler(
	ctx context.Context,
	actor entities.Actor,
	limit int,
	offset int,
) ([]httptransport.QuestionSummaryResponse, error) {
	items, err := h.Reads.MyQuestions(ctx, actor, limit, offset)
	if err != nil {
		return nil, err
	}
	return h.namedSummaries(ctx, mapSummaries(items)), nil
}

func (h Handler) MyAnswersHandler(ctx context.Context, actor entities.Actor) ([]httptransport.AnswerResponse, error) {
	answers, err := h.Reads.MyAnswers(ctx, actor)
	if err != nil {
		return nil, err
	}
	return mapAnswerViews(answers), nil
}

func (h Handler) MyFollowsHandler(ctx context.Context, actor entities.Actor) ([]httptransport.QuestionResponse, error) {
	questions, err := h.Reads.FollowedQuestions(ctx, actor)
	if err != nil {
		return nil, err
	}
	return h.namedQuestions(ctx, mapQuestions(questions)), nil
}

func (h Handler) ListFAQsHandler(ctx context.Context) ([]httptransport.FAQResponse, error) {
	faqs, err := h.Community.FAQs(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.FAQResponse, 0, len(faqs))
	for _, faq := range faqs {
		items = append(items, mapFAQ(faq))
	}
	return items, nil
}

func (h Handler) CreateFAQHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateFAQRequest,
) (httptransport.FAQResponse, error) {
	faq, err := h.FAQs.CreateFAQ(ctx, commands.CreateFAQCommand{
		Actor:    actor,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return httptransport.FAQResponse{}, err
	}
	return mapFAQ(faq), nil
}

func (h Handler) UpdateFAQHandler(
	ctx context.Context,
	actor entities.Actor,
	faqID string,
	req httptransport.UpdateFAQRequest,
) (httptransport.FAQResponse, error) {
	faq, err := h.FAQs.UpdateFAQ(ctx, commands.UpdateFAQCommand{
		Actor:    actor,
		FAQID:    faqID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return httptransport.FAQResponse{}, err
	}
	return mapFAQ(faq), nil
}

func (h Handler) DeleteFAQHandler(ctx context.Context, actor entities.Actor, faqID string) error {
	return h.FAQs.DeleteFAQ(ctx, commands.DeleteFAQCommand{Actor: actor, FAQID: faqID})
}

// authorNames looks up display names for ids. A failed lookup is logged and
// leaves names empty rather than failing the read.
func (h Handler) authorNames(ctx context.Context, ids []string) map[string]string {
	if h.Authors == nil || len(ids) == 0 {
		return nil
	}
	names, err := h.Authors.DisplayNames(ctx, ids)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("author names unavailable",
			"event", "forum_author_names_failed",
			"module", "community-qa/forum-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return nil
	}
	return names
}

func (h Handler) namedQuestion(ctx context.Context, item httptransport.QuestionResponse) httptransport.QuestionResponse {
	items := h.namedQuestions(ctx, []httptransport.QuestionResponse{item})
	return items[0]
}

func (h Handler) namedQuestions(ctx context.Context, items []httptransport.QuestionResponse) []httptransport.QuestionResponse {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AuthorID)
	}
	names := h.authorNames(ctx, ids)
	for i := range items {
		items[i].AuthorName = names[items[i].AuthorID]
	}
	return items
}

func (h Handler) namedSummaries(ctx context.Context, items []httptransport.QuestionSummaryResponse) []httptransport.QuestionSummaryResponse {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AuthorID)
	}
	names := h.authorNames(ctx, ids)
	for i := range items {
		items[i].AuthorName = names[items[i].AuthorID]
	}
	return items
}

func mapQuestion(question entities.Question) httptransport.QuestionResponse {
	resp := httptransport.QuestionResponse{
		ID:        question.QuestionID,
		AuthorID:  question.AuthorID,
		Title:     question.Title,
		Body:      question.Body,
		Category:  question.Category,
		Stage:     question.Stage,
		CreatedAt: question.CreatedAt,
		UpdatedAt: question.UpdatedAt,
	}
	if question.HasAcceptedAnswer() {
		accepted := question.AcceptedAnswerID
		resp.AcceptedAnswerID = &accepted
	}
	return resp
}

func mapQuestions(questions []entities.Question) []httptransport.QuestionResponse {
	items := make([]httptransport.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, mapQuestion(question))
	}
	return items
}

func mapSummaries(summaries []queries.QuestionSummary) []httptransport.QuestionSummaryResponse {
	items := make([]httptransport.QuestionSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, httptransport.QuestionSummaryResponse{
			QuestionResponse: mapQuestion(summary.Question),
			AnswersCount:     summary.AnswersCount,
			ViewsCount:       summary.ViewsCount,
			VoteScore:        summary.VoteScore,
		})
	}
	return items
}

func mapAnswer(answer entities.Answer, score int) httptransport.AnswerResponse {
	return httptransport.AnswerResponse{
		ID:         answer.AnswerID,
		QuestionID: answer.QuestionID,
		AuthorID:   answer.AuthorID,
		Body:       answer.Body,
		IsAccepted: answer.IsAccepted,
		VoteScore:  score,
		CreatedAt:  answer.CreatedAt,
		UpdatedAt:  answer.UpdatedAt,
	}
}

func mapAnswerViews(answers []queries.AnswerView) []httptransport.AnswerResponse {
	items := make([]httptransport.AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		items = append(items, mapAnswer(answer.Answer, answer.VoteScore))
	}
	return items
}

func mapTags(tags []entities.Tag) []httptransport.TagResponse {
	items := make([]httptransport.TagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, httptransport.TagResponse{ID: tag.TagID, Name: tag.Name})
	}
	return items
}

func mapFlag(flag entities.Flag) httptransport.FlagResponse {
	return httptransport.FlagResponse{
		ID:         flag.FlagID,
		UserID:     flag.UserID,
		TargetType: string(flag.TargetType),
		TargetID:   flag.TargetID,
		Reason:     flag.Reason,
		CreatedAt:  flag.CreatedAt,
	}
}

func mapFAQ(faq entities.FAQ) httptransport.FAQResponse {
	return httptransport.FAQResponse{
		ID:        faq.FAQID,
		Question:  faq.Question,
		Answer:    faq.Answer,
		Category:  faq.Category,
		CreatedAt: faq.CreatedAt,
		UpdatedAt: faq.UpdatedAt,
	}
}
