package queries

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	application "moringadesk/contexts/community-qa/forum-service/application"
	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/domain/services"
	"moringadesk/contexts/community-qa/forum-service/ports"
)

const (
	minDuplicateTitle = 10
	maxDuplicates     = 5
)

// QuestionQueries serves question read models. Scores are summed from vote
// rows on every call.
type QuestionQueries struct {
	Store  ports.UnitOfWork
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (q QuestionQueries) ListQuestions(ctx context.Context, filter entities.QuestionFilter) ([]QuestionSummary, error) {
	filter = filter.Normalized()
	filter.Search = strings.TrimSpace(filter.Search)
	var items []QuestionSummary
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		questions, err := repo.ListQuestions(ctx, filter)
		if err != nil {
			return err
		}
		items, err = summarize(ctx, repo, questions)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// QuestionDetail loads a question with its tags and answers and records a
// view for the viewer at most once.
func (q QuestionQueries) QuestionDetail(ctx context.Context, questionID string, viewer Viewer) (QuestionDetail, error) {
	var detail QuestionDetail
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(questionID))
		if err != nil {
			return err
		}
		if err := q.recordView(ctx, repo, question.QuestionID, viewer); err != nil {
			return err
		}
		tags, err := repo.ListTagsForQuestion(ctx, question.QuestionID)
		if err != nil {
			return err
		}
		answers, err := answerViews(ctx, repo, question.QuestionID)
		if err != nil {
			return err
		}
		score, err := repo.SumVotes(ctx, entities.TargetQuestion, question.QuestionID)
		if err != nil {
			return err
		}
		views, err := repo.CountViews(ctx, question.QuestionID)
		if err != nil {
			return err
		}
		detail = QuestionDetail{
			Question:   question,
			Tags:       tags,
			Answers:    answers,
			VoteScore:  score,
			ViewsCount: views,
		}
		return nil
	})
	if err != nil {
		return QuestionDetail{}, err
	}
	return detail, nil
}

func (q QuestionQueries) recordView(ctx context.Context, repo ports.Repository, questionID string, viewer Viewer) error {
	viewerID := strings.TrimSpace(viewer.UserID)
	session := strings.TrimSpace(viewer.SessionID)
	if viewerID == "" && session == "" {
		return nil
	}
	if viewerID != "" {
		session = ""
	}
	seen, err := repo.HasView(ctx, questionID, viewerID, session)
	if err != nil || seen {
		return err
	}
	viewID, err := q.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := repo.RecordView(ctx, entities.QuestionView{
		ViewID:        viewID,
		QuestionID:    questionID,
		ViewerID:      viewerID,
		ViewerSession: session,
		CreatedAt:     q.Clock.Now().UTC(),
	}); err != nil {
		return err
	}
	application.ResolveLogger(q.Logger).Debug("question view recorded",
		"event", "forum_question_view_recorded",
		"module", "community-qa/forum-service",
		"layer", "application",
		"question_id", questionID,
	)
	return nil
}

// Duplicates returns questions whose title contains the given title. Short
// titles produce no suggestions.
func (q QuestionQueries) Duplicates(ctx context.Context, title string) ([]entities.Question, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minDuplicateTitle {
		return []entities.Question{}, nil
	}
	var questions []entities.Question
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		questions, err = repo.SearchQuestionsByTitle(ctx, title, maxDuplicates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionQueries) ListAnswers(ctx context.Context, questionID string) ([]AnswerView, error) {
	var answers []AnswerView
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(questionID))
		if err != nil {
			return err
		}
		answers, err = answerViews(ctx, repo, question.QuestionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (q QuestionQueries) ListRelated(ctx context.Context, questionID string) ([]entities.Question, error) {
	var related []entities.Question
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		question, err := repo.GetQuestion(ctx, strings.TrimSpace(questionID))
		if err != nil {
			return err
		}
		related, err = repo.ListRelatedQuestions(ctx, question.QuestionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return related, nil
}

func (q QuestionQueries) MyQuestions(ctx context.Context, actor entities.Actor, limit int, offset int) ([]QuestionSummary, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	return q.ListQuestions(ctx, entities.QuestionFilter{
		AuthorID: strings.TrimSpace(actor.UserID),
		Limit:    limit,
		Offset:   offset,
	})
}

func (q QuestionQueries) MyAnswers(ctx context.Context, actor entities.Actor) ([]AnswerView, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	var items []AnswerView
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		answers, err := repo.ListAnswersByAuthor(ctx, strings.TrimSpace(actor.UserID))
		if err != nil {
			return err
		}
		items, err = scoreAnswers(ctx, repo, answers)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (q QuestionQueries) FollowedQuestions(ctx context.Context, actor entities.Actor) ([]entities.Question, error) {
	if !actor.Authenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	var questions []entities.Question
	err := q.Store.Do(ctx, func(repo ports.Repository) error {
		var err error
		questions, err = repo.ListFollowedQuestions(ctx, strings.TrimSpace(actor.UserID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func summarize(ctx context.Context, repo ports.Repository, questions []entities.Question) ([]QuestionSummary, error) {
	items := make([]QuestionSummary, 0, len(questions))
	for _, question := range questions {
		answers, err := repo.CountAnswers(ctx, question.QuestionID)
		if err != nil {
			return nil, err
		}
		views, err := repo.CountViews(ctx, question.QuestionID)
		if err != nil {
			return nil, err
		}
		score, err := repo.SumVotes(ctx, entities.TargetQuestion, question.QuestionID)
		if err != nil {
			return nil, err
		}
		items = append(items, QuestionSummary{
			Question:     question,
			AnswersCount: answers,
			ViewsCount:   views,
			VoteScore:    score,
		})
	}
	return items, nil
}

func answerViews(ctx context.Context, repo ports.Repository, questionID string) ([]AnswerView, error) {
	answers, err := repo.ListAnswersByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return scoreAnswers(ctx, repo, services.OrderAnswers(answers))
}

func scoreAnswers(ctx context.Context, repo ports.Repository, answers []entities.Answer) ([]AnswerView, error) {
	items := make([]AnswerView, 0, len(answers))
	for _, answer := range answers {
		score, err := repo.SumVotes(ctx, entities.TargetAnswer, answer.AnswerID)
		if err != nil {
			return nil, err
		}
		items = append(items, AnswerView{Answer: answer, VoteScore: score})
	}
	return items, nil
}
