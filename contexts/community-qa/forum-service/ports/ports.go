package ports

import (
	"context"
	"time"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
)

type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	SaveQuestion(ctx context.Context, question entities.Question) error
	ListQuestions(ctx context.Context, filter entities.QuestionFilter) ([]entities.Question, error)
	SearchQuestionsByTitle(ctx context.Context, title string, limit int) ([]entities.Question, error)
	ListQuestionIDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	DeleteQuestion(ctx context.Context, questionID string) error
}

type AnswerRepository interface {
	CreateAnswer(ctx context.Context, answer entities.Answer) error
	GetAnswer(ctx context.Context, answerID string) (entities.Answer, error)
	SaveAnswer(ctx context.Context, answer entities.Answer) error
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error)
	ListAnswersByAuthor(ctx context.Context, authorID string) ([]entities.Answer, error)
	ListAnswerIDsByQuestion(ctx context.Context, questionID string) ([]string, error)
	ListAnswerIDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	CountAnswers(ctx context.Context, questionID string) (int, error)
	DeleteAnswers(ctx context.Context, answerIDs []string) error
	AuthorStats(ctx context.Context) (entities.AuthorStats, error)
}

type VoteRepository interface {
	GetVoteByIdentity(ctx context.Context, userID string, targetType entities.TargetType, targetID string) (entities.Vote, bool, error)
	SaveVote(ctx context.Context, vote entities.Vote) error
	SumVotes(ctx context.Context, targetType entities.TargetType, targetID string) (int, error)
	DeleteVotesByTargets(ctx context.Context, targetType entities.TargetType, targetIDs []string) error
	DeleteVotesByUser(ctx context.Context, userID string) error
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification entities.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]entities.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	DeleteNotificationsByUser(ctx context.Context, userID string) error
}

type EngagementRepository interface {
	GetFollow(ctx context.Context, userID string, questionID string) (entities.Follow, bool, error)
	CreateFollow(ctx context.Context, follow entities.Follow) error
	DeleteFollow(ctx context.Context, userID string, questionID string) error
	ListFollowedQuestions(ctx context.Context, userID string) ([]entities.Question, error)
	DeleteFollowsByQuestion(ctx context.Context, questionID string) error
	DeleteFollowsByUser(ctx context.Context, userID string) error

	CreateTag(ctx context.Context, tag entities.Tag) error
	GetTag(ctx context.Context, tagID string) (entities.Tag, error)
	GetTagByName(ctx context.Context, name string) (entities.Tag, bool, error)
	ListTagsWithUsage(ctx context.Context) ([]entities.TagUsage, error)
	AttachTag(ctx context.Context, link entities.QuestionTag) error
	ListTagsForQuestion(ctx context.Context, questionID string) ([]entities.Tag, error)
	DeleteQuestionTags(ctx context.Context, questionID string) error

	LinkRelated(ctx context.Context, link entities.RelatedQuestion) error
	ListRelatedQuestions(ctx context.Context, questionID string) ([]entities.Question, error)
	DeleteRelatedLinks(ctx context.Context, questionID string) error

	RecordView(ctx context.Context, view entities.QuestionView) error
	HasView(ctx context.Context, questionID string, viewerID string, viewerSession string) (bool, error)
	CountViews(ctx context.Context, questionID string) (int, error)
	DeleteViewsByQuestion(ctx context.Context, questionID string) error
	DeleteViewsByViewer(ctx context.Context, viewerID string) error
}

type FlagRepository interface {
	CreateFlag(ctx context.Context, flag entities.Flag) error
	GetFlagByIdentity(ctx context.Context, userID string, targetType entities.TargetType, targetID string) (entities.Flag, bool, error)
	ListFlags(ctx context.Context, filter entities.FlagFilter) ([]entities.Flag, error)
	DeleteFlag(ctx context.Context, flagID string) (bool, error)
	DeleteFlagsByTargets(ctx context.Context, targetType entities.TargetType, targetIDs []string) error
	DeleteFlagsByUser(ctx context.Context, userID string) error
}

type FAQRepository interface {
	CreateFAQ(ctx context.Context, faq entities.FAQ) error
	GetFAQ(ctx context.Context, faqID string) (entities.FAQ, error)
	SaveFAQ(ctx context.Context, faq entities.FAQ) error
	ListFAQs(ctx context.Context) ([]entities.FAQ, error)
	DeleteFAQ(ctx context.Context, faqID string) (bool, error)
}

// Repository is the full persistence surface visible inside a unit of work.
type Repository interface {
	QuestionRepository
	AnswerRepository
	VoteRepository
	NotificationRepository
	EngagementRepository
	FlagRepository
	FAQRepository
}

// UnitOfWork scopes one logical operation. All reads and writes made through
// the repository passed to fn commit together, or none do when fn errors.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AuthorDirectory resolves display names for author ids. Unknown ids are
// absent from the result.
type AuthorDirectory interface {
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}
