package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements ports.Repository on top of a gorm handle, usually
// the transaction opened by Store.Do.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateQuestion(ctx context.Context, question entities.Question) error {
	row := questionModelFromEntity(question)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_create_question_failed", err, "question_id", question.QuestionID)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("forum_repo_get_question_failed", err, "question_id", questionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveQuestion(ctx context.Context, question entities.Question) error {
	row := questionModelFromEntity(question)
	result := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"title":              row.Title,
			"body":               row.Body,
			"category":           row.Category,
			"stage":              row.Stage,
			"accepted_answer_id": row.AcceptedAnswerID,
			"updated_at":         row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("forum_repo_save_question_failed", result.Error, "question_id", question.QuestionID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrQuestionNotFound
	}
	return nil
}

func (r *Repository) ListQuestions(ctx context.Context, filter entities.QuestionFilter) ([]entities.Question, error) {
	filter = filter.Normalized()
	tx := r.db.WithContext(ctx).Model(&questionModel{})
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.Stage != "" {
		tx = tx.Where("stage = ?", filter.Stage)
	}
	if filter.AuthorID != "" {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		tagged := r.db.WithContext(ctx).
			Table("question_tags AS qt").
			Select("qt.question_id").
			Joins("JOIN tags AS t ON t.id = qt.tag_id").
			Where("t.name = ?", filter.Tag)
		tx = tx.Where("id IN (?)", tagged)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(body) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var rows []questionModel
	if err := tx.Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_questions_failed", err,
			"category", filter.Category,
			"stage", filter.Stage,
			"tag", filter.Tag,
		)
	}
	return toQuestionEntities(rows), nil
}

func (r *Repository) SearchQuestionsByTitle(ctx context.Context, title string, limit int) ([]entities.Question, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(title))) + "%"
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_search_questions_failed", err, "title", title)
	}
	return toQuestionEntities(rows), nil
}

func (r *Repository) ListQuestionIDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, r.logError("forum_repo_list_question_ids_failed", err, "author_id", authorID)
	}
	return ids, nil
}

func (r *Repository) DeleteQuestion(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", questionID).
		Delete(&questionModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_question_failed", err, "question_id", questionID)
	}
	return nil
}

func (r *Repository) CreateAnswer(ctx context.Context, answer entities.Answer) error {
	row := answerModelFromEntity(answer)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_create_answer_failed", err,
			"answer_id", answer.AnswerID,
			"question_id", answer.QuestionID,
		)
	}
	return nil
}

func (r *Repository) GetAnswer(ctx context.Context, answerID string) (entities.Answer, error) {
	var row answerModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(answerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Answer{}, domainerrors.ErrAnswerNotFound
		}
		return entities.Answer{}, r.logError("forum_repo_get_answer_failed", err, "answer_id", answerID)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveAnswer(ctx context.Context, answer entities.Answer) error {
	result := r.db.WithContext(ctx).
		Model(&answerModel{}).
		Where("id = ?", answer.AnswerID).
		Updates(map[string]any{
			"body":        answer.Body,
			"is_accepted": answer.IsAccepted,
			"updated_at":  answer.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("forum_repo_save_answer_failed", result.Error, "answer_id", answer.AnswerID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAnswerNotFound
	}
	return nil
}

func (r *Repository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error) {
	var rows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_answers_failed", err, "question_id", questionID)
	}
	return toAnswerEntities(rows), nil
}

func (r *Repository) ListAnswersByAuthor(ctx context.Context, authorID string) ([]entities.Answer, error) {
	var rows []answerModel
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_answers_by_author_failed", err, "author_id", authorID)
	}
	return toAnswerEntities(rows), nil
}

func (r *Repository) ListAnswerIDsByQuestion(ctx context.Context, questionID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&answerModel{}).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, r.logError("forum_repo_list_answer_ids_failed", err, "question_id", questionID)
	}
	return ids, nil
}

func (r *Repository) ListAnswerIDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&answerModel{}).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, r.logError("forum_repo_list_answer_ids_by_author_failed", err, "author_id", authorID)
	}
	return ids, nil
}

func (r *Repository) CountAnswers(ctx context.Context, questionID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&answerModel{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return 0, r.logError("forum_repo_count_answers_failed", err, "question_id", questionID)
	}
	return int(count), nil
}

func (r *Repository) DeleteAnswers(ctx context.Context, answerIDs []string) error {
	if len(answerIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", answerIDs).
		Delete(&answerModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_answers_failed", err, "answer_count", len(answerIDs))
	}
	return nil
}

func (r *Repository) AuthorStats(ctx context.Context) (entities.AuthorStats, error) {
	type authorCount struct {
		AuthorID string `gorm:"column:author_id"`
		Total    int    `gorm:"column:total"`
	}
	stats := entities.AuthorStats{
		Questions: make(map[string]int),
		Answers:   make(map[string]int),
	}
	var questionCounts []authorCount
	if err := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Select("author_id, COUNT(*) AS total").
		Group("author_id").
		Scan(&questionCounts).Error; err != nil {
		return entities.AuthorStats{}, r.logError("forum_repo_question_stats_failed", err)
	}
	var answerCounts []authorCount
	if err := r.db.WithContext(ctx).
		Model(&answerModel{}).
		Select("author_id, COUNT(*) AS total").
		Group("author_id").
		Scan(&answerCounts).Error; err != nil {
		return entities.AuthorStats{}, r.logError("forum_repo_answer_stats_failed", err)
	}
	for _, row := range questionCounts {
		stats.Questions[row.AuthorID] = row.Total
	}
	for _, row := range answerCounts {
		stats.Answers[row.AuthorID] = row.Total
	}
	return stats, nil
}

func (r *Repository) GetVoteByIdentity(
	ctx context.Context,
	userID string,
	targetType entities.TargetType,
	targetID string,
) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, string(targetType), targetID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("forum_repo_get_vote_by_identity_failed", err,
			"user_id", userID,
			"target_type", string(targetType),
			"target_id", targetID,
		)
	}
	return row.toEntity(), true, nil
}

// SaveVote upserts by vote id. A second vote id for the same identity hits
// idx_votes_identity and is reported as ErrConflict.
func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_save_vote_failed", create.Error,
			"vote_id", vote.VoteID,
			"user_id", vote.UserID,
			"target_id", vote.TargetID,
		)
	}
	return nil
}

func (r *Repository) SumVotes(ctx context.Context, targetType entities.TargetType, targetID string) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("COALESCE(SUM(value), 0)").
		Where("target_type = ? AND target_id = ?", string(targetType), targetID).
		Scan(&total).Error; err != nil {
		return 0, r.logError("forum_repo_sum_votes_failed", err,
			"target_type", string(targetType),
			"target_id", targetID,
		)
	}
	return int(total), nil
}

func (r *Repository) DeleteVotesByTargets(ctx context.Context, targetType entities.TargetType, targetIDs []string) error {
	if len(targetIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", string(targetType), targetIDs).
		Delete(&voteModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_votes_failed", err, "target_type", string(targetType))
	}
	return nil
}

func (r *Repository) DeleteVotesByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&voteModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_user_votes_failed", err, "user_id", userID)
	}
	return nil
}

func (r *Repository) CreateNotification(ctx context.Context, notification entities.Notification) error {
	row, err := notificationModelFromEntity(notification)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("forum_repo_create_notification_failed", err,
			"notification_id", notification.NotificationID,
			"user_id", notification.UserID,
		)
	}
	return nil
}

func (r *Repository) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]entities.Notification, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	var rows []notificationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_notifications_failed", err, "user_id", userID)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, r.logError("forum_repo_mark_notifications_read_failed", result.Error, "user_id", userID)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) DeleteNotificationsByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&notificationModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_notifications_failed", err, "user_id", userID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community-qa/forum-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("forum repository operation failed", fields...)
	return err
}

// isUniqueViolation accepts both the translated gorm error and a raw
// postgres 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

var _ ports.Repository = (*Repository)(nil)
