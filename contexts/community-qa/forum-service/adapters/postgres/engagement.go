package postgresadapter

import (
	"context"
	"errors"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetFollow(ctx context.Context, userID string, questionID string) (entities.Follow, bool, error) {
	var row followModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Follow{}, false, nil
		}
		return entities.Follow{}, false, r.logError("forum_repo_get_follow_failed", err,
			"user_id", userID,
			"question_id", questionID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateFollow(ctx context.Context, follow entities.Follow) error {
	row := followModel{
		ID:         follow.FollowID,
		UserID:     follow.UserID,
		QuestionID: follow.QuestionID,
		CreatedAt:  follow.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_create_follow_failed", err, "question_id", follow.QuestionID)
	}
	return nil
}

func (r *Repository) DeleteFollow(ctx context.Context, userID string, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&followModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_follow_failed", err, "question_id", questionID)
	}
	return nil
}

func (r *Repository) ListFollowedQuestions(ctx context.Context, userID string) ([]entities.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Select("questions.*").
		Joins("JOIN follows ON follows.question_id = questions.id").
		Where("follows.user_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_followed_failed", err, "user_id", userID)
	}
	return toQuestionEntities(rows), nil
}

func (r *Repository) DeleteFollowsByQuestion(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&followModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_question_follows_failed", err, "question_id", questionID)
	}
	return nil
}

func (r *Repository) DeleteFollowsByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&followModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_user_follows_failed", err, "user_id", userID)
	}
	return nil
}

func (r *Repository) CreateTag(ctx context.Context, tag entities.Tag) error {
	row := tagModel{ID: tag.TagID, Name: tag.Name, CreatedAt: tag.CreatedAt.UTC()}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_create_tag_failed", err, "name", tag.Name)
	}
	return nil
}

func (r *Repository) GetTag(ctx context.Context, tagID string) (entities.Tag, error) {
	var row tagModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(tagID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tag{}, domainerrors.ErrTagNotFound
		}
		return entities.Tag{}, r.logError("forum_repo_get_tag_failed", err, "tag_id", tagID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTagByName(ctx context.Context, name string) (entities.Tag, bool, error) {
	var row tagModel
	err := r.db.WithContext(ctx).Where("name = ?", entities.NormalizeTagName(name)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tag{}, false, nil
		}
		return entities.Tag{}, false, r.logError("forum_repo_get_tag_by_name_failed", err, "name", name)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListTagsWithUsage(ctx context.Context) ([]entities.TagUsage, error) {
	var rows []tagUsageRow
	if err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.created_at, COUNT(question_tags.question_id) AS usage_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.created_at").
		Order("tags.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_tags_failed", err)
	}
	items := make([]entities.TagUsage, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.TagUsage{
			Tag:        entities.Tag{TagID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt.UTC()},
			UsageCount: row.UsageCount,
		})
	}
	return items, nil
}

func (r *Repository) AttachTag(ctx context.Context, link entities.QuestionTag) error {
	row := questionTagModel{
		QuestionID: link.QuestionID,
		TagID:      link.TagID,
		CreatedAt:  link.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return r.logError("forum_repo_attach_tag_failed", err,
			"question_id", link.QuestionID,
			"tag_id", link.TagID,
		)
	}
	return nil
}

func (r *Repository) ListTagsForQuestion(ctx context.Context, questionID string) ([]entities.Tag, error) {
	var rows []tagModel
	if err := r.db.WithContext(ctx).
		Model(&tagModel{}).
		Select("tags.*").
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Where("question_tags.question_id = ?", questionID).
		Order("tags.name ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_question_tags_failed", err, "question_id", questionID)
	}
	items := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteQuestionTags(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&questionTagModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_question_tags_failed", err, "question_id", questionID)
	}
	return nil
}

// LinkRelated writes both directions; existing rows are kept.
func (r *Repository) LinkRelated(ctx context.Context, link entities.RelatedQuestion) error {
	rows := []relatedQuestionModel{
		{QuestionID: link.QuestionID, RelatedQuestionID: link.RelatedQuestionID, CreatedAt: link.CreatedAt.UTC()},
		{QuestionID: link.RelatedQuestionID, RelatedQuestionID: link.QuestionID, CreatedAt: link.CreatedAt.UTC()},
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return r.logError("forum_repo_link_related_failed", err,
			"question_id", link.QuestionID,
			"related_question_id", link.RelatedQuestionID,
		)
	}
	return nil
}

func (r *Repository) ListRelatedQuestions(ctx context.Context, questionID string) ([]entities.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Select("questions.*").
		Joins("JOIN related_questions ON related_questions.related_question_id = questions.id").
		Where("related_questions.question_id = ?", questionID).
		Order("questions.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_related_failed", err, "question_id", questionID)
	}
	return toQuestionEntities(rows), nil
}

func (r *Repository) DeleteRelatedLinks(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("question_id = ? OR related_question_id = ?", questionID, questionID).
		Delete(&relatedQuestionModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_related_failed", err, "question_id", questionID)
	}
	return nil
}

func (r *Repository) RecordView(ctx context.Context, view entities.QuestionView) error {
	row := questionViewModel{
		ID:            view.ViewID,
		QuestionID:    view.QuestionID,
		ViewerID:      view.ViewerID,
		ViewerSession: view.ViewerSession,
		CreatedAt:     view.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("forum_repo_record_view_failed", err, "question_id", view.QuestionID)
	}
	return nil
}

func (r *Repository) HasView(ctx context.Context, questionID string, viewerID string, viewerSession string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&questionViewModel{}).Where("question_id = ?", questionID)
	switch {
	case viewerID != "":
		tx = tx.Where("viewer_id = ?", viewerID)
	case viewerSession != "":
		tx = tx.Where("viewer_id = '' AND viewer_session = ?", viewerSession)
	default:
		return false, nil
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, r.logError("forum_repo_has_view_failed", err, "question_id", questionID)
	}
	return count > 0, nil
}

func (r *Repository) CountViews(ctx context.Context, questionID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&questionViewModel{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return 0, r.logError("forum_repo_count_views_failed", err, "question_id", questionID)
	}
	return int(count), nil
}

func (r *Repository) DeleteViewsByQuestion(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&questionViewModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_question_views_failed", err, "question_id", questionID)
	}
	return nil
}

func (r *Repository) DeleteViewsByViewer(ctx context.Context, viewerID string) error {
	if viewerID == "" {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("viewer_id = ?", viewerID).
		Delete(&questionViewModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_viewer_views_failed", err, "viewer_id", viewerID)
	}
	return nil
}

func (r *Repository) CreateFlag(ctx context.Context, flag entities.Flag) error {
	row := flagModelFromEntity(flag)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("forum_repo_create_flag_failed", err,
			"user_id", flag.UserID,
			"target_id", flag.TargetID,
		)
	}
	return nil
}

func (r *Repository) GetFlagByIdentity(
	ctx context.Context,
	userID string,
	targetType entities.TargetType,
	targetID string,
) (entities.Flag, bool, error) {
	var row flagModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, string(targetType), targetID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Flag{}, false, nil
		}
		return entities.Flag{}, false, r.logError("forum_repo_get_flag_by_identity_failed", err,
			"user_id", userID,
			"target_id", targetID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListFlags(ctx context.Context, filter entities.FlagFilter) ([]entities.Flag, error) {
	tx := r.db.WithContext(ctx).Model(&flagModel{})
	if filter.TargetType != "" {
		tx = tx.Where("target_type = ?", string(filter.TargetType))
	}
	if filter.TargetID != "" {
		tx = tx.Where("target_id = ?", filter.TargetID)
	}
	var rows []flagModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_flags_failed", err)
	}
	items := make([]entities.Flag, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteFlag(ctx context.Context, flagID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", flagID).Delete(&flagModel{})
	if result.Error != nil {
		return false, r.logError("forum_repo_delete_flag_failed", result.Error, "flag_id", flagID)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) DeleteFlagsByTargets(ctx context.Context, targetType entities.TargetType, targetIDs []string) error {
	if len(targetIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", string(targetType), targetIDs).
		Delete(&flagModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_target_flags_failed", err, "target_type", string(targetType))
	}
	return nil
}

func (r *Repository) DeleteFlagsByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&flagModel{}).Error; err != nil {
		return r.logError("forum_repo_delete_user_flags_failed", err, "user_id", userID)
	}
	return nil
}

func (r *Repository) CreateFAQ(ctx context.Context, faq entities.FAQ) error {
	row := faqModelFromEntity(faq)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("forum_repo_create_faq_failed", err, "faq_id", faq.FAQID)
	}
	return nil
}

func (r *Repository) GetFAQ(ctx context.Context, faqID string) (entities.FAQ, error) {
	var row faqModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(faqID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FAQ{}, domainerrors.ErrFAQNotFound
		}
		return entities.FAQ{}, r.logError("forum_repo_get_faq_failed", err, "faq_id", faqID)
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveFAQ(ctx context.Context, faq entities.FAQ) error {
	result := r.db.WithContext(ctx).
		Model(&faqModel{}).
		Where("id = ?", faq.FAQID).
		Updates(map[string]any{
			"question":   faq.Question,
			"answer":     faq.Answer,
			"category":   faq.Category,
			"updated_at": faq.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("forum_repo_save_faq_failed", result.Error, "faq_id", faq.FAQID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrFAQNotFound
	}
	return nil
}

func (r *Repository) ListFAQs(ctx context.Context) ([]entities.FAQ, error) {
	var rows []faqModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("forum_repo_list_faqs_failed", err)
	}
	items := make([]entities.FAQ, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteFAQ(ctx context.Context, faqID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", faqID).Delete(&faqModel{})
	if result.Error != nil {
		return false, r.logError("forum_repo_delete_faq_failed", result.Error, "faq_id", faqID)
	}
	return result.RowsAffected > 0, nil
}
