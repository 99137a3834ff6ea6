package postgresadapter

import (
	"encoding/json"
	"time"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"

	"gorm.io/datatypes"
)

type questionModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	AuthorID         string    `gorm:"column:author_id;index"`
	Title            string    `gorm:"column:title;size:200"`
	Body             string    `gorm:"column:body"`
	Category         string    `gorm:"column:category;index"`
	Stage            string    `gorm:"column:stage;index"`
	AcceptedAnswerID *string   `gorm:"column:accepted_answer_id"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (questionModel) TableName() string {
	return "questions"
}

func questionModelFromEntity(question entities.Question) questionModel {
	row := questionModel{
		ID:        question.QuestionID,
		AuthorID:  question.AuthorID,
		Title:     question.Title,
		Body:      question.Body,
		Category:  question.Category,
		Stage:     question.Stage,
		CreatedAt: question.CreatedAt.UTC(),
		UpdatedAt: question.UpdatedAt.UTC(),
	}
	if question.AcceptedAnswerID != "" {
		accepted := question.AcceptedAnswerID
		row.AcceptedAnswerID = &accepted
	}
	return row
}

func (m questionModel) toEntity() entities.Question {
	accepted := ""
	if m.AcceptedAnswerID != nil {
		accepted = *m.AcceptedAnswerID
	}
	return entities.Question{
		QuestionID:       m.ID,
		AuthorID:         m.AuthorID,
		Title:            m.Title,
		Body:             m.Body,
		Category:         m.Category,
		Stage:            m.Stage,
		AcceptedAnswerID: accepted,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type answerModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	QuestionID string    `gorm:"column:question_id;index"`
	AuthorID   string    `gorm:"column:author_id;index"`
	Body       string    `gorm:"column:body"`
	IsAccepted bool      `gorm:"column:is_accepted"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (answerModel) TableName() string {
	return "answers"
}

func answerModelFromEntity(answer entities.Answer) answerModel {
	return answerModel{
		ID:         answer.AnswerID,
		QuestionID: answer.QuestionID,
		AuthorID:   answer.AuthorID,
		Body:       answer.Body,
		IsAccepted: answer.IsAccepted,
		CreatedAt:  answer.CreatedAt.UTC(),
		UpdatedAt:  answer.UpdatedAt.UTC(),
	}
}

func (m answerModel) toEntity() entities.Answer {
	return entities.Answer{
		AnswerID:   m.ID,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		IsAccepted: m.IsAccepted,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// voteModel carries the uniqueness backstop for the upsert.
type voteModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;uniqueIndex:idx_votes_identity"`
	TargetType string    `gorm:"column:target_type;uniqueIndex:idx_votes_identity;index:idx_votes_target"`
	TargetID   string    `gorm:"column:target_id;uniqueIndex:idx_votes_identity;index:idx_votes_target"`
	Value      int       `gorm:"column:value"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ID:         vote.VoteID,
		UserID:     vote.UserID,
		TargetType: string(vote.TargetType),
		TargetID:   vote.TargetID,
		Value:      vote.Value,
		CreatedAt:  vote.CreatedAt.UTC(),
		UpdatedAt:  vote.UpdatedAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		UserID:     m.UserID,
		TargetType: entities.TargetType(m.TargetType),
		TargetID:   m.TargetID,
		Value:      m.Value,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type notificationModel struct {
	ID        string         `gorm:"column:id;primaryKey"`
	UserID    string         `gorm:"column:user_id;index"`
	Type      string         `gorm:"column:type"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	IsRead    bool           `gorm:"column:is_read"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) (notificationModel, error) {
	payload := notification.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return notificationModel{}, err
	}
	return notificationModel{
		ID:        notification.NotificationID,
		UserID:    notification.UserID,
		Type:      string(notification.Type),
		Payload:   datatypes.JSON(raw),
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.UTC(),
	}, nil
}

func (m notificationModel) toEntity() entities.Notification {
	payload := map[string]any{}
	if len(m.Payload) > 0 {
		_ = json.Unmarshal(m.Payload, &payload)
	}
	return entities.Notification{
		NotificationID: m.ID,
		UserID:         m.UserID,
		Type:           entities.NotificationType(m.Type),
		Payload:        payload,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type followModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;uniqueIndex:idx_follows_identity"`
	QuestionID string    `gorm:"column:question_id;uniqueIndex:idx_follows_identity;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (followModel) TableName() string {
	return "follows"
}

func (m followModel) toEntity() entities.Follow {
	return entities.Follow{
		FollowID:   m.ID,
		UserID:     m.UserID,
		QuestionID: m.QuestionID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type tagModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:50;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (tagModel) TableName() string {
	return "tags"
}

func (m tagModel) toEntity() entities.Tag {
	return entities.Tag{TagID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt.UTC()}
}

type tagUsageRow struct {
	ID         string    `gorm:"column:id"`
	Name       string    `gorm:"column:name"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UsageCount int       `gorm:"column:usage_count"`
}

type questionTagModel struct {
	QuestionID string    `gorm:"column:question_id;primaryKey"`
	TagID      string    `gorm:"column:tag_id;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (questionTagModel) TableName() string {
	return "question_tags"
}

type relatedQuestionModel struct {
	QuestionID        string    `gorm:"column:question_id;primaryKey"`
	RelatedQuestionID string    `gorm:"column:related_question_id;primaryKey"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (relatedQuestionModel) TableName() string {
	return "related_questions"
}

type questionViewModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	QuestionID    string    `gorm:"column:question_id;index"`
	ViewerID      string    `gorm:"column:viewer_id;index"`
	ViewerSession string    `gorm:"column:viewer_session"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (questionViewModel) TableName() string {
	return "question_views"
}

type flagModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;uniqueIndex:idx_flags_identity"`
	TargetType string    `gorm:"column:target_type;uniqueIndex:idx_flags_identity"`
	TargetID   string    `gorm:"column:target_id;uniqueIndex:idx_flags_identity"`
	Reason     string    `gorm:"column:reason;size:300"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (flagModel) TableName() string {
	return "flags"
}

func flagModelFromEntity(flag entities.Flag) flagModel {
	return flagModel{
		ID:         flag.FlagID,
		UserID:     flag.UserID,
		TargetType: string(flag.TargetType),
		TargetID:   flag.TargetID,
		Reason:     flag.Reason,
		CreatedAt:  flag.CreatedAt.UTC(),
	}
}

func (m flagModel) toEntity() entities.Flag {
	return entities.Flag{
		FlagID:     m.ID,
		UserID:     m.UserID,
		TargetType: entities.TargetType(m.TargetType),
		TargetID:   m.TargetID,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type faqModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Question  string    `gorm:"column:question"`
	Answer    string    `gorm:"column:answer"`
	Category  string    `gorm:"column:category"`
	CreatedBy string    `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (faqModel) TableName() string {
	return "faqs"
}

func faqModelFromEntity(faq entities.FAQ) faqModel {
	return faqModel{
		ID:        faq.FAQID,
		Question:  faq.Question,
		Answer:    faq.Answer,
		Category:  faq.Category,
		CreatedBy: faq.CreatedBy,
		CreatedAt: faq.CreatedAt.UTC(),
		UpdatedAt: faq.UpdatedAt.UTC(),
	}
}

func (m faqModel) toEntity() entities.FAQ {
	return entities.FAQ{
		FAQID:     m.ID,
		Question:  m.Question,
		Answer:    m.Answer,
		Category:  m.Category,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func toQuestionEntities(rows []questionModel) []entities.Question {
	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func toAnswerEntities(rows []answerModel) []entities.Answer {
	items := make([]entities.Answer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}
