package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateQuestionRequest struct {
	Title    string `json:"title" validate:"required,min=10,max=200"`
	Body     string `json:"body" validate:"required,min=20"`
	Category string `json:"category" validate:"max=100"`
	Stage    string `json:"stage" validate:"max=100"`
}

type UpdateQuestionRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=10,max=200"`
	Body     *string `json:"body,omitempty" validate:"omitempty,min=20"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Stage    *string `json:"stage,omitempty" validate:"omitempty,max=100"`
}

type ListQuestionsRequest struct {
	Category string
	Stage    string
	Tag      string
	Search   string
	Limit    int
	Offset   int
}

type QuestionResponse struct {
	ID               string    `json:"id"`
	AuthorID         string    `json:"author_id"`
	AuthorName       string    `json:"author_name"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	Category         string    `json:"category"`
	Stage            string    `json:"stage"`
	AcceptedAnswerID *string   `json:"accepted_answer_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type QuestionSummaryResponse struct {
	QuestionResponse
	AnswersCount int `json:"answers_count"`
	ViewsCount   int `json:"views_count"`
	VoteScore    int `json:"vote_score"`
}

type QuestionDetailResponse struct {
	QuestionResponse
	Tags       []TagResponse    `json:"tags"`
	Answers    []AnswerResponse `json:"answers"`
	VoteScore  int              `json:"vote_score"`
	ViewsCount int              `json:"views_count"`
}

type CreateAnswerRequest struct {
	Body string `json:"body" validate:"required,min=20"`
}

type UpdateAnswerRequest struct {
	Body string `json:"body" validate:"required,min=5"`
}

type AnswerResponse struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AuthorID   string    `json:"author_id"`
	Body       string    `json:"body"`
	IsAccepted bool      `json:"is_accepted"`
	VoteScore  int       `json:"vote_score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type AcceptAnswerResponse struct {
	QuestionID       string `json:"question_id"`
	AcceptedAnswerID string `json:"accepted_answer_id"`
	PreviousAnswerID string `json:"previous_answer_id,omitempty"`
	Changed          bool   `json:"changed"`
}

// CastVoteRequest leaves target_type unchecked here so an unknown type
// reaches the vote ledger and fails there.
type CastVoteRequest struct {
	TargetType string `json:"target_type" validate:"required"`
	TargetID   string `json:"target_id" validate:"required"`
	Value      int    `json:"value" validate:"oneof=-1 1"`
}

type VoteResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Value      int       `json:"value"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ScoreResponse struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Score      int    `json:"score"`
}

type FollowResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	QuestionID string    `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagUsageResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
}

type AttachTagsRequest struct {
	TagIDs []string `json:"tag_ids" validate:"required,min=1,dive,required"`
}

type LinkRelatedRequest struct {
	RelatedQuestionIDs []string `json:"related_question_ids" validate:"required,min=1,dive,required"`
}

type CreateFlagRequest struct {
	TargetType string `json:"target_type" validate:"required"`
	TargetID   string `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,min=5,max=300"`
}

type FlagResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,min=5"`
	Answer   string `json:"answer" validate:"required,min=5"`
	Category string `json:"category" validate:"max=100"`
}

type UpdateFAQRequest struct {
	Question *string `json:"question,omitempty" validate:"omitempty,min=5"`
	Answer   *string `json:"answer,omitempty" validate:"omitempty,min=5"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
}

type FAQResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}
