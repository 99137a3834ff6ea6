package entities

import (
	"strings"
	"time"
)

type Follow struct {
	FollowID   string
	UserID     string
	QuestionID string
	CreatedAt  time.Time
}

type Tag struct {
	TagID     string
	Name      string
	CreatedAt time.Time
}

type TagUsage struct {
	Tag
	UsageCount int
}

type QuestionTag struct {
	QuestionID string
	TagID      string
	CreatedAt  time.Time
}

// RelatedQuestion links are stored in both directions.
type RelatedQuestion struct {
	QuestionID        string
	RelatedQuestionID string
	CreatedAt         time.Time
}

type QuestionView struct {
	ViewID        string
	QuestionID    string
	ViewerID      string
	ViewerSession string
	CreatedAt     time.Time
}

type Flag struct {
	FlagID     string
	UserID     string
	TargetType TargetType
	TargetID   string
	Reason     string
	CreatedAt  time.Time
}

type FlagFilter struct {
	TargetType TargetType
	TargetID   string
}

type FAQ struct {
	FAQID     string
	Question  string
	Answer    string
	Category  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorStats counts authored content per user id.
type AuthorStats struct {
	Questions map[string]int
	Answers   map[string]int
}

func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
