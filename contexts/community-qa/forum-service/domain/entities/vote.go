package entities

import "time"

type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

func (t TargetType) Valid() bool {
	return t == TargetQuestion || t == TargetAnswer
}

// Vote is unique per (UserID, TargetType, TargetID); a second vote overwrites
// Value and keeps VoteID.
type Vote struct {
	VoteID     string
	UserID     string
	TargetType TargetType
	TargetID   string
	Value      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ValidVoteValue(value int) bool {
	return value == 1 || value == -1
}

// Target is the resolved owner view of a vote or flag target.
type Target struct {
	Type       TargetType
	ID         string
	AuthorID   string
	QuestionID string
}
