package queries

import "moringadesk/contexts/community-qa/forum-service/domain/entities"

type QuestionSummary struct {
	Question     entities.Question
	AnswersCount int
	ViewsCount   int
	VoteScore    int
}

type AnswerView struct {
	Answer    entities.Answer
	VoteScore int
}

type QuestionDetail struct {
	Question   entities.Question
	Tags       []entities.Tag
	Answers    []AnswerView
	VoteScore  int
	ViewsCount int
}

// Viewer identifies who is reading a question. Either field may be empty;
// nothing is recorded when both are.
type Viewer struct {
	UserID    string
	SessionID string
}

type Score struct {
	TargetType entities.TargetType
	TargetID   string
	Score      int
}
