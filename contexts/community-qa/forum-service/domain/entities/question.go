package entities

import "time"

type Question struct {
	QuestionID       string
	AuthorID         string
	Title            string
	Body             string
	Category         string
	Stage            string
	AcceptedAnswerID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (q Question) HasAcceptedAnswer() bool {
	return q.AcceptedAnswerID != ""
}

type Answer struct {
	AnswerID   string
	QuestionID string
	AuthorID   string
	Body       string
	IsAccepted bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuestionFilter narrows question listings. Zero values mean "no filter".
type QuestionFilter struct {
	Category string
	Stage    string
	Tag      string
	Search   string
	AuthorID string
	Limit    int
	Offset   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (f QuestionFilter) Normalized() QuestionFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Tag != "" {
		f.Tag = NormalizeTagName(f.Tag)
	}
	return f
}
