package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	"moringadesk/contexts/community-qa/forum-service/ports"

	"github.com/google/uuid"
)

type voteKey struct {
	userID     string
	targetType entities.TargetType
	targetID   string
}

type pairKey struct {
	left  string
	right string
}

type state struct {
	seq   int64
	order map[string]int64

	questions     map[string]entities.Question
	answers       map[string]entities.Answer
	votes         map[voteKey]entities.Vote
	notifications map[string]entities.Notification
	follows       map[pairKey]entities.Follow
	tags          map[string]entities.Tag
	questionTags  map[pairKey]entities.QuestionTag
	related       map[pairKey]entities.RelatedQuestion
	views         map[string]entities.QuestionView
	flags         map[voteKey]entities.Flag
	faqs          map[string]entities.FAQ
}

func newState() *state {
	return &state{
		order:         make(map[string]int64),
		questions:     make(map[string]entities.Question),
		answers:       make(map[string]entities.Answer),
		votes:         make(map[voteKey]entities.Vote),
		notifications: make(map[string]entities.Notification),
		follows:       make(map[pairKey]entities.Follow),
		tags:          make(map[string]entities.Tag),
		questionTags:  make(map[pairKey]entities.QuestionTag),
		related:       make(map[pairKey]entities.RelatedQuestion),
		views:         make(map[string]entities.QuestionView),
		flags:         make(map[voteKey]entities.Flag),
		faqs:          make(map[string]entities.FAQ),
	}
}

func (s *state) clone() *state {
	return &state{
		seq:           s.seq,
		order:         maps.Clone(s.order),
		questions:     maps.Clone(s.questions),
		answers:       maps.Clone(s.answers),
		votes:         maps.Clone(s.votes),
		notifications: maps.Clone(s.notifications),
		follows:       maps.Clone(s.follows),
		tags:          maps.Clone(s.tags),
		questionTags:  maps.Clone(s.questionTags),
		related:       maps.Clone(s.related),
		views:         maps.Clone(s.views),
		flags:         maps.Clone(s.flags),
		faqs:          maps.Clone(s.faqs),
	}
}

// forget drops the insertion rank of a deleted row.
func (s *state) forget(id string) {
	delete(s.order, id)
}

func (s *state) touch(id string) {
	if _, ok := s.order[id]; ok {
		return
	}
	s.seq++
	s.order[id] = s.seq
}

// newer orders by creation time, then by insertion order.
func (s *state) newer(aTime time.Time, aID string, bTime time.Time, bID string) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return s.order[aID] > s.order[bID]
}

// Store is the in-memory persistence used by tests and local runs. Units of
// work are serialised by a single mutex and rolled back by restoring a
// snapshot taken before fn ran.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) Do(_ context.Context, fn func(repo ports.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&repository{state: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// VoteRows counts stored votes for a (user, target) identity.
func (s *Store) VoteRows(userID string, targetType entities.TargetType, targetID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.data.votes {
		if key.userID == userID && key.targetType == targetType && key.targetID == targetID {
			count++
		}
	}
	return count
}

// Counts reports row totals per table, for cascade assertions.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"questions":         len(s.data.questions),
		"answers":           len(s.data.answers),
		"votes":             len(s.data.votes),
		"notifications":     len(s.data.notifications),
		"follows":           len(s.data.follows),
		"tags":              len(s.data.tags),
		"question_tags":     len(s.data.questionTags),
		"related_questions": len(s.data.related),
		"question_views":    len(s.data.views),
		"flags":             len(s.data.flags),
		"faqs":              len(s.data.faqs),
		"order":             len(s.data.order),
	}
}

type repository struct {
	state *state
}

var _ ports.Repository = (*repository)(nil)

func (r *repository) CreateQuestion(_ context.Context, question entities.Question) error {
	if _, ok := r.state.questions[question.QuestionID]; ok {
		return domainerrors.ErrConflict
	}
	r.state.touch(question.QuestionID)
	r.state.questions[question.QuestionID] = question
	return nil
}

func (r *repository) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	question, ok := r.state.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (r *repository) SaveQuestion(_ context.Context, question entities.Question) error {
	if _, ok := r.state.questions[question.QuestionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	r.state.questions[question.QuestionID] = question
	return nil
}

func (r *repository) ListQuestions(_ context.Context, filter entities.QuestionFilter) ([]entities.Question, error) {
	filter = filter.Normalized()
	var tagID string
	if filter.Tag != "" {
		tag, ok := r.tagByName(filter.Tag)
		if !ok {
			return []entities.Question{}, nil
		}
		tagID = tag.TagID
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	items := make([]entities.Question, 0)
	for _, question := range r.state.questions {
		if filter.Category != "" && question.Category != filter.Category {
			continue
		}
		if filter.Stage != "" && question.Stage != filter.Stage {
			continue
		}
		if filter.AuthorID != "" && question.AuthorID != filter.AuthorID {
			continue
		}
		if tagID != "" {
			if _, ok := r.state.questionTags[pairKey{question.QuestionID, tagID}]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(question.Title), search) &&
			!strings.Contains(strings.ToLower(question.Body), search) {
			continue
		}
		items = append(items, question)
	}
	r.sortQuestions(items)
	return page(items, filter.Offset, filter.Limit), nil
}

func (r *repository) SearchQuestionsByTitle(_ context.Context, title string, limit int) ([]entities.Question, error) {
	term := strings.ToLower(strings.TrimSpace(title))
	items := make([]entities.Question, 0)
	for _, question := range r.state.questions {
		if strings.Contains(strings.ToLower(question.Title), term) {
			items = append(items, question)
		}
	}
	r.sortQuestions(items)
	return page(items, 0, limit), nil
}

func (r *repository) ListQuestionIDsByAuthor(_ context.Context, authorID string) ([]string, error) {
	ids := make([]string, 0)
	for _, question := range r.state.questions {
		if question.AuthorID == authorID {
			ids = append(ids, question.QuestionID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *repository) DeleteQuestion(_ context.Context, questionID string) error {
	delete(r.state.questions, questionID)
	r.state.forget(questionID)
	return nil
}

func (r *repository) CreateAnswer(_ context.Context, answer entities.Answer) error {
	if _, ok := r.state.questions[answer.QuestionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	if _, ok := r.state.answers[answer.AnswerID]; ok {
		return domainerrors.ErrConflict
	}
	r.state.touch(answer.AnswerID)
	r.state.answers[answer.AnswerID] = answer
	return nil
}

func (r *repository) GetAnswer(_ context.Context, answerID string) (entities.Answer, error) {
	answer, ok := r.state.answers[strings.TrimSpace(answerID)]
	if !ok {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}
	return answer, nil
}

func (r *repository) SaveAnswer(_ context.Context, answer entities.Answer) error {
	if _, ok := r.state.answers[answer.AnswerID]; !ok {
		return domainerrors.ErrAnswerNotFound
	}
	r.state.answers[answer.AnswerID] = answer
	return nil
}

func (r *repository) ListAnswersByQuestion(_ context.Context, questionID string) ([]entities.Answer, error) {
	items := make([]entities.Answer, 0)
	for _, answer := range r.state.answers {
		if answer.QuestionID == questionID {
			items = append(items, answer)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[j].CreatedAt, items[j].AnswerID, items[i].CreatedAt, items[i].AnswerID)
	})
	return items, nil
}

func (r *repository) ListAnswersByAuthor(_ context.Context, authorID string) ([]entities.Answer, error) {
	items := make([]entities.Answer, 0)
	for _, answer := range r.state.answers {
		if answer.AuthorID == authorID {
			items = append(items, answer)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[i].CreatedAt, items[i].AnswerID, items[j].CreatedAt, items[j].AnswerID)
	})
	return items, nil
}

func (r *repository) ListAnswerIDsByQuestion(_ context.Context, questionID string) ([]string, error) {
	ids := make([]string, 0)
	for _, answer := range r.state.answers {
		if answer.QuestionID == questionID {
			ids = append(ids, answer.AnswerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *repository) ListAnswerIDsByAuthor(_ context.Context, authorID string) ([]string, error) {
	ids := make([]string, 0)
	for _, answer := range r.state.answers {
		if answer.AuthorID == authorID {
			ids = append(ids, answer.AnswerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *repository) CountAnswers(_ context.Context, questionID string) (int, error) {
	count := 0
	for _, answer := range r.state.answers {
		if answer.QuestionID == questionID {
			count++
		}
	}
	return count, nil
}

func (r *repository) DeleteAnswers(_ context.Context, answerIDs []string) error {
	for _, answerID := range answerIDs {
		delete(r.state.answers, answerID)
		r.state.forget(answerID)
	}
	return nil
}

func (r *repository) AuthorStats(_ context.Context) (entities.AuthorStats, error) {
	stats := entities.AuthorStats{
		Questions: make(map[string]int),
		Answers:   make(map[string]int),
	}
	for _, question := range r.state.questions {
		stats.Questions[question.AuthorID]++
	}
	for _, answer := range r.state.answers {
		stats.Answers[answer.AuthorID]++
	}
	return stats, nil
}

func (r *repository) GetVoteByIdentity(
	_ context.Context,
	userID string,
	targetType entities.TargetType,
	targetID string,
) (entities.Vote, bool, error) {
	vote, ok := r.state.votes[voteKey{userID, targetType, targetID}]
	return vote, ok, nil
}

// SaveVote inserts or overwrites by (user, target). A new vote id for an
// existing identity is a uniqueness violation.
func (r *repository) SaveVote(_ context.Context, vote entities.Vote) error {
	key := voteKey{vote.UserID, vote.TargetType, vote.TargetID}
	if existing, ok := r.state.votes[key]; ok && existing.VoteID != vote.VoteID {
		return domainerrors.ErrConflict
	}
	r.state.touch(vote.VoteID)
	r.state.votes[key] = vote
	return nil
}

func (r *repository) SumVotes(_ context.Context, targetType entities.TargetType, targetID string) (int, error) {
	total := 0
	for key, vote := range r.state.votes {
		if key.targetType == targetType && key.targetID == targetID {
			total += vote.Value
		}
	}
	return total, nil
}

func (r *repository) DeleteVotesByTargets(_ context.Context, targetType entities.TargetType, targetIDs []string) error {
	targets := toSet(targetIDs)
	for key, vote := range r.state.votes {
		if _, ok := targets[key.targetID]; ok && key.targetType == targetType {
			delete(r.state.votes, key)
			r.state.forget(vote.VoteID)
		}
	}
	return nil
}

func (r *repository) DeleteVotesByUser(_ context.Context, userID string) error {
	for key, vote := range r.state.votes {
		if key.userID == userID {
			delete(r.state.votes, key)
			r.state.forget(vote.VoteID)
		}
	}
	return nil
}

func (r *repository) CreateNotification(_ context.Context, notification entities.Notification) error {
	r.state.touch(notification.NotificationID)
	r.state.notifications[notification.NotificationID] = notification
	return nil
}

func (r *repository) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]entities.Notification, error) {
	items := make([]entities.Notification, 0)
	for _, notification := range r.state.notifications {
		if notification.UserID != userID || (unreadOnly && notification.IsRead) {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[i].CreatedAt, items[i].NotificationID, items[j].CreatedAt, items[j].NotificationID)
	})
	return items, nil
}

func (r *repository) MarkAllRead(_ context.Context, userID string) (int, error) {
	updated := 0
	for id, notification := range r.state.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			r.state.notifications[id] = notification
			updated++
		}
	}
	return updated, nil
}

func (r *repository) DeleteNotificationsByUser(_ context.Context, userID string) error {
	for id, notification := range r.state.notifications {
		if notification.UserID == userID {
			delete(r.state.notifications, id)
			r.state.forget(notification.NotificationID)
		}
	}
	return nil
}

func (r *repository) tagByName(name string) (entities.Tag, bool) {
	for _, tag := range r.state.tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return entities.Tag{}, false
}

func (r *repository) sortQuestions(items []entities.Question) {
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[i].CreatedAt, items[i].QuestionID, items[j].CreatedAt, items[j].QuestionID)
	})
}

func page[T any](items []T, offset int, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
