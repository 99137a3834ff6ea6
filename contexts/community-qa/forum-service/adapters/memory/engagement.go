package memory

import (
	"context"
	"sort"
	"strings"

	"moringadesk/contexts/community-qa/forum-service/domain/entities"
	domainerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
)

func (r *repository) GetFollow(_ context.Context, userID string, questionID string) (entities.Follow, bool, error) {
	follow, ok := r.state.follows[pairKey{userID, questionID}]
	return follow, ok, nil
}

func (r *repository) CreateFollow(_ context.Context, follow entities.Follow) error {
	key := pairKey{follow.UserID, follow.QuestionID}
	if _, ok := r.state.follows[key]; ok {
		return domainerrors.ErrConflict
	}
	r.state.touch(follow.FollowID)
	r.state.follows[key] = follow
	return nil
}

func (r *repository) DeleteFollow(_ context.Context, userID string, questionID string) error {
	key := pairKey{userID, questionID}
	if follow, ok := r.state.follows[key]; ok {
		r.state.forget(follow.FollowID)
	}
	delete(r.state.follows, key)
	return nil
}

func (r *repository) ListFollowedQuestions(_ context.Context, userID string) ([]entities.Question, error) {
	follows := make([]entities.Follow, 0)
	for key, follow := range r.state.follows {
		if key.left == userID {
			follows = append(follows, follow)
		}
	}
	sort.Slice(follows, func(i, j int) bool {
		return r.state.newer(follows[i].CreatedAt, follows[i].FollowID, follows[j].CreatedAt, follows[j].FollowID)
	})
	items := make([]entities.Question, 0, len(follows))
	for _, follow := range follows {
		if question, ok := r.state.questions[follow.QuestionID]; ok {
			items = append(items, question)
		}
	}
	return items, nil
}

func (r *repository) DeleteFollowsByQuestion(_ context.Context, questionID string) error {
	for key, follow := range r.state.follows {
		if key.right == questionID {
			delete(r.state.follows, key)
			r.state.forget(follow.FollowID)
		}
	}
	return nil
}

func (r *repository) DeleteFollowsByUser(_ context.Context, userID string) error {
	for key, follow := range r.state.follows {
		if key.left == userID {
			delete(r.state.follows, key)
			r.state.forget(follow.FollowID)
		}
	}
	return nil
}

func (r *repository) CreateTag(_ context.Context, tag entities.Tag) error {
	if _, ok := r.tagByName(tag.Name); ok {
		return domainerrors.ErrConflict
	}
	r.state.touch(tag.TagID)
	r.state.tags[tag.TagID] = tag
	return nil
}

func (r *repository) GetTag(_ context.Context, tagID string) (entities.Tag, error) {
	tag, ok := r.state.tags[strings.TrimSpace(tagID)]
	if !ok {
		return entities.Tag{}, domainerrors.ErrTagNotFound
	}
	return tag, nil
}

func (r *repository) GetTagByName(_ context.Context, name string) (entities.Tag, bool, error) {
	tag, ok := r.tagByName(entities.NormalizeTagName(name))
	return tag, ok, nil
}

func (r *repository) ListTagsWithUsage(_ context.Context) ([]entities.TagUsage, error) {
	usage := make(map[string]int, len(r.state.tags))
	for key := range r.state.questionTags {
		usage[key.right]++
	}
	items := make([]entities.TagUsage, 0, len(r.state.tags))
	for _, tag := range r.state.tags {
		items = append(items, entities.TagUsage{Tag: tag, UsageCount: usage[tag.TagID]})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *repository) AttachTag(_ context.Context, link entities.QuestionTag) error {
	key := pairKey{link.QuestionID, link.TagID}
	if _, ok := r.state.questionTags[key]; ok {
		return nil
	}
	r.state.questionTags[key] = link
	return nil
}

func (r *repository) ListTagsForQuestion(_ context.Context, questionID string) ([]entities.Tag, error) {
	items := make([]entities.Tag, 0)
	for key := range r.state.questionTags {
		if key.left != questionID {
			continue
		}
		if tag, ok := r.state.tags[key.right]; ok {
			items = append(items, tag)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *repository) DeleteQuestionTags(_ context.Context, questionID string) error {
	for key := range r.state.questionTags {
		if key.left == questionID {
			delete(r.state.questionTags, key)
		}
	}
	return nil
}

// LinkRelated stores both directions; existing rows are left untouched.
func (r *repository) LinkRelated(_ context.Context, link entities.RelatedQuestion) error {
	forward := pairKey{link.QuestionID, link.RelatedQuestionID}
	if _, ok := r.state.related[forward]; !ok {
		r.state.related[forward] = link
	}
	backward := pairKey{link.RelatedQuestionID, link.QuestionID}
	if _, ok := r.state.related[backward]; !ok {
		r.state.related[backward] = entities.RelatedQuestion{
			QuestionID:        link.RelatedQuestionID,
			RelatedQuestionID: link.QuestionID,
			CreatedAt:         link.CreatedAt,
		}
	}
	return nil
}

func (r *repository) ListRelatedQuestions(_ context.Context, questionID string) ([]entities.Question, error) {
	items := make([]entities.Question, 0)
	for key := range r.state.related {
		if key.left != questionID {
			continue
		}
		if question, ok := r.state.questions[key.right]; ok {
			items = append(items, question)
		}
	}
	r.sortQuestions(items)
	return items, nil
}

func (r *repository) DeleteRelatedLinks(_ context.Context, questionID string) error {
	for key := range r.state.related {
		if key.left == questionID || key.right == questionID {
			delete(r.state.related, key)
		}
	}
	return nil
}

func (r *repository) RecordView(_ context.Context, view entities.QuestionView) error {
	r.state.touch(view.ViewID)
	r.state.views[view.ViewID] = view
	return nil
}

func (r *repository) HasView(_ context.Context, questionID string, viewerID string, viewerSession string) (bool, error) {
	for _, view := range r.state.views {
		if view.QuestionID != questionID {
			continue
		}
		if viewerID != "" && view.ViewerID == viewerID {
			return true, nil
		}
		if viewerID == "" && viewerSession != "" && view.ViewerID == "" && view.ViewerSession == viewerSession {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) CountViews(_ context.Context, questionID string) (int, error) {
	count := 0
	for _, view := range r.state.views {
		if view.QuestionID == questionID {
			count++
		}
	}
	return count, nil
}

func (r *repository) DeleteViewsByQuestion(_ context.Context, questionID string) error {
	for id, view := range r.state.views {
		if view.QuestionID == questionID {
			delete(r.state.views, id)
			r.state.forget(view.ViewID)
		}
	}
	return nil
}

func (r *repository) DeleteViewsByViewer(_ context.Context, viewerID string) error {
	for id, view := range r.state.views {
		if view.ViewerID == viewerID {
			delete(r.state.views, id)
			r.state.forget(view.ViewID)
		}
	}
	return nil
}

func (r *repository) CreateFlag(_ context.Context, flag entities.Flag) error {
	key := voteKey{flag.UserID, flag.TargetType, flag.TargetID}
	if _, ok := r.state.flags[key]; ok {
		return domainerrors.ErrConflict
	}
	r.state.touch(flag.FlagID)
	r.state.flags[key] = flag
	return nil
}

func (r *repository) GetFlagByIdentity(
	_ context.Context,
	userID string,
	targetType entities.TargetType,
	targetID string,
) (entities.Flag, bool, error) {
	flag, ok := r.state.flags[voteKey{userID, targetType, targetID}]
	return flag, ok, nil
}

func (r *repository) ListFlags(_ context.Context, filter entities.FlagFilter) ([]entities.Flag, error) {
	items := make([]entities.Flag, 0)
	for _, flag := range r.state.flags {
		if filter.TargetType != "" && flag.TargetType != filter.TargetType {
			continue
		}
		if filter.TargetID != "" && flag.TargetID != filter.TargetID {
			continue
		}
		items = append(items, flag)
	}
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[i].CreatedAt, items[i].FlagID, items[j].CreatedAt, items[j].FlagID)
	})
	return items, nil
}

func (r *repository) DeleteFlag(_ context.Context, flagID string) (bool, error) {
	for key, flag := range r.state.flags {
		if flag.FlagID == flagID {
			delete(r.state.flags, key)
			r.state.forget(flagID)
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) DeleteFlagsByTargets(_ context.Context, targetType entities.TargetType, targetIDs []string) error {
	targets := toSet(targetIDs)
	for key, flag := range r.state.flags {
		if _, ok := targets[key.targetID]; ok && key.targetType == targetType {
			delete(r.state.flags, key)
			r.state.forget(flag.FlagID)
		}
	}
	return nil
}

func (r *repository) DeleteFlagsByUser(_ context.Context, userID string) error {
	for key, flag := range r.state.flags {
		if key.userID == userID {
			delete(r.state.flags, key)
			r.state.forget(flag.FlagID)
		}
	}
	return nil
}

func (r *repository) CreateFAQ(_ context.Context, faq entities.FAQ) error {
	r.state.touch(faq.FAQID)
	r.state.faqs[faq.FAQID] = faq
	return nil
}

func (r *repository) GetFAQ(_ context.Context, faqID string) (entities.FAQ, error) {
	faq, ok := r.state.faqs[strings.TrimSpace(faqID)]
	if !ok {
		return entities.FAQ{}, domainerrors.ErrFAQNotFound
	}
	return faq, nil
}

func (r *repository) SaveFAQ(_ context.Context, faq entities.FAQ) error {
	if _, ok := r.state.faqs[faq.FAQID]; !ok {
		return domainerrors.ErrFAQNotFound
	}
	r.state.faqs[faq.FAQID] = faq
	return nil
}

func (r *repository) ListFAQs(_ context.Context) ([]entities.FAQ, error) {
	items := make([]entities.FAQ, 0, len(r.state.faqs))
	for _, faq := range r.state.faqs {
		items = append(items, faq)
	}
	sort.Slice(items, func(i, j int) bool {
		return r.state.newer(items[i].CreatedAt, items[i].FAQID, items[j].CreatedAt, items[j].FAQID)
	})
	return items, nil
}

func (r *repository) DeleteFAQ(_ context.Context, faqID string) (bool, error) {
	if _, ok := r.state.faqs[faqID]; !ok {
		return false, nil
	}
	delete(r.state.faqs, faqID)
	r.state.forget(faqID)
	return true, nil
}
