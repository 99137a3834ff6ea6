package bootstrap

import (
	"context"

	forumservice "moringadesk/contexts/community-qa/forum-service"
	authentities "moringadesk/contexts/identity-access/auth-service/domain/entities"
)

// ForumContentBridge lets the auth module purge and count forum content
// without importing the forum context.
type ForumContentBridge struct {
	Forum forumservice.Module
}

func (b ForumContentBridge) DeleteUserContent(ctx context.Context, userID string) error {
	return b.Forum.Handler.Moderation.DeleteUserContent(ctx, userID)
}

func (b ForumContentBridge) ContentStats(ctx context.Context) (authentities.ContentStats, error) {
	stats, err := b.Forum.Handler.Community.AuthorStats(ctx)
	if err != nil {
		return authentities.ContentStats{}, err
	}
	return authentities.ContentStats{
		Questions: stats.Questions,
		Answers:   stats.Answers,
	}, nil
}
