package memory

import (
	"context"
	"sync"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
)

// ForumContent is a stand-in for the forum module. It records purge calls
// and serves fixed content counts.
type ForumContent struct {
	mu      sync.Mutex
	Stats   entities.ContentStats
	Purged  []string
	PurgeFn func(userID string) error
}

func (f *ForumContent) DeleteUserContent(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PurgeFn != nil {
		if err := f.PurgeFn(userID); err != nil {
			return err
		}
	}
	f.Purged = append(f.Purged, userID)
	return nil
}

func (f *ForumContent) ContentStats(_ context.Context) (entities.ContentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Stats, nil
}
