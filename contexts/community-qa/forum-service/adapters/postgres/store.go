package postgresadapter

import (
	"context"
	"log/slog"

	"moringadesk/contexts/community-qa/forum-service/ports"

	"gorm.io/gorm"
)

// Store opens one database transaction per unit of work.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Do(ctx context.Context, fn func(repo ports.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx, s.logger))
	})
}

var _ ports.UnitOfWork = (*Store)(nil)
