package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository persists users and reset tokens through gorm.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("auth_repo_create_user_failed", err, "user_id", user.UserID)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(userID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, r.logError("auth_repo_get_user_failed", err, "user_id", userID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("email = ?", entities.NormalizeEmail(email)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, false, nil
		}
		return entities.User{}, false, r.logError("auth_repo_get_user_by_email_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveUser(ctx context.Context, user entities.User) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", user.UserID).
		Updates(map[string]any{
			"email":         user.Email,
			"full_name":     user.FullName,
			"password_hash": user.PasswordHash,
			"role":          string(user.Role),
			"updated_at":    user.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("auth_repo_save_user_failed", result.Error, "user_id", user.UserID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("auth_repo_list_users_failed", err)
	}
	users := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toEntity())
	}
	return users, nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&userModel{})
	if result.Error != nil {
		return false, r.logError("auth_repo_delete_user_failed", result.Error, "user_id", userID)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) CreateResetToken(ctx context.Context, token entities.ResetToken) error {
	row := resetTokenModel{
		ID:        token.TokenID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("auth_repo_create_reset_token_failed", err, "user_id", token.UserID)
	}
	return nil
}

func (r *Repository) GetResetTokenByHash(ctx context.Context, tokenHash string) (entities.ResetToken, bool, error) {
	var row resetTokenModel
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ResetToken{}, false, nil
		}
		return entities.ResetToken{}, false, r.logError("auth_repo_get_reset_token_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DeleteResetTokensByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&resetTokenModel{}).Error; err != nil {
		return r.logError("auth_repo_delete_reset_tokens_failed", err, "user_id", userID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := append([]any{
		"event", event,
		"module", "identity-access/auth-service",
		"layer", "adapter",
		"error", err.Error(),
	}, attrs...)
	r.logger.Error("auth repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Store opens one transaction per unit of work.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Do(ctx context.Context, fn func(repo ports.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx, s.logger))
	})
}

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.UnitOfWork = (*Store)(nil)
)
