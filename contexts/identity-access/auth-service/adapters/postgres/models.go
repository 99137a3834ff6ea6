package postgresadapter

import (
	"time"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"

	"gorm.io/gorm"
)

type userModel struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_users_email"`
	FullName     string    `gorm:"column:full_name;size:255;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Role         string    `gorm:"column:role;size:50;not null;default:student"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:       m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		Role:         entities.Role(m.Role),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func userModelFromEntity(user entities.User) userModel {
	return userModel{
		ID:           user.UserID,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

type resetTokenModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	TokenHash string    `gorm:"column:token_hash;size:64;not null;uniqueIndex:idx_password_reset_tokens_hash"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (resetTokenModel) TableName() string {
	return "password_reset_tokens"
}

func (m resetTokenModel) toEntity() entities.ResetToken {
	return entities.ResetToken{
		TokenID:   m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt.UTC(),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// Migrate creates or updates the account tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &resetTokenModel{})
}
