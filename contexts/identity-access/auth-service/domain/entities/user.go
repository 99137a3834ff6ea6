package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

type User struct {
	UserID       string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is what a verified bearer token resolves to.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// UserSummary is a user row enriched with authored content counts.
type UserSummary struct {
	User           User
	QuestionsCount int
	AnswersCount   int
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
