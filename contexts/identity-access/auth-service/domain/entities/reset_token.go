package entities

import "time"

// ResetToken stores only the SHA-256 hash of the token handed to the user.
type ResetToken struct {
	TokenID   string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// AccessToken is a signed bearer credential.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// ContentStats counts authored forum content per user id.
type ContentStats struct {
	Questions map[string]int
	Answers   map[string]int
}
