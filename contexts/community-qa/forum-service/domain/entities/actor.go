package entities

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Actor is the resolved caller of a forum operation. The module never parses
// credentials itself.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.UserID) != ""
}

// Normalized returns the actor with surrounding whitespace stripped from its
// id. Commands that key storage rows by the actor call it once up front.
func (a Actor) Normalized() Actor {
	a.UserID = strings.TrimSpace(a.UserID)
	return a
}
