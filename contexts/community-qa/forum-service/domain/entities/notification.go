package entities

import "time"

type NotificationType string

const (
	NotificationVoteReceived   NotificationType = "vote_received"
	NotificationAnswerPosted   NotificationType = "answer_posted"
	NotificationAcceptedAnswer NotificationType = "accepted_answer"
)

// Notification payloads are opaque to storage.
type Notification struct {
	NotificationID string
	UserID         string
	Type           NotificationType
	Payload        map[string]any
	IsRead         bool
	CreatedAt      time.Time
}
