package events

import "time"

const (
	TypeUserCreated = "USER_CREATED"
	TypeUserDeleted = "USER_DELETED"
)

// UserEvent is the payload written to the user-events topic. It is an
// integration contract for external consumers, not a domain entity; the
// service never reads it back.
type UserEvent struct {
	EventType string    `json:"event_type"`
	Email     string    `json:"email"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserEvent(eventType, email, userName string) UserEvent {
	return UserEvent{
		EventType: eventType,
		Email:     email,
		UserName:  userName,
		Timestamp: time.Now().UTC(),
	}
}
