package notification

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo:
		return true
	default:
		return false
	}
}

// Notification is one queued outcome message for a user.
type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Title     string
	Message   string
	Source    string
	CreatedAt time.Time
	ReadAt    *time.Time
}

func (n Notification) Unread() bool {
	return n.ReadAt == nil
}
