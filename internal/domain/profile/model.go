package profile

import "time"

// Profile is the upstream account of the current user.
type Profile struct {
	UserID      string
	Username    string
	DisplayName string
	Email       string
	AvatarURL   string
	LoadedAt    time.Time
}

func (p Profile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
