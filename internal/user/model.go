package user

import "time"

// User represents a member of the site directory
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	Banned    bool       `json:"banned"`
	IconTime  *time.Time `json:"icon_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsBanned reports whether the user has been banned from the site
func (u *User) IsBanned() bool {
	return u != nil && u.Banned
}

// HasUploadedIcon reports whether a profile icon was ever uploaded
func (u *User) HasUploadedIcon() bool {
	return u != nil && u.IconTime != nil && !u.IconTime.IsZero()
}

// DisplayName falls back to the username when no name is set
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
