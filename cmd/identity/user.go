package identity

import "time"

// User is the account record as the remote API reports it.
//
// The session core replaces it wholesale on every successful login, register,
// or startup verification; it is never mutated field by field.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	JoinedAt  time.Time `json:"date_joined"`
}

// DisplayName returns "{first} {last}" when both parts are present,
// otherwise the account username.
func (u User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Avatar returns the 2-character upper-cased abbreviation shown in place of
// a profile picture, derived from the username.
func (u User) Avatar() string {
	return AvatarInitials(u.Username)
}

// Profile is the extended per-user record served by /auth/profile/.
// It is cached locally for instant hydration only; a fresh fetch always wins.
type Profile struct {
	Bio                string     `json:"bio"`
	Location           string     `json:"location"`
	Website            string     `json:"website"`
	PreferredTone      string     `json:"preferred_tone"`
	EmailNotifications bool       `json:"email_notifications"`
	DailyReminders     bool       `json:"daily_reminders"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
