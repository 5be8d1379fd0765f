package domain

import "time"

// User is an authenticated account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID              uint      `json:"id" db:"id"`
	Phone           string    `json:"phone" db:"phone"`
	Password        string    `json:"-" db:"password"`
	Nickname        string    `json:"nickname" db:"nickname"`
	Gender          int       `json:"gender" db:"gender"`
	Age             int       `json:"age" db:"age"`
	City            string    `json:"city" db:"city"`
	Occupation      string    `json:"occupation" db:"occupation"`
	Bio             string    `json:"bio" db:"bio"`
	Avatar          string    `json:"avatar" db:"avatar"`
	Verified        bool      `json:"verified" db:"verified"`
	IsOnline        bool      `json:"is_online" db:"is_online"`
	IsAI            bool      `json:"is_ai" db:"is_ai"`
	AIScore         int       `json:"ai_score" db:"ai_score"`
	ProfileComplete int       `json:"profile_complete" db:"profile_complete"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Session is a stored credential: the SHA-256 hash of an issued token plus
// its owner and expiry. Created on login, deleted on logout.
type Session struct {
	Token      string    `json:"token"`
	UserID     uint      `json:"user_id"`
	DeviceInfo string    `json:"device_info,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the session credential has lapsed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
