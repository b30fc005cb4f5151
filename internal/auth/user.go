package auth

import "time"

type User struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `gorm:"not null;default:''" json:"full_name"`
	AvatarURL    string     `gorm:"not null;default:''" json:"avatar_url"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}

// Session backs one issued token. Revoking it signs the token out.
type Session struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	UserID    uint64     `gorm:"index;not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null"`
}
