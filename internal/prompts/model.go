package prompts

import "time"

// Prompt is a writing prompt shared by all users.
type Prompt struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null;uniqueIndex" json:"text"`
	Category  string    `gorm:"not null;default:''" json:"category"`
	Mood      string    `gorm:"not null;default:''" json:"mood"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
