package journal

import (
	"time"

	"mindnest/internal/analytics"
)

// Collection groups a user's journal entries.
type Collection struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"index;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Color       string    `gorm:"not null;default:''"`
	Icon        string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// Journal is a single entry. Content is the rich-text blob, PlainText the
// derived text used for search and word counts.
type Journal struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"index;not null"`
	CollectionID *uint64   `gorm:"index"`
	Title        string    `gorm:"not null"`
	Content      string    `gorm:"type:text;not null;default:''"`
	PlainText    string    `gorm:"type:text;not null;default:''"`
	IsFavorite   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"index;not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Mood       *Mood       `gorm:"foreignKey:JournalID"`
	Tags       []Tag       `gorm:"foreignKey:JournalID"`
	Collection *Collection `gorm:"foreignKey:CollectionID"`
}

// Mood is at most one per journal.
type Mood struct {
	ID        uint64    `gorm:"primaryKey"`
	JournalID uint64    `gorm:"uniqueIndex;not null"`
	Emoji     string    `gorm:"not null;default:''"`
	Label     string    `gorm:"not null"`
	Intensity int       `gorm:"not null;default:3"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Mood) TableName() string { return "journal_moods" }

// Tag is one row per tag string per journal.
type Tag struct {
	ID        uint64    `gorm:"primaryKey"`
	JournalID uint64    `gorm:"index;not null"`
	UserID    uint64    `gorm:"index;not null"`
	Tag       string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Tag) TableName() string { return "journal_tags" }

func (j Journal) TagNames() []string {
	out := make([]string, 0, len(j.Tags))
	for _, t := range j.Tags {
		out = append(out, t.Tag)
	}
	return out
}

// Entry converts a loaded journal into the aggregator's input.
func (j Journal) Entry() analytics.Entry {
	e := analytics.Entry{
		ID:           j.ID,
		CollectionID: j.CollectionID,
		Title:        j.Title,
		Content:      j.Content,
		PlainText:    j.PlainText,
		Tags:         j.TagNames(),
		IsFavorite:   j.IsFavorite,
		CreatedAt:    j.CreatedAt,
	}
	if j.Collection != nil {
		e.CollectionTitle = j.Collection.Title
	}
	if j.Mood != nil {
		e.Mood = &analytics.Mood{Emoji: j.Mood.Emoji, Label: j.Mood.Label, Intensity: j.Mood.Intensity}
	}
	return e
}

func (c Collection) Summary() analytics.Collection {
	return analytics.Collection{ID: c.ID, Title: c.Title, Color: c.Color, Icon: c.Icon}
}
