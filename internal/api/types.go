// Package api holds the JSON bodies exchanged between the HTTP handlers
// and the Go client.
package api

import (
	"encoding/json"
	"time"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type Profile struct {
	ID           uint64     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	AvatarURL    string     `json:"avatar_url"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	CreatedAt    time.Time  `json:"created_at"`
	Journals     int64      `json:"journals"`
	Collections  int64      `json:"collections"`
}

type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type Collection struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	EntryCount  int64     `json:"entry_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CollectionInput is used for create and partial update.
type CollectionInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type Mood struct {
	Emoji     string `json:"emoji"`
	Label     string `json:"label"`
	Intensity int    `json:"intensity"`
}

// MoodInput accepts typed fields or the legacy combined "mood" string
// ("😊 Happy").
type MoodInput struct {
	Emoji     string `json:"emoji,omitempty"`
	Label     string `json:"label,omitempty"`
	Mood      string `json:"mood,omitempty"`
	Intensity int    `json:"intensity,omitempty"`
}

type CollectionRef struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Journal struct {
	ID           uint64         `json:"id"`
	CollectionID *uint64        `json:"collection_id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	PlainText    string         `json:"plain_text"`
	IsFavorite   bool           `json:"is_favorite"`
	Mood         *Mood          `json:"mood"`
	Tags         []string       `json:"tags"`
	Collection   *CollectionRef `json:"collection"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type JournalInput struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	PlainText    *string    `json:"plain_text,omitempty"`
	CollectionID *uint64    `json:"collection_id,omitempty"`
	Mood         *MoodInput `json:"mood,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// JournalUpdate is a partial update. collection_id 0 detaches the entry.
type JournalUpdate struct {
	Title        *string    `json:"title,omitempty"`
	Content      *string    `json:"content,omitempty"`
	PlainText    *string    `json:"plain_text,omitempty"`
	CollectionID *uint64    `json:"collection_id,omitempty"`
	Mood         *MoodInput `json:"mood,omitempty"`
	ClearMood    bool       `json:"clear_mood,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	IsFavorite   *bool      `json:"is_favorite,omitempty"`
}

type Snapshot struct {
	ComputedAt    time.Time       `json:"computed_at"`
	Pending       bool            `json:"pending"`
	Streak        int             `json:"streak"`
	LongestStreak int             `json:"longest_streak"`
	TotalJournals int             `json:"total_journals"`
	TotalWords    int             `json:"total_words"`
	TopTags       []string        `json:"top_tags"`
	Summary       json.RawMessage `json:"summary"`
}

type Reflection struct {
	Text string `json:"text"`
}

type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PreferenceValue struct {
	Value string `json:"value"`
}
