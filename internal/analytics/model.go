// Package analytics derives journal statistics from an in-memory snapshot of
// entries and collections. Nothing here performs I/O or mutates its inputs,
// and missing fields (nil mood, no tags, zero timestamps) count as absent.
package analytics

import "time"

// Mood is the typed mood attached to an entry. Emoji is optional.
type Mood struct {
	Emoji     string `json:"emoji,omitempty"`
	Label     string `json:"label"`
	Intensity int    `json:"intensity"`
}

type Entry struct {
	ID              uint64    `json:"id"`
	CollectionID    *uint64   `json:"collection_id"`
	CollectionTitle string    `json:"collection_title,omitempty"`
	Title           string    `json:"title"`
	Content         string    `json:"-"`
	PlainText       string    `json:"-"`
	Mood            *Mood     `json:"mood,omitempty"`
	Tags            []string  `json:"tags"`
	IsFavorite      bool      `json:"is_favorite"`
	CreatedAt       time.Time `json:"created_at"`
}

type Collection struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type DayBucket struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type IntensityPoint struct {
	Label     string `json:"label"`
	Intensity int    `json:"intensity"`
	Mood      string `json:"mood"`
}

type CollectionCount struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Value int    `json:"value"`
}

type MoodCount struct {
	Label string `json:"label"`
	Emoji string `json:"emoji,omitempty"`
	Count int    `json:"count"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

const (
	TopMoods     = 5
	TopRadar     = 6
	TopTagsLimit = 7

	WeeklyWindow    = 7
	IntensityWindow = 14

	RecentEntries        = 3
	DashboardCollections = 5
)

const dayLayout = "2006-01-02"
