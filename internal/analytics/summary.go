package analytics

import (
	"sort"
	"strings"
	"time"
)

// TopTags lower-cases every tag, counts occurrences across entries and
// returns the k most frequent.
func TopTags(entries []Entry, k int) []TagCount {
	c := newCounter()
	for _, e := range entries {
		for _, t := range e.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			c.add(t)
		}
	}

	keys := c.ranked(k)
	out := make([]TagCount, 0, len(keys))
	for _, t := range keys {
		out = append(out, TagCount{Tag: t, Count: c.counts[t]})
	}
	return out
}

// CollectionDistribution counts entries per collection in the order the
// collections are given. Collections without entries are left out.
func CollectionDistribution(entries []Entry, collections []Collection) []CollectionCount {
	counts := make(map[uint64]int)
	for _, e := range entries {
		if e.CollectionID != nil {
			counts[*e.CollectionID]++
		}
	}

	out := []CollectionCount{}
	for _, c := range collections {
		n := counts[c.ID]
		if n == 0 {
			continue
		}
		out = append(out, CollectionCount{ID: c.ID, Name: c.Title, Color: c.Color, Value: n})
	}
	return out
}

func FavoriteCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsFavorite {
			n++
		}
	}
	return n
}

type Summary struct {
	TotalJournals  int               `json:"total_journals"`
	FavoritesCount int               `json:"favorites_count"`
	TotalWords     int               `json:"total_words"`
	CurrentStreak  int               `json:"current_streak"`
	LongestStreak  int               `json:"longest_streak"`
	Activity       []DayBucket       `json:"activity"`
	Collections    []CollectionCount `json:"collections"`
	Moods          []MoodCount       `json:"moods"`
	Tags           []TagCount        `json:"tags"`
}

// Summarize computes the analytics page view. now fixes both "today" and
// the time zone used for calendar days.
func Summarize(entries []Entry, collections []Collection, now time.Time) Summary {
	return Summary{
		TotalJournals:  len(entries),
		FavoritesCount: FavoriteCount(entries),
		TotalWords:     TotalWords(entries),
		CurrentStreak:  Streak(entries, now),
		LongestStreak:  LongestStreak(entries, now.Location()),
		Activity:       Activity(entries, now, WeeklyWindow),
		Collections:    CollectionDistribution(entries, collections),
		Moods:          MoodDistribution(entries, TopMoods),
		Tags:           TopTags(entries, TopTagsLimit),
	}
}

type Dashboard struct {
	Weekly      int          `json:"weekly"`
	Streak      int          `json:"streak"`
	Total       int          `json:"total"`
	Recent      []Entry      `json:"recent"`
	Collections []Collection `json:"collections"`
}

func BuildDashboard(entries []Entry, collections []Collection, now time.Time) Dashboard {
	recent := make([]Entry, len(entries))
	copy(recent, entries)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > RecentEntries {
		recent = recent[:RecentEntries]
	}

	cols := append([]Collection{}, collections...)
	if len(cols) > DashboardCollections {
		cols = cols[:DashboardCollections]
	}

	return Dashboard{
		Weekly:      EntriesThisWeek(entries, now),
		Streak:      Streak(entries, now),
		Total:       len(entries),
		Recent:      recent,
		Collections: cols,
	}
}
