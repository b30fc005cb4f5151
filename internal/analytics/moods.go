package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf16"
)

// ParseMood splits a legacy combined mood string such as "😊 Happy".
// The first space-delimited token is taken as the emoji when there is more
// than one token and it is at most 4 UTF-16 code units long; otherwise the
// whole string is the label.
func ParseMood(s string) (emoji, label string) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, " ")
	if len(parts) > 1 && len(utf16.Encode([]rune(parts[0]))) <= 4 {
		return parts[0], strings.TrimSpace(strings.Join(parts[1:], " "))
	}
	return "", s
}

// LegacyMood builds a typed Mood from a combined "emoji label" string.
func LegacyMood(combined string, intensity int) *Mood {
	emoji, label := ParseMood(combined)
	return &Mood{Emoji: emoji, Label: label, Intensity: intensity}
}

// normalizeMood reports false for absent moods.
func normalizeMood(m *Mood) (Mood, bool) {
	if m == nil {
		return Mood{}, false
	}
	out := *m
	out.Label = strings.TrimSpace(out.Label)
	if out.Label == "" {
		return Mood{}, false
	}
	return out, true
}

// counter counts keys and remembers first-seen order for stable ties.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns keys by descending count, ties in first-seen order.
// k < 0 means no limit.
func (c *counter) ranked(k int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if k >= 0 && len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

func moodCounts(entries []Entry) (*counter, map[string]string) {
	c := newCounter()
	emojis := make(map[string]string)
	for _, e := range entries {
		m, ok := normalizeMood(e.Mood)
		if !ok {
			continue
		}
		if _, seen := emojis[m.Label]; !seen {
			emojis[m.Label] = m.Emoji
		}
		c.add(m.Label)
	}
	return c, emojis
}

// MoodDistribution groups entries by mood label and returns the k most
// frequent, highest count first.
func MoodDistribution(entries []Entry, k int) []MoodCount {
	c, emojis := moodCounts(entries)
	keys := c.ranked(k)

	out := make([]MoodCount, 0, len(keys))
	for _, label := range keys {
		out = append(out, MoodCount{Label: label, Emoji: emojis[label], Count: c.counts[label]})
	}
	return out
}

type CollectionMoods struct {
	Name  string         `json:"name"`
	Moods map[string]int `json:"moods"`
}

type MoodInsights struct {
	Distribution []MoodCount       `json:"distribution"`
	Top          []MoodCount       `json:"top"`
	Radar        []MoodCount       `json:"radar"`
	ByCollection []CollectionMoods `json:"by_collection"`
	Intensity    []IntensityPoint  `json:"intensity"`
	TotalEntries int               `json:"total_entries"`
	MoodEntries  int               `json:"mood_entries"`
	AvgIntensity float64           `json:"avg_intensity"`
}

const uncategorized = "Uncategorized"

func BuildMoodInsights(entries []Entry, loc *time.Location) MoodInsights {
	all := MoodDistribution(entries, -1)

	top := all
	if len(top) > TopMoods {
		top = top[:TopMoods]
	}
	radar := all
	if len(radar) > TopRadar {
		radar = radar[:TopRadar]
	}

	var (
		byCollection []CollectionMoods
		index        = make(map[string]int)
		withMood     int
		intensitySum int
	)
	for _, e := range entries {
		m, ok := normalizeMood(e.Mood)
		if !ok {
			continue
		}
		withMood++
		intensitySum += m.Intensity

		name := e.CollectionTitle
		if name == "" {
			name = uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(byCollection)
			index[name] = i
			byCollection = append(byCollection, CollectionMoods{Name: name, Moods: map[string]int{}})
		}
		byCollection[i].Moods[m.Label]++
	}

	avg := 0.0
	if withMood > 0 {
		avg = math.Round(float64(intensitySum)/float64(withMood)*10) / 10
	}
	if byCollection == nil {
		byCollection = []CollectionMoods{}
	}

	return MoodInsights{
		Distribution: all,
		Top:          top,
		Radar:        radar,
		ByCollection: byCollection,
		Intensity:    IntensityTimeline(entries, IntensityWindow, loc),
		TotalEntries: len(entries),
		MoodEntries:  withMood,
		AvgIntensity: avg,
	}
}
