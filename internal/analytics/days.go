package analytics

import (
	"sort"
	"time"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayKey returns the calendar day of t in loc, or "" for a zero time.
func dayKey(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dayLayout)
}

func activeDays(entries []Entry, loc *time.Location) map[string]int {
	days := make(map[string]int)
	for _, e := range entries {
		if k := dayKey(e.CreatedAt, loc); k != "" {
			days[k]++
		}
	}
	return days
}

// Streak counts consecutive calendar days with at least one entry.
//
// Grace-day rule: when today has no entry the walk starts from yesterday,
// so a missed today only breaks the streak once a full day is skipped.
func Streak(entries []Entry, now time.Time) int {
	loc := now.Location()
	days := activeDays(entries, loc)
	if len(days) == 0 {
		return 0
	}

	d := startOfDay(now)
	if days[d.Format(dayLayout)] == 0 {
		d = d.AddDate(0, 0, -1)
	}

	streak := 0
	for days[d.Format(dayLayout)] > 0 {
		streak++
		d = d.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak is the longest run of consecutive active days ever.
func LongestStreak(entries []Entry, loc *time.Location) int {
	days := activeDays(entries, loc)
	if len(days) == 0 {
		return 0
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	longest, current := 1, 1
	for i := 1; i < len(keys); i++ {
		prev, err := time.ParseInLocation(dayLayout, keys[i-1], loc)
		if err != nil {
			current = 1
			continue
		}
		if prev.AddDate(0, 0, 1).Format(dayLayout) == keys[i] {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// Activity buckets entries into the trailing window of days ending today,
// oldest first. Every day gets a bucket, including empty ones.
func Activity(entries []Entry, now time.Time, days int) []DayBucket {
	if days <= 0 {
		return []DayBucket{}
	}
	counts := activeDays(entries, now.Location())
	today := startOfDay(now)

	out := make([]DayBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(dayLayout)
		out = append(out, DayBucket{
			Label: d.Format("Mon"),
			Date:  key,
			Count: counts[key],
		})
	}
	return out
}

// EntriesThisWeek counts entries created since Sunday 00:00 of the week
// containing now.
func EntriesThisWeek(entries []Entry, now time.Time) int {
	today := startOfDay(now)
	start := today.AddDate(0, 0, -int(today.Weekday()))

	n := 0
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		if !e.CreatedAt.Before(start) {
			n++
		}
	}
	return n
}

// IntensityTimeline returns the mood intensity of the last n entries in
// chronological order. Entries without a mood report 0 / "Neutral".
func IntensityTimeline(entries []Entry, n int, loc *time.Location) []IntensityPoint {
	dated := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.CreatedAt.IsZero() {
			dated = append(dated, e)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].CreatedAt.Before(dated[j].CreatedAt)
	})
	if n >= 0 && len(dated) > n {
		dated = dated[len(dated)-n:]
	}

	out := make([]IntensityPoint, 0, len(dated))
	for _, e := range dated {
		p := IntensityPoint{
			Label: e.CreatedAt.In(loc).Format("Jan 2"),
			Mood:  "Neutral",
		}
		if m, ok := normalizeMood(e.Mood); ok {
			p.Intensity = m.Intensity
			p.Mood = m.Label
		}
		out = append(out, p)
	}
	return out
}
