package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindnest/internal/analytics"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTooManyTags        = errors.New("too many tags")
	ErrCollectionNotFound = errors.New("collection not found")
)

const (
	MaxTags          = 5
	DefaultIntensity = 3
)

// RefreshEnqueuer schedules recomputation of a user's derived statistics.
// It runs inside the caller's transaction.
type RefreshEnqueuer interface {
	EnqueueStatsRefresh(tx *gorm.DB, userID uint64) error
}

type Service struct {
	DB      *gorm.DB
	Refresh RefreshEnqueuer

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) enqueueRefresh(tx *gorm.DB, userID uint64) error {
	if s.Refresh == nil {
		return nil
	}
	if err := s.Refresh.EnqueueStatsRefresh(tx, userID); err != nil {
		return fmt.Errorf("enqueue stats refresh: %w", err)
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// MoodInput accepts either typed emoji/label fields or a legacy combined
// "emoji label" string.
type MoodInput struct {
	Emoji     string
	Label     string
	Combined  string
	Intensity int
}

func (m MoodInput) normalize() (Mood, error) {
	emoji := strings.TrimSpace(m.Emoji)
	label := strings.TrimSpace(m.Label)
	if label == "" && strings.TrimSpace(m.Combined) != "" {
		emoji, label = analytics.ParseMood(m.Combined)
		label = strings.TrimSpace(label)
	}
	if label == "" {
		return Mood{}, invalid("mood label required")
	}

	intensity := m.Intensity
	if intensity == 0 {
		intensity = DefaultIntensity
	}
	if intensity < 1 || intensity > 5 {
		return Mood{}, invalid("mood intensity must be 1-5")
	}
	return Mood{Emoji: emoji, Label: label, Intensity: intensity}, nil
}

// normalizeTags trims, drops empties and exact duplicates, and enforces
// MaxTags. Case is kept as entered.
func normalizeTags(tags []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) > MaxTags {
		return nil, ErrTooManyTags
	}
	return out, nil
}

// Snapshot loads everything the aggregator needs for one user.
func (s *Service) Snapshot(ctx context.Context, userID uint64) ([]analytics.Entry, []analytics.Collection, error) {
	journals, err := s.ListJournals(ctx, userID, Filter{})
	if err != nil {
		return nil, nil, err
	}
	collections, err := s.ListCollections(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]analytics.Entry, 0, len(journals))
	for _, j := range journals {
		entries = append(entries, j.Entry())
	}
	cols := make([]analytics.Collection, 0, len(collections))
	for _, c := range collections {
		cols = append(cols, c.Summary())
	}
	return entries, cols, nil
}

// Counts returns how many journals and collections the user owns.
func (s *Service) Counts(ctx context.Context, userID uint64) (journals, collections int64, err error) {
	if err = s.DB.WithContext(ctx).Model(&Journal{}).Where("user_id = ?", userID).Count(&journals).Error; err != nil {
		return 0, 0, err
	}
	if err = s.DB.WithContext(ctx).Model(&Collection{}).Where("user_id = ?", userID).Count(&collections).Error; err != nil {
		return 0, 0, err
	}
	return journals, collections, nil
}
