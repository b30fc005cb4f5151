package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingEnqueuer struct {
	users []uint64
}

func (r *recordingEnqueuer) EnqueueStatsRefresh(tx *gorm.DB, userID uint64) error {
	r.users = append(r.users, userID)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "journal.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&Collection{}, &Journal{}, &Mood{}, &Tag{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

// newService returns a service whose clock advances one minute per call.
func newService(t *testing.T) (*Service, *recordingEnqueuer) {
	rec := &recordingEnqueuer{}
	clock := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &Service{
		DB:      setupTestDB(t),
		Refresh: rec,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	return svc, rec
}

func strp(s string) *string { return &s }

func TestCreateJournal(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	col, err := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("Work"), Color: strp("#ff0000")})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}

	j, err := svc.CreateJournal(ctx, 1, JournalInput{
		Title:        "  Monday  ",
		Content:      "<p>Hello <b>brave</b> world</p>",
		CollectionID: &col.ID,
		Mood:         &MoodInput{Combined: "😊 Happy", Intensity: 4},
		Tags:         []string{"work", " work ", "Focus", ""},
	})
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if j.Title != "Monday" {
		t.Errorf("Expected trimmed title, got %q", j.Title)
	}
	if j.PlainText != "Hello brave world" {
		t.Errorf("Expected derived plain text, got %q", j.PlainText)
	}
	if j.Mood == nil || j.Mood.Emoji != "😊" || j.Mood.Label != "Happy" || j.Mood.Intensity != 4 {
		t.Errorf("Unexpected mood %+v", j.Mood)
	}
	if got := j.TagNames(); len(got) != 2 || got[0] != "work" || got[1] != "Focus" {
		t.Errorf("Unexpected tags %v", got)
	}
	if j.Collection == nil || j.Collection.Title != "Work" {
		t.Errorf("Expected collection to be preloaded, got %+v", j.Collection)
	}
	if len(rec.users) != 1 || rec.users[0] != 1 {
		t.Errorf("Expected one refresh for user 1, got %v", rec.users)
	}
}

func TestCreateJournalValidation(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateJournal(ctx, 1, JournalInput{Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := svc.CreateJournal(ctx, 1, JournalInput{
		Title: "t",
		Tags:  []string{"a", "b", "c", "d", "e", "f"},
	}); !errors.Is(err, ErrTooManyTags) {
		t.Errorf("Expected ErrTooManyTags, got %v", err)
	}
	if _, err := svc.CreateJournal(ctx, 1, JournalInput{
		Title: "t",
		Mood:  &MoodInput{Label: "Calm", Intensity: 9},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for intensity, got %v", err)
	}

	other, err := svc.CreateCollection(ctx, 2, CollectionInput{Title: strp("Theirs")})
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if _, err := svc.CreateJournal(ctx, 1, JournalInput{Title: "t", CollectionID: &other.ID}); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("Expected ErrCollectionNotFound, got %v", err)
	}

	if len(rec.users) != 0 {
		t.Errorf("Expected no refresh for rejected writes, got %v", rec.users)
	}
}

func TestDefaultIntensity(t *testing.T) {
	svc, _ := newService(t)

	j, err := svc.CreateJournal(context.Background(), 1, JournalInput{
		Title: "t",
		Mood:  &MoodInput{Emoji: "😌", Label: "Calm"},
	})
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}
	if j.Mood == nil || j.Mood.Intensity != DefaultIntensity {
		t.Errorf("Expected default intensity, got %+v", j.Mood)
	}
}

func TestMoodInputNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           MoodInput
		emoji, label string
	}{
		{"typed", MoodInput{Emoji: " 😊 ", Label: " Happy "}, "😊", "Happy"},
		{"combined", MoodInput{Combined: "😊 Happy"}, "😊", "Happy"},
		{"combined extra spaces", MoodInput{Combined: "😊  Happy"}, "😊", "Happy"},
		{"label only", MoodInput{Combined: "Feeling great"}, "", "Feeling great"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.in.normalize()
			if err != nil {
				t.Fatalf("normalize failed: %v", err)
			}
			if m.Emoji != tt.emoji || m.Label != tt.label {
				t.Errorf("Got (%q, %q), want (%q, %q)", m.Emoji, m.Label, tt.emoji, tt.label)
			}
		})
	}
}

func TestUpdateJournal(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	col, _ := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("Home")})
	j, err := svc.CreateJournal(ctx, 1, JournalInput{
		Title:        "draft",
		Content:      "one two",
		CollectionID: &col.ID,
		Mood:         &MoodInput{Label: "Sad", Intensity: 2},
		Tags:         []string{"a"},
	})
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	detach := uint64(0)
	tags := []string{"b", "c"}
	updated, err := svc.UpdateJournal(ctx, 1, j.ID, JournalUpdate{
		Content:      strp("<p>one two three</p>"),
		CollectionID: &detach,
		Mood:         &MoodInput{Label: "Glad", Intensity: 5},
		Tags:         &tags,
	})
	if err != nil {
		t.Fatalf("UpdateJournal failed: %v", err)
	}

	if updated.Title != "draft" {
		t.Errorf("Expected title to be unchanged, got %q", updated.Title)
	}
	if updated.PlainText != "one two three" {
		t.Errorf("Expected refreshed plain text, got %q", updated.PlainText)
	}
	if updated.CollectionID != nil {
		t.Errorf("Expected collection to be detached, got %v", *updated.CollectionID)
	}
	if updated.Mood == nil || updated.Mood.Label != "Glad" {
		t.Errorf("Expected replaced mood, got %+v", updated.Mood)
	}
	if got := updated.TagNames(); len(got) != 2 || got[0] != "b" {
		t.Errorf("Expected replaced tags, got %v", got)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("Expected updated_at to advance")
	}

	cleared, err := svc.UpdateJournal(ctx, 1, j.ID, JournalUpdate{ClearMood: true})
	if err != nil {
		t.Fatalf("UpdateJournal failed: %v", err)
	}
	if cleared.Mood != nil {
		t.Errorf("Expected mood to be cleared, got %+v", cleared.Mood)
	}

	if _, err := svc.UpdateJournal(ctx, 2, j.ID, JournalUpdate{Title: strp("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user, got %v", err)
	}
}

func TestDeleteJournal(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	j, err := svc.CreateJournal(ctx, 1, JournalInput{Title: "t", Tags: []string{"x"}, Mood: &MoodInput{Label: "Ok"}})
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if err := svc.DeleteJournal(ctx, 2, j.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user, got %v", err)
	}
	if err := svc.DeleteJournal(ctx, 1, j.ID); err != nil {
		t.Fatalf("DeleteJournal failed: %v", err)
	}
	if _, err := svc.GetJournal(ctx, 1, j.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	var tags, moods int64
	svc.DB.Model(&Tag{}).Count(&tags)
	svc.DB.Model(&Mood{}).Count(&moods)
	if tags != 0 || moods != 0 {
		t.Errorf("Expected children removed, got tags=%d moods=%d", tags, moods)
	}
	if len(rec.users) != 2 {
		t.Errorf("Expected refresh on create and delete, got %v", rec.users)
	}
}

func TestToggleFavorite(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	j, _ := svc.CreateJournal(ctx, 1, JournalInput{Title: "t"})

	on, err := svc.ToggleFavorite(ctx, 1, j.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !on.IsFavorite {
		t.Errorf("Expected favorite after first toggle")
	}
	off, err := svc.ToggleFavorite(ctx, 1, j.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if off.IsFavorite {
		t.Errorf("Expected not favorite after second toggle")
	}
	if _, err := svc.ToggleFavorite(ctx, 1, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListJournalsFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	col, _ := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("Ideas")})
	first, _ := svc.CreateJournal(ctx, 1, JournalInput{Title: "Garden plans", Content: "tomatoes", Tags: []string{"Home"}})
	second, _ := svc.CreateJournal(ctx, 1, JournalInput{Title: "Sprint", Content: "ship it", CollectionID: &col.ID})
	svc.CreateJournal(ctx, 2, JournalInput{Title: "Garden of someone else"})
	svc.ToggleFavorite(ctx, 1, second.ID)

	all, err := svc.ListJournals(ctx, 1, Filter{})
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("Expected newest first for user 1, got %d entries", len(all))
	}

	fav := true
	cases := []struct {
		name   string
		filter Filter
		want   uint64
	}{
		{"collection", Filter{CollectionID: &col.ID}, second.ID},
		{"favorite", Filter{Favorite: &fav}, second.ID},
		{"tag case-insensitive", Filter{Tag: "home"}, first.ID},
		{"query title", Filter{Query: "GARDEN"}, first.ID},
		{"query body", Filter{Query: "ship"}, second.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ListJournals(ctx, 1, tc.filter)
			if err != nil {
				t.Fatalf("ListJournals failed: %v", err)
			}
			if len(got) != 1 || got[0].ID != tc.want {
				t.Errorf("Expected only %d, got %d entries", tc.want, len(got))
			}
		})
	}

	limited, _ := svc.ListJournals(ctx, 1, Filter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(limited))
	}
}

func TestCollections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateCollection(ctx, 1, CollectionInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	a, _ := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("A")})
	b, _ := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("B")})

	list, err := svc.ListCollections(ctx, 1)
	if err != nil {
		t.Fatalf("ListCollections failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != b.ID {
		t.Errorf("Expected newest collection first, got %+v", list)
	}

	renamed, err := svc.UpdateCollection(ctx, 1, a.ID, CollectionInput{Title: strp("Alpha"), Icon: strp("📓")})
	if err != nil {
		t.Fatalf("UpdateCollection failed: %v", err)
	}
	if renamed.Title != "Alpha" || renamed.Icon != "📓" {
		t.Errorf("Unexpected collection %+v", renamed)
	}
	if _, err := svc.UpdateCollection(ctx, 2, a.ID, CollectionInput{Title: strp("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user, got %v", err)
	}

	j, _ := svc.CreateJournal(ctx, 1, JournalInput{Title: "t", CollectionID: &a.ID})
	svc.CreateJournal(ctx, 1, JournalInput{Title: "u", CollectionID: &a.ID})

	counts, err := svc.EntryCounts(ctx, 1)
	if err != nil {
		t.Fatalf("EntryCounts failed: %v", err)
	}
	if counts[a.ID] != 2 || counts[b.ID] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}

	if err := svc.DeleteCollection(ctx, 1, a.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}
	got, err := svc.GetJournal(ctx, 1, j.ID)
	if err != nil {
		t.Fatalf("Expected journal to survive collection delete: %v", err)
	}
	if got.CollectionID != nil || got.Collection != nil {
		t.Errorf("Expected journal to be detached, got %+v", got.CollectionID)
	}

	journals, collections, err := svc.Counts(ctx, 1)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if journals != 2 || collections != 1 {
		t.Errorf("Expected 2 journals and 1 collection, got %d %d", journals, collections)
	}
}

func TestSnapshot(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	col, _ := svc.CreateCollection(ctx, 1, CollectionInput{Title: strp("Travel"), Color: strp("#00f")})
	svc.CreateJournal(ctx, 1, JournalInput{
		Title:        "Trip",
		Content:      "<p>sun and sea</p>",
		CollectionID: &col.ID,
		Mood:         &MoodInput{Emoji: "🌞", Label: "Sunny"},
		Tags:         []string{"beach"},
	})

	entries, cols, err := svc.Snapshot(ctx, 1)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(entries) != 1 || len(cols) != 1 {
		t.Fatalf("Expected one entry and collection, got %d %d", len(entries), len(cols))
	}
	e := entries[0]
	if e.CollectionTitle != "Travel" || e.Mood == nil || e.Mood.Label != "Sunny" || e.PlainText != "sun and sea" {
		t.Errorf("Unexpected entry %+v", e)
	}
	if len(e.Tags) != 1 || e.Tags[0] != "beach" {
		t.Errorf("Unexpected tags %v", e.Tags)
	}
	if cols[0].Color != "#00f" {
		t.Errorf("Unexpected collection %+v", cols[0])
	}
}
