package prompts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "prompts.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&Prompt{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func TestDefaultSeed(t *testing.T) {
	list, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(list) != 10 {
		t.Errorf("Expected 10 built-in prompts, got %d", len(list))
	}
	for _, p := range list {
		if p.Text == "" || p.Category == "" || p.Mood == "" {
			t.Errorf("Incomplete prompt %+v", p)
		}
	}
}

func TestParseSeedErrors(t *testing.T) {
	if _, err := ParseSeed([]byte("[[prompt]\ntext=")); err == nil {
		t.Errorf("Expected error for malformed TOML")
	}
	if _, err := ParseSeed([]byte("[[prompt]]\ncategory = \"x\"\n")); err == nil {
		t.Errorf("Expected error for prompt without text")
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.toml")
	data := "[[prompt]]\ntext = \" Custom \"\nmood = \"Happy\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	list, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(list) != 1 || list[0].Text != "Custom" {
		t.Errorf("Unexpected prompts %+v", list)
	}

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	list, _ := LoadSeed("")
	added, err := Seed(ctx, gdb, list, now)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != len(list) {
		t.Errorf("Expected %d added, got %d", len(list), added)
	}

	added, err = Seed(ctx, gdb, list, now)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != 0 {
		t.Errorf("Expected reseed to add nothing, got %d", added)
	}

	svc := &Service{DB: gdb}
	all, err := svc.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != len(list) || all[0].Text != list[0].Text {
		t.Errorf("Expected file order preserved newest first, got %q", all[0].Text)
	}
}

func TestFilter(t *testing.T) {
	all := []Prompt{
		{ID: 1, Text: "Morning pages", Category: "Routine", Mood: "Neutral"},
		{ID: 2, Text: "A letter", Category: "Relationships", Mood: "Sad"},
		{ID: 3, Text: "Big goals", Category: "Growth", Mood: "ambitious"},
		{ID: 4, Text: "  ", Category: "Empty", Mood: "Sad"},
	}

	cases := []struct {
		name    string
		q, mood string
		want    []uint64
	}{
		{"all", "", "All", []uint64{1, 2, 3}},
		{"text match", "PAGES", "", []uint64{1}},
		{"category match", "relation", "", []uint64{2}},
		{"mood ignores case", "", "Ambitious", []uint64{3}},
		{"query and mood", "a", "Sad", []uint64{2}},
		{"no match", "zzz", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(all, tc.q, tc.mood)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %v, got %d prompts", tc.want, len(got))
			}
			for i, p := range got {
				if p.ID != tc.want[i] {
					t.Errorf("Expected id %d at %d, got %d", tc.want[i], i, p.ID)
				}
			}
		})
	}
}

func TestDaily(t *testing.T) {
	all := []Prompt{{ID: 1}, {ID: 2}, {ID: 3}}

	p, err := Pick(all, time.Date(2024, 5, 7, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if p.ID != 2 {
		t.Errorf("Expected day 7 to pick index 1, got id %d", p.ID)
	}

	if _, err := Pick(nil, time.Now()); !errors.Is(err, ErrNoPrompts) {
		t.Errorf("Expected ErrNoPrompts, got %v", err)
	}

	svc := &Service{DB: setupTestDB(t)}
	if _, err := svc.Daily(context.Background(), time.Now()); !errors.Is(err, ErrNoPrompts) {
		t.Errorf("Expected ErrNoPrompts on empty table, got %v", err)
	}
}
