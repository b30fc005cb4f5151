package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "prefs.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&Preference{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return &Store{DB: gdb}
}

func TestSetGetDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, 1, KeyTheme); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if _, err := s.Set(ctx, 1, KeyTheme, "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	p, err := s.Set(ctx, 1, KeyTheme, "light")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if p.Value != "light" {
		t.Errorf("Expected upsert to overwrite, got %q", p.Value)
	}

	if _, err := s.Set(ctx, 2, KeyTheme, "dark"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	mine, _ := s.Get(ctx, 1, KeyTheme)
	if mine.Value != "light" {
		t.Errorf("Expected per-user isolation, got %q", mine.Value)
	}

	s.Set(ctx, 1, KeyFavoritePrompts, `[{"id":3}]`)
	list, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != KeyFavoritePrompts {
		t.Errorf("Expected two prefs sorted by key, got %+v", list)
	}

	if err := s.Delete(ctx, 1, KeyTheme); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, 1, KeyTheme); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "Has Space", "UPPER", strings.Repeat("k", 65)} {
		if _, err := s.Set(ctx, 1, key, "v"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestValueTooLarge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Set(ctx, 1, "big", strings.Repeat("x", maxValueLen+1))
	if !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("Expected ErrValueTooLarge, got %v", err)
	}
	if errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected a valid key not to be reported as invalid: %v", err)
	}
	if _, err := s.Set(ctx, 1, "big", strings.Repeat("x", maxValueLen)); err != nil {
		t.Errorf("Expected value at the limit to be stored, got %v", err)
	}
}
