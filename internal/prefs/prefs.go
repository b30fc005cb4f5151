package prefs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("preference not found")
	ErrInvalidKey = errors.New("invalid preference key")

	ErrValueTooLarge = errors.New("preference value too large")
)

// Well-known keys.
const (
	KeyFavoritePrompts = "favorite_prompts"
	KeyTheme           = "theme"
)

const maxValueLen = 64 << 10

var keyRe = regexp.MustCompile(`^[a-z0-9_.-]{1,64}$`)

// Preference is one (user, key) entry. Values are opaque strings, usually
// JSON written by the client.
type Preference struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_preferences_user_key" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:uq_preferences_user_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Store struct {
	DB *gorm.DB
}

func validKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func (s *Store) List(ctx context.Context, userID uint64) ([]Preference, error) {
	var out []Preference
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&out).Error
	return out, err
}

func (s *Store) Get(ctx context.Context, userID uint64, key string) (Preference, error) {
	if err := validKey(key); err != nil {
		return Preference{}, err
	}
	var p Preference
	err := s.DB.WithContext(ctx).Where("user_id = ? AND name = ?", userID, key).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Preference{}, ErrNotFound
	}
	return p, err
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, userID uint64, key, value string) (Preference, error) {
	if err := validKey(key); err != nil {
		return Preference{}, err
	}
	if len(value) > maxValueLen {
		return Preference{}, fmt.Errorf("%w: %d bytes, max %d", ErrValueTooLarge, len(value), maxValueLen)
	}

	p := Preference{UserID: userID, Name: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return Preference{}, err
	}
	return s.Get(ctx, userID, key)
}

func (s *Store) Delete(ctx context.Context, userID uint64, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("user_id = ? AND name = ?", userID, key).Delete(&Preference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
