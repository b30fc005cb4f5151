package prompts

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrNoPrompts = errors.New("no prompts")

type Service struct {
	DB *gorm.DB
}

// List returns prompts newest first. q matches text or category, mood
// matches exactly; both ignore case and "All" means any mood.
func (s *Service) List(ctx context.Context, q, mood string) ([]Prompt, error) {
	var all []Prompt
	if err := s.DB.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Find(&all).Error; err != nil {
		return nil, err
	}
	return Filter(all, q, mood), nil
}

func Filter(all []Prompt, q, mood string) []Prompt {
	q = strings.ToLower(strings.TrimSpace(q))
	mood = strings.TrimSpace(mood)
	anyMood := mood == "" || strings.EqualFold(mood, "All")

	out := make([]Prompt, 0, len(all))
	for _, p := range all {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Text), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		if !anyMood && !strings.EqualFold(p.Mood, mood) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Daily picks prompts[dayOfMonth % len] so the choice is stable for a
// calendar day.
func (s *Service) Daily(ctx context.Context, now time.Time) (Prompt, error) {
	all, err := s.List(ctx, "", "")
	if err != nil {
		return Prompt{}, err
	}
	return Pick(all, now)
}

func Pick(all []Prompt, now time.Time) (Prompt, error) {
	if len(all) == 0 {
		return Prompt{}, ErrNoPrompts
	}
	return all[now.Day()%len(all)], nil
}
