package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed default_prompts.toml
var defaultSeed []byte

type seedFile struct {
	Prompts []seedPrompt `toml:"prompt"`
}

type seedPrompt struct {
	Text     string `toml:"text"`
	Category string `toml:"category"`
	Mood     string `toml:"mood"`
}

// ParseSeed decodes a TOML file of [[prompt]] tables.
func ParseSeed(data []byte) ([]Prompt, error) {
	var f seedFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	out := make([]Prompt, 0, len(f.Prompts))
	for i, p := range f.Prompts {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			return nil, fmt.Errorf("parse prompts: prompt %d has no text", i+1)
		}
		out = append(out, Prompt{
			Text:     text,
			Category: strings.TrimSpace(p.Category),
			Mood:     strings.TrimSpace(p.Mood),
		})
	}
	return out, nil
}

// LoadSeed reads path, or the built-in set when path is empty.
func LoadSeed(path string) ([]Prompt, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return ParseSeed(data)
}

// Seed inserts prompts whose text is not stored yet and returns how many
// were added. created_at is staggered so file order survives the
// newest-first listing.
func Seed(ctx context.Context, gdb *gorm.DB, list []Prompt, now time.Time) (int, error) {
	added := 0
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range list {
			p := list[i]
			p.ID = 0
			p.CreatedAt = now.Add(-time.Duration(i) * time.Second)

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "text"}},
				DoNothing: true,
			}).Create(&p)
			if res.Error != nil {
				return res.Error
			}
			added += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
