package journal

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type CollectionInput struct {
	Title       *string
	Description *string
	Color       *string
	Icon        *string
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (s *Service) ListCollections(ctx context.Context, userID uint64) ([]Collection, error) {
	var out []Collection
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}

func (s *Service) GetCollection(ctx context.Context, userID, id uint64) (Collection, error) {
	var c Collection
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return Collection{}, notFound(err)
	}
	return c, nil
}

func (s *Service) CreateCollection(ctx context.Context, userID uint64, in CollectionInput) (Collection, error) {
	title := trimmed(in.Title)
	if title == "" {
		return Collection{}, invalid("title required")
	}

	now := s.now()
	c := Collection{
		UserID:      userID,
		Title:       title,
		Description: trimmed(in.Description),
		Color:       trimmed(in.Color),
		Icon:        trimmed(in.Icon),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return Collection{}, err
	}
	return s.GetCollection(ctx, userID, c.ID)
}

func (s *Service) UpdateCollection(ctx context.Context, userID, id uint64, in CollectionInput) (Collection, error) {
	updates := map[string]any{"updated_at": s.now()}
	if in.Title != nil {
		title := trimmed(in.Title)
		if title == "" {
			return Collection{}, invalid("title required")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = trimmed(in.Description)
	}
	if in.Color != nil {
		updates["color"] = trimmed(in.Color)
	}
	if in.Icon != nil {
		updates["icon"] = trimmed(in.Icon)
	}

	res := s.DB.WithContext(ctx).Model(&Collection{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return Collection{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Collection{}, ErrNotFound
	}
	return s.GetCollection(ctx, userID, id)
}

// DeleteCollection removes the collection and detaches its journals.
func (s *Service) DeleteCollection(ctx context.Context, userID, id uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Collection
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&Journal{}).
			Where("collection_id = ? AND user_id = ?", id, userID).
			Update("collection_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		return s.enqueueRefresh(tx, userID)
	})
}

// EntryCounts maps collection id to the number of journals in it.
func (s *Service) EntryCounts(ctx context.Context, userID uint64) (map[uint64]int64, error) {
	type row struct {
		CollectionID uint64
		Count        int64
	}
	var rows []row
	err := s.DB.WithContext(ctx).Model(&Journal{}).
		Select("collection_id, count(*) as count").
		Where("user_id = ? AND collection_id IS NOT NULL", userID).
		Group("collection_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		out[r.CollectionID] = r.Count
	}
	return out, nil
}

// ownsCollection checks a collection reference inside a transaction.
func ownsCollection(tx *gorm.DB, userID uint64, id *uint64) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&Collection{}).Where("id = ? AND user_id = ?", *id, userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrCollectionNotFound
	}
	return nil
}
