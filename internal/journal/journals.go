package journal

import (
	"context"
	"strings"
	"time"

	"mindnest/internal/analytics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	CollectionID *uint64
	Favorite     *bool
	Tag          string
	Query        string
	Limit        int
}

type JournalInput struct {
	Title        string
	Content      string
	PlainText    *string
	CollectionID *uint64
	Mood         *MoodInput
	Tags         []string
}

// JournalUpdate is a partial update. A zero CollectionID detaches the
// journal; an empty Tags slice clears the tags.
type JournalUpdate struct {
	Title        *string
	Content      *string
	PlainText    *string
	CollectionID *uint64
	Mood         *MoodInput
	ClearMood    bool
	Tags         *[]string
	IsFavorite   *bool
}

func (s *Service) preloaded(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Mood").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Collection")
}

func (s *Service) ListJournals(ctx context.Context, userID uint64, f Filter) ([]Journal, error) {
	q := s.preloaded(ctx).Where("journals.user_id = ?", userID)

	if f.CollectionID != nil {
		q = q.Where("journals.collection_id = ?", *f.CollectionID)
	}
	if f.Favorite != nil {
		q = q.Where("journals.is_favorite = ?", *f.Favorite)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		q = q.Where("journals.id IN (?)",
			s.DB.Model(&Tag{}).Select("journal_id").
				Where("user_id = ? AND lower(tag) = ?", userID, strings.ToLower(tag)))
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(lower(journals.title) LIKE ? OR lower(journals.plain_text) LIKE ?)", like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []Journal
	err := q.Order("journals.created_at desc").Order("journals.id desc").Find(&out).Error
	return out, err
}

func (s *Service) GetJournal(ctx context.Context, userID, id uint64) (Journal, error) {
	var j Journal
	if err := s.preloaded(ctx).Where("id = ? AND user_id = ?", id, userID).First(&j).Error; err != nil {
		return Journal{}, notFound(err)
	}
	return j, nil
}

func plainText(content string, explicit *string) string {
	if explicit != nil {
		return strings.TrimSpace(*explicit)
	}
	return analytics.StripMarkup(content)
}

func (s *Service) CreateJournal(ctx context.Context, userID uint64, in JournalInput) (Journal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Journal{}, invalid("title required")
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return Journal{}, err
	}
	var mood *Mood
	if in.Mood != nil {
		m, err := in.Mood.normalize()
		if err != nil {
			return Journal{}, err
		}
		mood = &m
	}

	var id uint64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownsCollection(tx, userID, in.CollectionID); err != nil {
			return err
		}

		now := s.now()
		j := Journal{
			UserID:       userID,
			CollectionID: in.CollectionID,
			Title:        title,
			Content:      in.Content,
			PlainText:    plainText(in.Content, in.PlainText),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Omit(clause.Associations).Create(&j).Error; err != nil {
			return err
		}
		id = j.ID

		if mood != nil {
			mood.JournalID = j.ID
			mood.CreatedAt = now
			if err := tx.Create(mood).Error; err != nil {
				return err
			}
		}
		if err := insertTags(tx, userID, j.ID, tags, now); err != nil {
			return err
		}
		return s.enqueueRefresh(tx, userID)
	})
	if err != nil {
		return Journal{}, err
	}
	return s.GetJournal(ctx, userID, id)
}

func (s *Service) UpdateJournal(ctx context.Context, userID, id uint64, in JournalUpdate) (Journal, error) {
	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Journal{}, invalid("title required")
		}
		updates["title"] = title
	}
	if in.Content != nil {
		updates["content"] = *in.Content
		updates["plain_text"] = plainText(*in.Content, in.PlainText)
	} else if in.PlainText != nil {
		updates["plain_text"] = strings.TrimSpace(*in.PlainText)
	}
	if in.IsFavorite != nil {
		updates["is_favorite"] = *in.IsFavorite
	}

	var tags []string
	if in.Tags != nil {
		var err error
		if tags, err = normalizeTags(*in.Tags); err != nil {
			return Journal{}, err
		}
	}
	var mood *Mood
	if in.Mood != nil && !in.ClearMood {
		m, err := in.Mood.normalize()
		if err != nil {
			return Journal{}, err
		}
		mood = &m
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var j Journal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&j).Error; err != nil {
			return notFound(err)
		}

		if in.CollectionID != nil {
			if *in.CollectionID == 0 {
				updates["collection_id"] = nil
			} else {
				if err := ownsCollection(tx, userID, in.CollectionID); err != nil {
					return err
				}
				updates["collection_id"] = *in.CollectionID
			}
		}

		now := s.now()
		updates["updated_at"] = now
		if err := tx.Model(&Journal{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if in.ClearMood || mood != nil {
			if err := tx.Where("journal_id = ?", id).Delete(&Mood{}).Error; err != nil {
				return err
			}
		}
		if mood != nil {
			mood.JournalID = id
			mood.CreatedAt = now
			if err := tx.Create(mood).Error; err != nil {
				return err
			}
		}

		if in.Tags != nil {
			if err := tx.Where("journal_id = ?", id).Delete(&Tag{}).Error; err != nil {
				return err
			}
			if err := insertTags(tx, userID, id, tags, now); err != nil {
				return err
			}
		}
		return s.enqueueRefresh(tx, userID)
	})
	if err != nil {
		return Journal{}, err
	}
	return s.GetJournal(ctx, userID, id)
}

func (s *Service) DeleteJournal(ctx context.Context, userID, id uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var j Journal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&j).Error; err != nil {
			return notFound(err)
		}

		// children first, journal_tags and journal_moods reference journals
		if err := tx.Where("journal_id = ?", id).Delete(&Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("journal_id = ?", id).Delete(&Mood{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&j).Error; err != nil {
			return err
		}
		return s.enqueueRefresh(tx, userID)
	})
}

// ToggleFavorite flips the favorite flag and returns the stored entry.
func (s *Service) ToggleFavorite(ctx context.Context, userID, id uint64) (Journal, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Journal{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"is_favorite": gorm.Expr("NOT is_favorite"),
				"updated_at":  s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return s.enqueueRefresh(tx, userID)
	})
	if err != nil {
		return Journal{}, err
	}
	return s.GetJournal(ctx, userID, id)
}

func insertTags(tx *gorm.DB, userID, journalID uint64, tags []string, now time.Time) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]Tag, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, Tag{JournalID: journalID, UserID: userID, Tag: t, CreatedAt: now})
	}
	return tx.Create(&rows).Error
}
