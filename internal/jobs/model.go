package jobs

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	TypeStatsRefresh = "STATS_REFRESH"

	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// PendingRefreshIndex allows one PENDING refresh per user. Postgres and
// sqlite both accept partial indexes.
const PendingRefreshIndex = `create unique index if not exists uq_jobs_pending_refresh on jobs(user_id, type) where status = 'PENDING' and type = 'STATS_REFRESH';`

// supersededError is recorded on stale jobs closed because a newer refresh
// for the same user is already queued or running.
const supersededError = "superseded"

type Job struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index;not null"`

	Type    string         `gorm:"type:text;not null"` // STATS_REFRESH
	Payload datatypes.JSON `gorm:"not null"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"` // PENDING/RUNNING/DONE/FAILED

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:8"`

	LockedBy *string `gorm:"type:text"`
	LockedAt *time.Time

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// StatsSnapshot is the last analytics summary the worker computed for a
// user. Payload holds the full summary; the scalar columns are for queries.
type StatsSnapshot struct {
	UserID     uint64         `gorm:"primaryKey;autoIncrement:false"`
	ComputedAt time.Time      `gorm:"not null"`
	Payload    datatypes.JSON `gorm:"not null"`

	Streak        int        `gorm:"not null;default:0"`
	LongestStreak int        `gorm:"not null;default:0"`
	TotalJournals int        `gorm:"not null;default:0"`
	TotalWords    int        `gorm:"not null;default:0"`
	TopTags       StringList `gorm:"not null"`
}

// StringList is a text[] column on postgres and an array literal in a
// text column elsewhere.
type StringList pq.StringArray

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}
