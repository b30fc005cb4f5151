package db

import (
	"fmt"
	"strings"
	"time"

	"mindnest/internal/auth"
	"mindnest/internal/jobs"
	"mindnest/internal/journal"
	"mindnest/internal/prefs"
	"mindnest/internal/prompts"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens postgres for postgres:// URLs and key=value DSNs, and
// sqlite for sqlite:// or file: URLs (local runs and tests).
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&auth.Session{},
		&journal.Collection{},
		&journal.Journal{},
		&journal.Mood{},
		&journal.Tag{},
		&prompts.Prompt{},
		&prefs.Preference{},
		&jobs.Job{},
		&jobs.StatsSnapshot{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_journal_tags_user_tag on journal_tags(user_id, tag);`,
		`create index if not exists idx_journals_user_created on journals(user_id, created_at desc);`,
		`create index if not exists idx_collections_user_created on collections(user_id, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
		jobs.PendingRefreshIndex,
	}

	if gdb.Dialector.Name() == "postgres" {
		stmts = append(stmts,
			// Full-text search on journal plain text
			`create index if not exists idx_journals_fts on journals using gin (to_tsvector('simple', plain_text));`,
		)
	}

	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
