package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoSnapshot = errors.New("no snapshot")

// stuckAfter is how long a RUNNING job may hold its lock before another
// worker requeues it.
const stuckAfter = 5 * time.Minute

type Repo struct {
	DB *gorm.DB

	Now func() time.Time
}

func (r *Repo) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// EnqueueStatsRefresh schedules a summary recompute for the user. At most
// one refresh is pending per user; extra calls are absorbed.
func (r *Repo) EnqueueStatsRefresh(tx *gorm.DB, userID uint64) error {
	if tx == nil {
		tx = r.DB
	}

	var pending int64
	if err := tx.Model(&Job{}).
		Where("user_id = ? AND type = ? AND status = ?", userID, TypeStatsRefresh, StatusPending).
		Count(&pending).Error; err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	now := r.now()
	j := Job{
		UserID:      userID,
		Type:        TypeStatsRefresh,
		Payload:     datatypes.JSON(`{}`),
		RunAt:       now,
		Status:      StatusPending,
		MaxAttempts: 8,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// uq_jobs_pending_refresh makes a concurrent duplicate a no-op
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&j).Error
}

// Claim one due job. Postgres uses SKIP LOCKED so concurrent workers never
// double-claim; sqlite serializes writers and uses a guarded update.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	var job Job
	now := r.now()

	// a failed requeue must not keep other users' jobs from being claimed
	if err := r.requeueStuck(ctx, now); err != nil {
		log.Printf("requeue stuck jobs: %v\n", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			return tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= ?
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=?, updated_at=?
where id in (select id from cte)
returning *;
`, now, workerID, now, now).Scan(&job).Error
		}

		var next Job
		err := tx.Where("status = ? AND run_at <= ?", StatusPending, now).
			Order("run_at asc").Order("id asc").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Model(&Job{}).
			Where("id = ? AND status = ?", next.ID, StatusPending).
			Updates(map[string]any{
				"status":     StatusRunning,
				"locked_by":  workerID,
				"locked_at":  now,
				"updated_at": now,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		return tx.First(&job, next.ID).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

// requeueStuck returns RUNNING jobs whose lock expired to PENDING. A stuck
// job is closed instead when the same user already has a refresh PENDING or
// a newer one RUNNING, so the pending-refresh index is never violated.
func (r *Repo) requeueStuck(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-stuckAfter)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
update jobs
set status='DONE', last_error=?, locked_by=null, locked_at=null, updated_at=?
where status='RUNNING' and locked_at is not null and locked_at < ?
  and exists (
    select 1 from jobs p
    where p.user_id = jobs.user_id and p.type = jobs.type and p.id <> jobs.id
      and (p.status = 'PENDING' or (p.status = 'RUNNING' and p.id > jobs.id))
  )
`, supersededError, now, cutoff).Error; err != nil {
			return err
		}

		return tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=?
where status='RUNNING' and locked_at is not null and locked_at < ?
`, now, cutoff).Error
	})
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status='DONE', locked_by=null, locked_at=null, updated_at=? where id=?`,
		r.now(), id).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status='FAILED', last_error=?, locked_by=null, locked_at=null, updated_at=? where id=?`,
		errMsg, r.now(), id).Error
}

// RetryLater puts a failed job back in the queue. When the user already has
// a refresh pending, that job covers the retry and this one is closed.
func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	res := r.DB.WithContext(ctx).Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=?
where id=?
  and not exists (
    select 1 from jobs p
    where p.user_id = jobs.user_id and p.type = jobs.type and p.id <> jobs.id and p.status = 'PENDING'
  )`, attempts, runAt, errMsg, r.now(), id)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return nil
	}
	return r.supersede(ctx, id)
}

func (r *Repo) supersede(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Exec(
		`update jobs set status='DONE', last_error=?, locked_by=null, locked_at=null, updated_at=? where id=?`,
		supersededError, r.now(), id).Error
}

// SaveSnapshot replaces the user's stored summary.
func (r *Repo) SaveSnapshot(ctx context.Context, s StatsSnapshot) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&s).Error
}

func (r *Repo) LatestSnapshot(ctx context.Context, userID uint64) (StatsSnapshot, error) {
	var s StatsSnapshot
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatsSnapshot{}, ErrNoSnapshot
	}
	return s, err
}

// Pending reports whether a refresh is queued for the user.
func (r *Repo) Pending(ctx context.Context, userID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Job{}).
		Where("user_id = ? AND type = ? AND status IN ?", userID, TypeStatsRefresh, []string{StatusPending, StatusRunning}).
		Count(&n).Error
	return n > 0, err
}
