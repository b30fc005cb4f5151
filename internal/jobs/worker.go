package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"mindnest/internal/analytics"

	"gorm.io/datatypes"
)

// SnapshotLoader fetches the rows the aggregator runs over.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, userID uint64) ([]analytics.Entry, []analytics.Collection, error)
}

type Worker struct {
	ID       string
	Repo     *Repo
	Journals SnapshotLoader

	Interval time.Duration
	// Location sets calendar-day boundaries for streaks.
	Location *time.Location
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				log.Printf("worker claim error: %v\n", err)
			}
		}
	}
}

// RunOnce claims and handles at most one job. It reports whether a job
// was found.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Repo.Claim(ctx, w.ID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeStatsRefresh:
		w.handleStatsRefresh(ctx, job)
	default:
		w.fail(ctx, job, "unknown job type")
	}
}

func (w *Worker) handleStatsRefresh(ctx context.Context, job *Job) {
	entries, collections, err := w.Journals.Snapshot(ctx, job.UserID)
	if err != nil {
		w.retry(ctx, job, fmt.Sprintf("db read error: %v", err))
		return
	}

	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	now := w.Repo.now()
	summary := analytics.Summarize(entries, collections, now.In(loc))

	payload, err := json.Marshal(summary)
	if err != nil {
		w.fail(ctx, job, "encode summary")
		return
	}

	tags := make(StringList, 0, len(summary.Tags))
	for _, t := range summary.Tags {
		tags = append(tags, t.Tag)
	}

	snap := StatsSnapshot{
		UserID:        job.UserID,
		ComputedAt:    now,
		Payload:       datatypes.JSON(payload),
		Streak:        summary.CurrentStreak,
		LongestStreak: summary.LongestStreak,
		TotalJournals: summary.TotalJournals,
		TotalWords:    summary.TotalWords,
		TopTags:       tags,
	}
	if err := w.Repo.SaveSnapshot(ctx, snap); err != nil {
		w.retry(ctx, job, fmt.Sprintf("save snapshot: %v", err))
		return
	}

	log.Printf("[STATS] user=%d journals=%d streak=%d\n", job.UserID, summary.TotalJournals, summary.CurrentStreak)
	if err := w.Repo.MarkDone(ctx, job.ID); err != nil {
		log.Printf("mark job %d done: %v\n", job.ID, err)
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.fail(ctx, job, errMsg)
		return
	}

	next := w.Repo.now().Add(Backoff(attempts))
	if err := w.Repo.RetryLater(ctx, job.ID, attempts, next, errMsg); err != nil {
		log.Printf("retry job %d: %v\n", job.ID, err)
	}
}

func (w *Worker) fail(ctx context.Context, job *Job, errMsg string) {
	if err := w.Repo.MarkFailed(ctx, job.ID, errMsg); err != nil {
		log.Printf("mark job %d failed: %v\n", job.ID, err)
	}
}

// Backoff is 2^attempts seconds, capped at ten minutes.
func Backoff(attempts int) time.Duration {
	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	return time.Duration(sec) * time.Second
}
