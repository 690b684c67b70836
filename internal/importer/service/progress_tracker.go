package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
)

var errNotLoaded = errors.New("progress tracker used before Load")

// ProgressTracker owns the resume cursor of one dataset. It persists progress
// and the derived stats after every file and mirrors stats to the publisher.
type ProgressTracker struct {
	repo      port.ProgressRepository
	publisher port.StatsPublisher
	events    events
	now       func() time.Time

	dataset    string
	progress   *domain.Progress
	startTime  time.Time
	endTime    *time.Time
	totalFiles int
}

func NewProgressTracker(dataset string, repo port.ProgressRepository, publisher port.StatsPublisher, journal port.Journal) *ProgressTracker {
	return &ProgressTracker{
		repo:      repo,
		publisher: publisher,
		events:    events{journal: journal},
		now:       time.Now,
		dataset:   dataset,
	}
}

// Load restores progress, or starts a fresh cursor at 0 when none is stored.
func (t *ProgressTracker) Load() (*domain.Progress, bool, error) {
	p, found, err := t.repo.LoadProgress(t.dataset)
	if err != nil {
		return nil, found, fmt.Errorf("load progress: %w", err)
	}
	if !found {
		p = domain.NewProgress(t.dataset)
	}
	t.progress = p
	t.totalFiles = p.CurrentIndex

	if st, ok, err := t.repo.LoadStats(t.dataset); err == nil && ok {
		t.startTime = st.StartTime
		t.endTime = st.EndTime
		t.totalFiles = max(t.totalFiles, st.TotalFiles)
	}
	return p, found, nil
}

// Begin marks the start of a run over totalFiles discovered files.
func (t *ProgressTracker) Begin(runID string, totalFiles int) error {
	if t.progress == nil {
		return errNotLoaded
	}
	t.progress.RunID = runID
	t.totalFiles = totalFiles
	t.endTime = nil
	if t.startTime.IsZero() || t.progress.CurrentIndex == 0 {
		t.startTime = t.now()
	}
	return nil
}

// Checkpoint appends result and persists progress, then stats.
func (t *ProgressTracker) Checkpoint(ctx context.Context, result domain.FileResult) error {
	if t.progress == nil {
		return errNotLoaded
	}
	t.progress.Append(result, t.now())
	if err := t.repo.SaveProgress(t.progress); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return t.saveStats(ctx)
}

// Truncate rewinds the cursor so files from index on are processed again.
func (t *ProgressTracker) Truncate(ctx context.Context, index int) error {
	if t.progress == nil {
		return errNotLoaded
	}
	before := t.progress.CurrentIndex
	if err := t.progress.Truncate(index, t.now()); err != nil {
		return err
	}
	if err := t.repo.SaveProgress(t.progress); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	t.endTime = nil
	t.events.warn("Progress truncated", "dataset", t.dataset, "from", before, "to", index)
	return t.saveStats(ctx)
}

// Finish stamps the end time on the stats.
func (t *ProgressTracker) Finish(ctx context.Context) error {
	if t.progress == nil {
		return errNotLoaded
	}
	end := t.now()
	t.endTime = &end
	return t.saveStats(ctx)
}

func (t *ProgressTracker) Progress() *domain.Progress {
	return t.progress
}

// Stats derives the current stats from progress.
func (t *ProgressTracker) Stats() domain.Stats {
	p := t.progress
	if p == nil {
		p = domain.NewProgress(t.dataset)
	}
	st := domain.DeriveStats(p, t.totalFiles, t.startTime, t.now())
	st.EndTime = t.endTime
	return st
}

func (t *ProgressTracker) saveStats(ctx context.Context) error {
	st := t.Stats()
	if err := t.repo.SaveStats(st); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	if t.publisher != nil {
		if err := t.publisher.PublishStats(ctx, st); err != nil {
			t.events.warn("Stats mirror update failed", "dataset", t.dataset, "error", err.Error())
		}
	}
	return nil
}
