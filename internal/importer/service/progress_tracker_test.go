package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProgressTracker_CheckpointPersistsProgressAndStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newMemRepo()
	publisher := mocks.NewMockStatsPublisher(ctrl)
	publisher.EXPECT().PublishStats(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	tracker := NewProgressTracker("ds", repo, publisher, nil)
	_, found, err := tracker.Load()
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, tracker.Begin("run-1", 4))

	ctx := context.Background()
	require.NoError(t, tracker.Checkpoint(ctx, domain.FileResult{Filename: "a", Status: domain.FileSuccess, ImportedDelta: 10}))
	require.NoError(t, tracker.Checkpoint(ctx, domain.FileResult{Filename: "b", Status: domain.FilePartial, ImportedDelta: 3}))

	stored, found, err := repo.LoadProgress("ds")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, stored.CurrentIndex)
	assert.Equal(t, "run-1", stored.RunID)

	stats := repo.stats["ds"]
	assert.Equal(t, 4, stats.TotalFiles)
	assert.Equal(t, 2, stats.ProcessedFiles)
	assert.Equal(t, int64(13), stats.ImportedRecords)
	assert.Equal(t, 1, stats.FailedFiles)
	assert.Nil(t, stats.EndTime)
}

func TestProgressTracker_PublishFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher := mocks.NewMockStatsPublisher(ctrl)
	publisher.EXPECT().PublishStats(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	journal := &recordingJournal{}
	tracker := NewProgressTracker("ds", newMemRepo(), publisher, journal)
	_, _, err := tracker.Load()
	require.NoError(t, err)
	require.NoError(t, tracker.Begin("run-1", 1))

	require.NoError(t, tracker.Checkpoint(context.Background(), domain.FileResult{Filename: "a", Status: domain.FileSuccess}))
	assert.Equal(t, 1, journal.count("WARN Stats mirror update failed"))
}

func TestProgressTracker_SaveFailureIsFatal(t *testing.T) {
	repo := newMemRepo()
	tracker := NewProgressTracker("ds", repo, nil, nil)
	_, _, err := tracker.Load()
	require.NoError(t, err)
	require.NoError(t, tracker.Begin("run-1", 1))

	repo.saveErr = errors.New("disk full")
	err = tracker.Checkpoint(context.Background(), domain.FileResult{Filename: "a"})
	assert.ErrorContains(t, err, "disk full")
}

func TestProgressTracker_Truncate(t *testing.T) {
	repo := newMemRepo()
	tracker := NewProgressTracker("ds", repo, nil, nil)
	_, _, err := tracker.Load()
	require.NoError(t, err)
	require.NoError(t, tracker.Begin("run-1", 3))
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, tracker.Checkpoint(ctx, domain.FileResult{Filename: n, Status: domain.FileSuccess, ImportedDelta: 5}))
	}
	require.NoError(t, tracker.Finish(ctx))

	reloaded := NewProgressTracker("ds", repo, nil, nil)
	_, found, err := reloaded.Load()
	require.NoError(t, err)
	require.True(t, found)

	assert.ErrorIs(t, reloaded.Truncate(ctx, 4), domain.ErrInvalidTruncate)
	require.NoError(t, reloaded.Truncate(ctx, 1))

	stored, _, err := repo.LoadProgress("ds")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentIndex)
	assert.Len(t, stored.Results, 1)

	stats := repo.stats["ds"]
	assert.Equal(t, 1, stats.ProcessedFiles)
	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, int64(5), stats.ImportedRecords)
	assert.Nil(t, stats.EndTime)
}

func TestProgressTracker_KeepsStartTimeOnResume(t *testing.T) {
	repo := newMemRepo()
	first := NewProgressTracker("ds", repo, nil, nil)
	firstStart := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	first.now = func() time.Time { return firstStart }
	_, _, err := first.Load()
	require.NoError(t, err)
	require.NoError(t, first.Begin("run-1", 2))
	require.NoError(t, first.Checkpoint(context.Background(), domain.FileResult{Filename: "a"}))

	second := NewProgressTracker("ds", repo, nil, nil)
	second.now = func() time.Time { return firstStart.Add(time.Hour) }
	_, _, err = second.Load()
	require.NoError(t, err)
	require.NoError(t, second.Begin("run-2", 2))

	assert.True(t, second.Stats().StartTime.Equal(firstStart))
	assert.Equal(t, "run-2", second.Stats().RunID)
}

func TestProgressTracker_RequiresLoad(t *testing.T) {
	tracker := NewProgressTracker("ds", newMemRepo(), nil, nil)
	assert.Error(t, tracker.Begin("r", 1))
	assert.Error(t, tracker.Checkpoint(context.Background(), domain.FileResult{}))
	assert.Error(t, tracker.Truncate(context.Background(), 0))
}
