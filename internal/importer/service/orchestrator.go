package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/go-csv-import-pipeline/pkg/resilience"
)

// RunContext carries everything specific to one invocation.
type RunContext struct {
	RunID   string
	Dataset config.Dataset
	Token   string
	// Resume allows continuing a dataset that already has recorded results.
	Resume bool
}

// Orchestrator drives the files of a dataset through dedup, chunking and upload,
// one file and one chunk at a time.
type Orchestrator struct {
	cfg      *config.Config
	store    port.RecordStore
	reader   port.SourceReader
	dedup    *DedupFilter
	uploader *ChunkUploader
	tracker  *ProgressTracker
	events   events
	now      func() time.Time
}

func NewOrchestrator(
	cfg *config.Config,
	store port.RecordStore,
	reader port.SourceReader,
	tracker *ProgressTracker,
	journal port.Journal,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		reader:   reader,
		dedup:    NewDedupFilter(store, cfg.Dedup, journal),
		uploader: NewChunkUploader(store, cfg.Upload, journal),
		tracker:  tracker,
		events:   events{journal: journal},
		now:      time.Now,
	}
}

// Run processes files[currentIndex:] and returns the final report.
// It returns domain.ErrRunIncomplete together with the report when any file
// ended partial or unreadable.
func (o *Orchestrator) Run(ctx context.Context, rc RunContext, files []domain.SourceFile) (*Report, error) {
	runStart := o.now()

	progress, found, err := o.tracker.Load()
	if err != nil {
		return nil, err
	}
	if found && progress.CurrentIndex > 0 && !rc.Resume {
		return nil, fmt.Errorf("%w: %s has %d completed files, use --resume or truncate",
			domain.ErrProgressExists, rc.Dataset.Name, progress.CurrentIndex)
	}
	if err := progress.VerifyPrefix(files); err != nil {
		return nil, err
	}
	if err := o.tracker.Begin(rc.RunID, len(files)); err != nil {
		return nil, err
	}

	start := progress.CurrentIndex
	batchSize := max(o.cfg.Pacing.BatchSize, 1)
	o.events.info("Run started",
		"run_id", rc.RunID,
		"dataset", rc.Dataset.Name,
		"total_files", len(files),
		"resume_from", start,
		"batch_size", batchSize,
	)

	var importedThisRun int64
	for i := start; i < len(files); i++ {
		offset := i - start
		if offset%batchSize == 0 {
			if offset > 0 {
				o.events.info("Batch finished, pausing", "delay", o.cfg.Pacing.BatchDelay().String())
				if !resilience.SleepContext(ctx, o.cfg.Pacing.BatchDelay()) {
					return nil, o.interrupted(ctx, rc)
				}
			}
			o.events.info("Batch started",
				"batch", offset/batchSize+1,
				"first_file", i+1,
				"last_file", min(i+batchSize, len(files)),
			)
		} else if !resilience.SleepContext(ctx, o.cfg.Pacing.FileDelay()) {
			return nil, o.interrupted(ctx, rc)
		}

		result, err := o.processFile(ctx, rc, files[i], i, len(files))
		if err != nil {
			return nil, o.interrupted(ctx, rc)
		}
		if err := o.tracker.Checkpoint(ctx, result); err != nil {
			return nil, err
		}
		importedThisRun += result.ImportedDelta
	}

	if err := o.tracker.Finish(ctx); err != nil {
		return nil, err
	}

	report := BuildReport(o.tracker.Progress(), len(files), importedThisRun, o.now().Sub(runStart))
	o.events.info("Run finished",
		"run_id", rc.RunID,
		"dataset", rc.Dataset.Name,
		"success", report.Success,
		"partial", report.Partial,
		"read_failed", report.ReadFailed,
		"skipped", report.Skipped,
		"imported_records", report.ImportedRecords,
		"imported_this_run", report.ImportedThisRun,
	)
	if report.Incomplete() {
		return report, fmt.Errorf("%w: %d partial, %d unreadable", domain.ErrRunIncomplete, report.Partial, report.ReadFailed)
	}
	return report, nil
}

func (o *Orchestrator) interrupted(ctx context.Context, rc RunContext) error {
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	o.events.warn("Run interrupted, in-flight file will be reprocessed on resume",
		"run_id", rc.RunID,
		"dataset", rc.Dataset.Name,
		"next_index", o.tracker.Progress().CurrentIndex,
	)
	return err
}

// processFile runs one file through its states:
// PENDING -> DEDUP_CHECKED -> CHUNKED -> UPLOADING -> SUCCESS | PARTIAL | SKIPPED, or READ_FAILED.
// The only error it returns is context cancellation.
func (o *Orchestrator) processFile(ctx context.Context, rc RunContext, file domain.SourceFile, index, total int) (domain.FileResult, error) {
	started := o.now()
	result := domain.FileResult{
		Filename:    file.Filename,
		Company:     file.Company,
		DeltaSource: domain.DeltaNone,
	}
	finish := func(status domain.FileStatus) domain.FileResult {
		result.Status = status
		result.Success = !status.Failed()
		result.DurationSeconds = o.now().Sub(started).Seconds()
		return result
	}

	o.events.info("File started", "state", "PENDING", "file", file.Filename, "position", fmt.Sprintf("%d/%d", index+1, total), "company", file.Company)

	text, err := o.reader.ReadText(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			return domain.FileResult{}, ctx.Err()
		}
		result.Error = err.Error()
		o.events.error("File unreadable", "state", string(domain.FileReadFailed), "file", file.Filename, "error", err.Error())
		return finish(domain.FileReadFailed), nil
	}

	table := domain.ParseTable(text)
	result.TotalRows = table.RowCount()
	if table.RowCount() == 0 {
		o.events.info("File has no data rows", "state", string(domain.FileSkipped), "file", file.Filename)
		return finish(domain.FileSkipped), nil
	}

	if o.cfg.Dedup.Enabled {
		dres, err := o.dedup.Filter(ctx, rc.Token, table, file.Company)
		if err != nil {
			return domain.FileResult{}, err
		}
		table = table.WithRows(dres.Rows)
		result.DuplicatesRemoved = dres.Removed
		result.LookupErrors = dres.LookupErrors
		o.events.info("Duplicates checked",
			"state", "DEDUP_CHECKED",
			"file", file.Filename,
			"rows", result.TotalRows,
			"distinct_keys", dres.CheckedKeys,
			"removed", dres.Removed,
			"lookup_errors", dres.LookupErrors,
		)
		if table.RowCount() == 0 {
			o.events.info("All rows already present", "state", string(domain.FileSkipped), "file", file.Filename)
			return finish(domain.FileSkipped), nil
		}
	}

	fixed := rc.Dataset.FixedChunkRows
	if fixed == 0 {
		fixed = o.cfg.Upload.FixedChunkRows
	}
	chunks := SplitChunks(table, RowsPerChunk(table.RowCount(), fixed))
	result.TotalChunks = len(chunks)
	o.events.info("File chunked", "state", "CHUNKED", "file", file.Filename, "rows", table.RowCount(), "chunks", len(chunks))

	before, beforeErr := o.store.CountRecords(ctx, rc.Token)
	if ctx.Err() != nil {
		return domain.FileResult{}, ctx.Err()
	}

	for i, chunk := range chunks {
		if i > 0 && !resilience.SleepContext(ctx, o.cfg.Upload.ChunkDelay()) {
			return domain.FileResult{}, ctx.Err()
		}

		outcome, err := o.uploader.Upload(ctx, rc.Token, file, chunk, len(chunks))
		if err != nil {
			return domain.FileResult{}, err
		}
		if outcome.Err != nil {
			result.FailedChunks++
			result.ChunkFailures = append(result.ChunkFailures, domain.ChunkFailure{
				ChunkIndex:  chunk.Index,
				StartLine:   chunk.StartLine,
				EndLine:     chunk.EndLine,
				Fingerprint: chunk.Fingerprint,
				Attempts:    outcome.Err.Attempts,
				StatusCode:  outcome.Err.StatusCode,
				Body:        outcome.Err.Body,
				Error:       outcome.Err.Error(),
			})
			continue
		}

		result.SuccessChunks++
		result.UploadedRows += chunk.RowCount()
		if outcome.Imported != nil {
			result.ReportedImported += *outcome.Imported
		} else {
			result.ReportedImported += int64(chunk.RowCount())
		}
	}

	if !resilience.SleepContext(ctx, o.cfg.Pacing.SettleDelay()) {
		return domain.FileResult{}, ctx.Err()
	}
	after, afterErr := o.store.CountRecords(ctx, rc.Token)
	if ctx.Err() != nil {
		return domain.FileResult{}, ctx.Err()
	}

	if snapErr := errors.Join(beforeErr, afterErr); snapErr != nil {
		result.ImportedDelta = result.ReportedImported
		result.DeltaSource = domain.DeltaFromReported
		o.events.warn("Count snapshot failed, using reported import counts", "file", file.Filename, "error", snapErr.Error())
	} else {
		result.CountBefore = before
		result.CountAfter = after
		result.ImportedDelta = after - before
		result.DeltaSource = domain.DeltaFromSnapshot
	}

	status := domain.FileSuccess
	if result.FailedChunks > 0 {
		status = domain.FilePartial
	}
	o.events.info("File finished",
		"state", string(status),
		"file", file.Filename,
		"chunks_ok", result.SuccessChunks,
		"chunks_failed", result.FailedChunks,
		"imported_delta", result.ImportedDelta,
		"delta_source", string(result.DeltaSource),
	)
	return finish(status), nil
}
