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
	"github.com/google/uuid"
)

// ChunkUploader sends one chunk with bounded retries.
type ChunkUploader struct {
	store        port.RecordStore
	maxRetries   int
	baseDelay    time.Duration
	events       events
	newRequestID func() string
}

// ChunkOutcome is the result of uploading one chunk. Err is set when the chunk failed permanently.
type ChunkOutcome struct {
	Attempts int
	Imported *int64
	Err      *domain.PermanentChunkError
}

func NewChunkUploader(store port.RecordStore, cfg config.UploadConfig, journal port.Journal) *ChunkUploader {
	return &ChunkUploader{
		store:        store,
		maxRetries:   cfg.MaxRetries,
		baseDelay:    cfg.BaseDelay(),
		events:       events{journal: journal},
		newRequestID: uuid.NewString,
	}
}

// Upload sends chunk as part of file. It tries at most maxRetries+1 times, sleeping
// baseDelay*attempt after each transient failure. Only context cancellation is
// returned as an error; every other failure ends up in ChunkOutcome.Err.
func (u *ChunkUploader) Upload(ctx context.Context, token string, file domain.SourceFile, chunk domain.Chunk, totalChunks int) (ChunkOutcome, error) {
	req := domain.ImportRequest{
		Data:      chunk.Content(),
		Filename:  fmt.Sprintf("%s_chunk_%d", file.Filename, chunk.Index+1),
		RequestID: u.newRequestID(),
	}
	chunkLabel := fmt.Sprintf("%d/%d", chunk.Index+1, totalChunks)
	maxAttempts := u.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := u.store.ImportChunk(ctx, token, req)
		if err == nil {
			if attempt > 1 {
				u.events.info("Chunk uploaded after retry", "file", file.Filename, "chunk", chunkLabel, "attempts", attempt)
			}
			return ChunkOutcome{Attempts: attempt, Imported: reply.Imported}, nil
		}
		if ctx.Err() != nil {
			return ChunkOutcome{Attempts: attempt}, ctx.Err()
		}

		classified := classifyUploadError(err)
		var permErr *domain.PermanentChunkError
		if errors.As(classified, &permErr) {
			permErr.Attempts = attempt
			u.logPermanent(file, chunk, chunkLabel, req.RequestID, permErr)
			return ChunkOutcome{Attempts: attempt, Err: permErr}, nil
		}

		lastErr = classified
		if attempt == maxAttempts {
			break
		}

		delay := resilience.LinearBackoff(u.baseDelay, attempt, u.maxRetries)
		kv := []any{
			"file", file.Filename,
			"chunk", chunkLabel,
			"attempt", attempt,
			"retry_in", delay.String(),
			"request_id", req.RequestID,
			"error", classified.Error(),
		}
		if statusOf(classified) == 0 {
			// No response means the remote may have applied the chunk already.
			kv = append(kv, "may_be_applied", true)
		}
		u.events.warn("Chunk upload failed, retrying", kv...)

		if !resilience.SleepContext(ctx, delay) {
			return ChunkOutcome{Attempts: attempt}, ctx.Err()
		}
	}

	permErr := &domain.PermanentChunkError{
		StatusCode: statusOf(lastErr),
		Body:       bodyOf(lastErr),
		Attempts:   maxAttempts,
		Err:        lastErr,
	}
	u.logPermanent(file, chunk, chunkLabel, req.RequestID, permErr)
	return ChunkOutcome{Attempts: maxAttempts, Err: permErr}, nil
}

func (u *ChunkUploader) logPermanent(file domain.SourceFile, chunk domain.Chunk, label, requestID string, err *domain.PermanentChunkError) {
	u.events.error("Chunk failed permanently",
		"file", file.Filename,
		"chunk", label,
		"lines", fmt.Sprintf("%d-%d", chunk.StartLine, chunk.EndLine),
		"fingerprint", fmt.Sprintf("%016x", chunk.Fingerprint),
		"attempts", err.Attempts,
		"status_code", err.StatusCode,
		"body", err.Body,
		"request_id", requestID,
		"error", err.Error(),
	)
}

// classifyUploadError maps a client error to the retry taxonomy:
// 429 and 5xx are transient, other statuses permanent, transport failures transient.
func classifyUploadError(err error) error {
	var statusErr *domain.RemoteStatusError
	if errors.As(err, &statusErr) {
		if statusErr.Retryable() {
			return &domain.TransientRemoteError{StatusCode: statusErr.StatusCode, Err: err}
		}
		return &domain.PermanentChunkError{StatusCode: statusErr.StatusCode, Body: statusErr.Body, Err: err}
	}
	if errors.Is(err, domain.ErrAuth) {
		return &domain.PermanentChunkError{Err: err}
	}
	return &domain.TransientRemoteError{Err: err}
}

func statusOf(err error) int {
	var statusErr *domain.RemoteStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func bodyOf(err error) string {
	var statusErr *domain.RemoteStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Body
	}
	return ""
}
