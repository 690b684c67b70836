package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuth             = errors.New("authentication failed")
	ErrDiscovery        = errors.New("file discovery failed")
	ErrLocalIO          = errors.New("local io error")
	ErrTransientRemote  = errors.New("transient remote error")
	ErrPermanentChunk   = errors.New("permanent chunk error")
	ErrProgressCorrupt  = errors.New("progress file is corrupt")
	ErrProgressMismatch = errors.New("progress does not match discovered files")
	ErrProgressExists   = errors.New("progress already exists for dataset")
	ErrInvalidTruncate  = errors.New("invalid truncate index")
	ErrRunIncomplete    = errors.New("run finished with failed files")
)

// RemoteStatusError is a non-2xx answer from the record API.
type RemoteStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Retryable reports whether the status signals throttling or a server-side fault.
func (e *RemoteStatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// TransientRemoteError wraps a failure that is worth another attempt.
type TransientRemoteError struct {
	StatusCode int
	Err        error
}

func (e *TransientRemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%v (status %d): %v", ErrTransientRemote, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrTransientRemote, e.Err)
}

func (e *TransientRemoteError) Is(target error) bool {
	return target == ErrTransientRemote
}

func (e *TransientRemoteError) Unwrap() error {
	return e.Err
}

// PermanentChunkError records a chunk that will not be retried again.
type PermanentChunkError struct {
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *PermanentChunkError) Error() string {
	return fmt.Sprintf("%v after %d attempt(s): %v", ErrPermanentChunk, e.Attempts, e.Err)
}

func (e *PermanentChunkError) Is(target error) bool {
	return target == ErrPermanentChunk
}

func (e *PermanentChunkError) Unwrap() error {
	return e.Err
}

// LocalIOError reports a source file that could not be read or decoded.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrLocalIO, e.Path, e.Err)
}

func (e *LocalIOError) Is(target error) bool {
	return target == ErrLocalIO
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}

// AuthError reports a login that produced no usable token.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrAuth, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %v", ErrAuth, e.Reason, e.Err)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
