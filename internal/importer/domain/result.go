package domain

// FileStatus is the terminal state of one processed file.
type FileStatus string

const (
	FileSuccess    FileStatus = "FILE_SUCCESS"
	FilePartial    FileStatus = "FILE_PARTIAL"
	FileSkipped    FileStatus = "FILE_SKIPPED"
	FileReadFailed FileStatus = "FILE_READ_FAILED"
)

// Failed reports whether the file needs operator attention.
func (s FileStatus) Failed() bool {
	return s == FilePartial || s == FileReadFailed
}

// DeltaSource tells how ImportedDelta was obtained.
type DeltaSource string

const (
	DeltaFromSnapshot DeltaSource = "snapshot"
	DeltaFromReported DeltaSource = "reported"
	DeltaNone         DeltaSource = "none"
)

// ChunkFailure describes a chunk that ended with a permanent error.
type ChunkFailure struct {
	ChunkIndex  int    `json:"chunkIndex"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	Fingerprint uint64 `json:"fingerprint"`
	Attempts    int    `json:"attempts"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Body        string `json:"body,omitempty"`
	Error       string `json:"error"`
}

// FileResult is the immutable outcome of one file.
type FileResult struct {
	Filename          string         `json:"filename"`
	Company           string         `json:"company,omitempty"`
	Status            FileStatus     `json:"status"`
	Success           bool           `json:"success"`
	TotalRows         int            `json:"totalRows"`
	UploadedRows      int            `json:"uploadedRows"`
	TotalChunks       int            `json:"totalChunks"`
	SuccessChunks     int            `json:"successChunks"`
	FailedChunks      int            `json:"failedChunks"`
	DuplicatesRemoved int            `json:"duplicatesRemoved"`
	LookupErrors      int            `json:"lookupErrors"`
	ImportedDelta     int64          `json:"importedDelta"`
	ReportedImported  int64          `json:"reportedImported"`
	DeltaSource       DeltaSource    `json:"deltaSource"`
	CountBefore       int64          `json:"countBefore"`
	CountAfter        int64          `json:"countAfter"`
	DurationSeconds   float64        `json:"durationSeconds"`
	Error             string         `json:"error,omitempty"`
	ChunkFailures     []ChunkFailure `json:"chunkFailures,omitempty"`
}
