package domain

import "time"

// Stats is a derived summary of a Progress. It is always recomputed, never edited.
type Stats struct {
	Dataset                   string     `json:"dataset"`
	RunID                     string     `json:"runId,omitempty"`
	TotalFiles                int        `json:"totalFiles"`
	ProcessedFiles            int        `json:"processedFiles"`
	SuccessFiles              int        `json:"successFiles"`
	PartialFiles              int        `json:"partialFiles"`
	SkippedFiles              int        `json:"skippedFiles"`
	ReadFailedFiles           int        `json:"readFailedFiles"`
	FailedFiles               int        `json:"failedFiles"`
	ImportedRecords           int64      `json:"importedRecords"`
	DuplicatesRemoved         int        `json:"duplicatesRemoved"`
	StartTime                 time.Time  `json:"startTime"`
	EndTime                   *time.Time `json:"endTime,omitempty"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
	EstimatedSecondsRemaining float64    `json:"estimatedTimeRemaining"`
}

// DeriveStats summarizes progress. totalFiles is the size of the discovered file list.
func DeriveStats(p *Progress, totalFiles int, startTime, now time.Time) Stats {
	s := Stats{
		Dataset:        p.Dataset,
		RunID:          p.RunID,
		TotalFiles:     totalFiles,
		ProcessedFiles: p.CurrentIndex,
		StartTime:      startTime,
		UpdatedAt:      now,
	}

	var seconds float64
	for _, r := range p.Results {
		switch r.Status {
		case FileSuccess:
			s.SuccessFiles++
		case FilePartial:
			s.PartialFiles++
		case FileSkipped:
			s.SkippedFiles++
		case FileReadFailed:
			s.ReadFailedFiles++
		}
		s.ImportedRecords += r.ImportedDelta
		s.DuplicatesRemoved += r.DuplicatesRemoved
		seconds += r.DurationSeconds
	}
	s.FailedFiles = s.PartialFiles + s.ReadFailedFiles

	if remaining := totalFiles - p.CurrentIndex; remaining > 0 && p.CurrentIndex > 0 {
		s.EstimatedSecondsRemaining = seconds / float64(p.CurrentIndex) * float64(remaining)
	}
	return s
}
