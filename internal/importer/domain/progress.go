package domain

import (
	"fmt"
	"time"
)

// Progress is the resume cursor of a dataset.
// Results[0:CurrentIndex] are exactly the completed files in discovery order.
type Progress struct {
	Dataset      string       `json:"dataset"`
	RunID        string       `json:"runId,omitempty"`
	CurrentIndex int          `json:"currentIndex"`
	Results      []FileResult `json:"results"`
	Timestamp    time.Time    `json:"timestamp"`
}

// NewProgress returns an empty cursor positioned at the first file.
func NewProgress(dataset string) *Progress {
	return &Progress{
		Dataset: dataset,
		Results: []FileResult{},
	}
}

// Validate checks the cursor against the recorded results.
func (p *Progress) Validate() error {
	if p.CurrentIndex < 0 {
		return fmt.Errorf("%w: negative currentIndex %d", ErrProgressCorrupt, p.CurrentIndex)
	}
	if p.CurrentIndex != len(p.Results) {
		return fmt.Errorf("%w: currentIndex %d but %d results", ErrProgressCorrupt, p.CurrentIndex, len(p.Results))
	}
	return nil
}

// Append records a finished file and advances the cursor.
func (p *Progress) Append(result FileResult, at time.Time) {
	p.Results = append(p.Results, result)
	p.CurrentIndex = len(p.Results)
	p.Timestamp = at
}

// Truncate forgets every result at or after index so those files are processed again.
func (p *Progress) Truncate(index int, at time.Time) error {
	if index < 0 || index > p.CurrentIndex {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidTruncate, index, p.CurrentIndex)
	}
	p.Results = append([]FileResult(nil), p.Results[:index]...)
	p.CurrentIndex = index
	p.Timestamp = at
	return nil
}

// VerifyPrefix checks that the recorded results line up with the discovered file list.
func (p *Progress) VerifyPrefix(files []SourceFile) error {
	if p.CurrentIndex > len(files) {
		return fmt.Errorf("%w: %d files recorded but only %d discovered", ErrProgressMismatch, p.CurrentIndex, len(files))
	}
	for i := 0; i < p.CurrentIndex; i++ {
		if p.Results[i].Filename != files[i].Filename {
			return fmt.Errorf("%w: position %d recorded %q but discovered %q",
				ErrProgressMismatch, i, p.Results[i].Filename, files[i].Filename)
		}
	}
	return nil
}
