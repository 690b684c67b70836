package service

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

// Failure is one entry of the report's failure list.
type Failure struct {
	Filename string
	Status   domain.FileStatus
	Error    string
	Chunk    *domain.ChunkFailure
}

// Report summarizes a dataset after a run. Counts cover every recorded file,
// ImportedThisRun and WallTime cover only the current invocation.
type Report struct {
	Dataset           string
	RunID             string
	TotalFiles        int
	ProcessedFiles    int
	Success           int
	Partial           int
	Skipped           int
	ReadFailed        int
	ImportedRecords   int64
	ImportedThisRun   int64
	DuplicatesRemoved int
	WallTime          time.Duration
	Failures          []Failure
}

func BuildReport(p *domain.Progress, totalFiles int, importedThisRun int64, wall time.Duration) *Report {
	stats := domain.DeriveStats(p, totalFiles, time.Time{}, time.Time{})
	r := &Report{
		Dataset:           p.Dataset,
		RunID:             p.RunID,
		TotalFiles:        totalFiles,
		ProcessedFiles:    stats.ProcessedFiles,
		Success:           stats.SuccessFiles,
		Partial:           stats.PartialFiles,
		Skipped:           stats.SkippedFiles,
		ReadFailed:        stats.ReadFailedFiles,
		ImportedRecords:   stats.ImportedRecords,
		ImportedThisRun:   importedThisRun,
		DuplicatesRemoved: stats.DuplicatesRemoved,
		WallTime:          wall,
	}

	for _, res := range p.Results {
		switch res.Status {
		case domain.FileReadFailed:
			r.Failures = append(r.Failures, Failure{Filename: res.Filename, Status: res.Status, Error: res.Error})
		case domain.FilePartial:
			for i := range res.ChunkFailures {
				cf := res.ChunkFailures[i]
				r.Failures = append(r.Failures, Failure{Filename: res.Filename, Status: res.Status, Error: cf.Error, Chunk: &cf})
			}
		}
	}
	return r
}

// Incomplete reports whether any file needs another look.
func (r *Report) Incomplete() bool {
	return r.Partial > 0 || r.ReadFailed > 0
}

// Throughput is records imported per minute during this run.
func (r *Report) Throughput() float64 {
	minutes := r.WallTime.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(r.ImportedThisRun) / minutes
}

// Render writes a human readable summary.
func (r *Report) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Dataset:\t%s\n", r.Dataset)
	if r.RunID != "" {
		fmt.Fprintf(tw, "Run:\t%s\n", r.RunID)
	}
	fmt.Fprintf(tw, "Files processed:\t%d/%d\n", r.ProcessedFiles, r.TotalFiles)
	fmt.Fprintf(tw, "Success:\t%d\n", r.Success)
	fmt.Fprintf(tw, "Partial:\t%d\n", r.Partial)
	fmt.Fprintf(tw, "Unreadable:\t%d\n", r.ReadFailed)
	fmt.Fprintf(tw, "Skipped:\t%d\n", r.Skipped)
	fmt.Fprintf(tw, "Duplicates removed:\t%d\n", r.DuplicatesRemoved)
	fmt.Fprintf(tw, "Records imported (total):\t%d\n", r.ImportedRecords)
	fmt.Fprintf(tw, "Records imported (this run):\t%d\n", r.ImportedThisRun)
	fmt.Fprintf(tw, "Wall time:\t%s\n", r.WallTime.Round(time.Second))
	fmt.Fprintf(tw, "Throughput:\t%.1f records/min\n", r.Throughput())
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Failures) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return RenderFailures(w, r.Failures)
}

// RenderFailures writes one line per failure with its chunk line range, HTTP status and fingerprint.
func RenderFailures(w io.Writer, failures []Failure) error {
	fmt.Fprintf(w, "Failures (%d):\n", len(failures))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tLINES\tHTTP\tFINGERPRINT\tERROR")
	for _, f := range failures {
		lines, code, fp := "-", "-", "-"
		if f.Chunk != nil {
			lines = fmt.Sprintf("%d-%d", f.Chunk.StartLine, f.Chunk.EndLine)
			fp = fmt.Sprintf("%016x", f.Chunk.Fingerprint)
			if f.Chunk.StatusCode > 0 {
				code = fmt.Sprint(f.Chunk.StatusCode)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", f.Filename, f.Status, lines, code, fp, f.Error)
	}
	return tw.Flush()
}
