package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/gosdk/logger"
)

var _ port.Journal = (*FileJournal)(nil)

// FileJournal appends one line per event to <dir>/<dataset>.log:
//
//	2026-10-17T08:00:00.000Z [WARN] Chunk retry file=a.csv chunk=2/5 status_code=503
type FileJournal struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

func Open(dir, dataset string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(Path(dir, dataset), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &FileJournal{file: f, now: time.Now}, nil
}

func Path(dir, dataset string) string {
	return filepath.Join(dir, dataset+".log")
}

func (j *FileJournal) Record(level, msg string, keysAndValues ...any) {
	line := Format(j.now(), level, msg, keysAndValues...)

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.WriteString(line); err != nil {
		logger.Warnw("Journal write failed", "error", err.Error())
	}
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Format renders one journal line including the trailing newline.
func Format(at time.Time, level, msg string, keysAndValues ...any) string {
	var b strings.Builder
	b.WriteString(at.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(keysAndValues[i]))
		b.WriteByte('=')
		if i+1 < len(keysAndValues) {
			b.WriteString(quoteIfNeeded(fmt.Sprint(keysAndValues[i+1])))
		} else {
			b.WriteString("<missing>")
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func quoteIfNeeded(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\r\"=") {
		return strconv.Quote(v)
	}
	return v
}

// Discard drops every event.
type Discard struct{}

func (Discard) Record(string, string, ...any) {}
func (Discard) Close() error { return nil }
