package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/remote_api"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/stubremote"
)

// memRepo is an in-memory ProgressRepository.
type memRepo struct {
	mu           sync.Mutex
	progress     map[string]*domain.Progress
	stats        map[string]domain.Stats
	saveErr      error
	progressSave int
}

func newMemRepo() *memRepo {
	return &memRepo{
		progress: make(map[string]*domain.Progress),
		stats:    make(map[string]domain.Stats),
	}
}

func copyProgress(p *domain.Progress) *domain.Progress {
	cp := *p
	cp.Results = append([]domain.FileResult{}, p.Results...)
	return &cp
}

func (r *memRepo) LoadProgress(dataset string) (*domain.Progress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.progress[dataset]
	if !ok {
		return nil, false, nil
	}
	return copyProgress(p), true, nil
}

func (r *memRepo) SaveProgress(p *domain.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.progressSave++
	r.progress[p.Dataset] = copyProgress(p)
	return nil
}

func (r *memRepo) LoadStats(dataset string) (*domain.Stats, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stats[dataset]
	if !ok {
		return nil, false, nil
	}
	return &st, true, nil
}

func (r *memRepo) SaveStats(s domain.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stats[s.Dataset] = s
	return nil
}

// fakeReader serves file text by filename.
type fakeReader struct {
	texts map[string]string
	reads []string
}

func (f *fakeReader) ReadText(ctx context.Context, file domain.SourceFile) (string, error) {
	f.reads = append(f.reads, file.Filename)
	text, ok := f.texts[file.Filename]
	if !ok {
		return "", &domain.LocalIOError{Path: file.Path, Err: fmt.Errorf("no such file")}
	}
	return text, nil
}

// recordingJournal keeps journal lines in memory.
type recordingJournal struct {
	mu      sync.Mutex
	entries []string
}

func (j *recordingJournal) Record(level, msg string, keysAndValues ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, level+" "+msg)
}

func (j *recordingJournal) Close() error { return nil }

func (j *recordingJournal) count(entry string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.entries {
		if e == entry {
			n++
		}
	}
	return n
}

// testConfig has every delay disabled except a tiny retry backoff.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Upload.BaseDelayMS = 1
	cfg.Upload.ChunkDelayMS = 0
	cfg.Dedup.LookupDelayMS = 0
	cfg.Pacing.FileDelayMS = 0
	cfg.Pacing.BatchDelayMS = 0
	cfg.Pacing.SettleDelayMS = 0
	return cfg
}

func newStub() (*stubremote.Server, *remote_api.Client) {
	stub := stubremote.New(stubremote.Options{Username: "u", Password: "p", Token: "tok"})
	client := remote_api.NewClient("http://stub/api", &http.Client{Transport: stub.Transport()}, 0)
	return stub, client
}

// csvText builds "name,company" text with n rows named <prefix>-<i>.
func csvText(prefix, company string, n int) string {
	text := "name,company"
	for i := 1; i <= n; i++ {
		text += fmt.Sprintf("\n%s-%d,%s", prefix, i, company)
	}
	return text
}

func sourceFiles(company string, names ...string) []domain.SourceFile {
	files := make([]domain.SourceFile, 0, len(names))
	for i, n := range names {
		files = append(files, domain.SourceFile{Filename: n, Path: "/data/" + n, PartNumber: i + 1, Company: company})
	}
	return files
}
