package progress_store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
)

var _ port.ProgressRepository = (*FileStore)(nil)

// FileStore keeps <dataset>.progress.json and <dataset>.stats.json in one directory.
// Every save writes a temp file, fsyncs it and renames it over the target.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ProgressPath(dataset string) string {
	return filepath.Join(s.dir, dataset+".progress.json")
}

func (s *FileStore) StatsPath(dataset string) string {
	return filepath.Join(s.dir, dataset+".stats.json")
}

func (s *FileStore) LoadProgress(dataset string) (*domain.Progress, bool, error) {
	var p domain.Progress
	found, err := readJSON(s.ProgressPath(dataset), &p)
	if err != nil || !found {
		return nil, found, err
	}
	if p.Results == nil {
		p.Results = []domain.FileResult{}
	}
	if err := p.Validate(); err != nil {
		return nil, true, err
	}
	return &p, true, nil
}

func (s *FileStore) SaveProgress(p *domain.Progress) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return writeJSON(s.ProgressPath(p.Dataset), p)
}

func (s *FileStore) LoadStats(dataset string) (*domain.Stats, bool, error) {
	var st domain.Stats
	found, err := readJSON(s.StatsPath(dataset), &st)
	if err != nil || !found {
		return nil, found, err
	}
	return &st, true, nil
}

func (s *FileStore) SaveStats(st domain.Stats) error {
	return writeJSON(s.StatsPath(st.Dataset), st)
}

// readJSON decodes path strictly. A missing file reports found=false.
func readJSON(path string, v any) (bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", domain.ErrProgressCorrupt, path, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return true, fmt.Errorf("%w: %s: trailing content", domain.ErrProgressCorrupt, path)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, append(raw, '\n'))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true

	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir for sync: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync dir: %w", err)
	}
	return nil
}
