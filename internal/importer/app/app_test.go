package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/stubremote"
)

const datasetsYAML = `datasets:
  - name: items
    source_dir: %s
    prefix: items
    default_company: Acme
`

type fixture struct {
	app      *App
	stub     *stubremote.Server
	out      *bytes.Buffer
	stateDir string
}

func writeSource(t *testing.T, dir, name string, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("name,company")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, "\n%s-%d,Acme", strings.TrimSuffix(name, ".csv"), i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func newFixture(t *testing.T, password string) *fixture {
	t.Helper()
	root := t.TempDir()
	sourceDir := filepath.Join(root, "source")
	require.NoError(t, os.MkdirAll(sourceDir, 0o755))
	writeSource(t, sourceDir, "items_part_1.csv", 5)
	writeSource(t, sourceDir, "items_part_2.csv", 3)

	datasetsFile := filepath.Join(root, "datasets.yaml")
	require.NoError(t, os.WriteFile(datasetsFile, []byte(fmt.Sprintf(datasetsYAML, sourceDir)), 0o644))

	cfg := config.DefaultConfig()
	cfg.App.DatasetsFile = datasetsFile
	cfg.Remote.BaseURL = "http://stub/api"
	cfg.Remote.Username = "u"
	cfg.Remote.Password = password
	cfg.Upload.BaseDelayMS = 1
	cfg.Upload.ChunkDelayMS = 0
	cfg.Dedup.LookupDelayMS = 0
	cfg.Pacing.FileDelayMS = 0
	cfg.Pacing.BatchDelayMS = 0
	cfg.Pacing.SettleDelayMS = 0
	cfg.State.Dir = filepath.Join(root, "state")

	stub := stubremote.New(stubremote.Options{Username: "u", Password: "p"})
	out := &bytes.Buffer{}
	a, err := NewWithConfig(cfg,
		WithHTTPClient(&http.Client{Transport: stub.Transport()}),
		WithOutput(out),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &fixture{app: a, stub: stub, out: out, stateDir: cfg.State.Dir}
}

func TestApp_RunImportsAllFiles(t *testing.T) {
	f := newFixture(t, "p")

	report, err := f.app.Run(context.Background(), RunOptions{Dataset: "items"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.ProcessedFiles)
	assert.Equal(t, 2, report.Success)
	assert.Equal(t, int64(8), report.ImportedRecords)
	assert.Equal(t, 8, f.stub.Count())
	assert.NotEmpty(t, report.RunID)
	assert.Contains(t, f.out.String(), "Files processed:")

	assert.FileExists(t, filepath.Join(f.stateDir, "items.progress.json"))
	assert.FileExists(t, filepath.Join(f.stateDir, "items.stats.json"))
	journalText, err := os.ReadFile(filepath.Join(f.stateDir, "items.log"))
	require.NoError(t, err)
	assert.Contains(t, string(journalText), "[INFO] Run finished")
}

func TestApp_RunRefusesCompletedProgressWithoutResume(t *testing.T) {
	f := newFixture(t, "p")
	_, err := f.app.Run(context.Background(), RunOptions{Dataset: "items"})
	require.NoError(t, err)
	imports := f.stub.Calls(stubremote.RouteImport)

	_, err = f.app.Run(context.Background(), RunOptions{Dataset: "items"})
	assert.ErrorIs(t, err, domain.ErrProgressExists)

	report, err := f.app.Run(context.Background(), RunOptions{Dataset: "items", Resume: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.ImportedThisRun)
	assert.Equal(t, imports, f.stub.Calls(stubremote.RouteImport), "resume must not upload completed files")
}

func TestApp_LoginFailureIsFatal(t *testing.T) {
	f := newFixture(t, "wrong")

	report, err := f.app.Run(context.Background(), RunOptions{Dataset: "items"})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Zero(t, f.stub.Calls(stubremote.RouteImport))
}

func TestApp_UsageErrors(t *testing.T) {
	f := newFixture(t, "p")

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "unknown dataset",
			run: func() error {
				_, err := f.app.Run(context.Background(), RunOptions{Dataset: "nope"})
				return err
			},
		},
		{
			name: "missing dataset",
			run: func() error {
				return f.app.Status("")
			},
		},
		{
			name: "negative batch size",
			run: func() error {
				_, err := f.app.Run(context.Background(), RunOptions{Dataset: "items", BatchSize: -1})
				return err
			},
		},
		{
			name: "truncate beyond cursor",
			run: func() error {
				return f.app.Truncate(context.Background(), "items", 5)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrUsage)
		})
	}
}

func TestApp_StatusAndTruncate(t *testing.T) {
	f := newFixture(t, "p")

	require.NoError(t, f.app.Status("items"))
	assert.Contains(t, f.out.String(), "no recorded progress")

	_, err := f.app.Run(context.Background(), RunOptions{Dataset: "items"})
	require.NoError(t, err)

	f.out.Reset()
	require.NoError(t, f.app.Status("items"))
	assert.Contains(t, f.out.String(), "2/2")
	assert.Contains(t, f.out.String(), "Finished at:")
	assert.Regexp(t, `Last run:\s+\d+ \(started \d{4}-\d{2}-\d{2}T`, f.out.String())

	require.NoError(t, f.app.Truncate(context.Background(), "items", 1))

	f.out.Reset()
	require.NoError(t, f.app.Status("items"))
	assert.Contains(t, f.out.String(), "1/2")
	assert.Contains(t, f.out.String(), "items_part_2.csv")

	// Every row of part 2 is already remote, so the rerun skips it.
	report, err := f.app.Run(context.Background(), RunOptions{Dataset: "items", Resume: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 8, f.stub.Count())
}
