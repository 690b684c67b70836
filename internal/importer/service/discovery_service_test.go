package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"data_part_10.csv",
		"data_part_02.csv",
		"data_part_100.csv",
		"data-part003.CSV",
		"data_part_01.xlsx",
		"data_part_05.txt",
		"other_part_01.csv",
		"data_part_x.csv",
		"data_part_200.csv",
		"data_part_51连接器.csv",
		"notes.md",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("name\nx\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data_part_04.csv"), 0o755))

	ds := config.Dataset{
		Name:           "data",
		SourceDir:      dir,
		Prefix:         "data",
		Extensions:     []string{"csv", "xlsx"},
		PartMin:        1,
		PartMax:        100,
		DefaultCompany: "Acme",
		CompanyRules:   []config.CompanyRule{{PartMin: 10, PartMax: 10, Company: "Ten Corp"}},
	}

	files, err := DiscoverFiles(ds)
	require.NoError(t, err)

	got := make([]string, 0, len(files))
	for _, f := range files {
		got = append(got, f.Filename)
	}
	assert.Equal(t, []string{
		"data_part_01.xlsx",
		"data_part_02.csv",
		"data-part003.CSV",
		"data_part_10.csv",
		"data_part_100.csv",
	}, got)

	assert.Equal(t, 10, files[3].PartNumber)
	assert.Equal(t, "Ten Corp", files[3].Company)
	assert.Equal(t, "Acme", files[1].Company)
	assert.Equal(t, filepath.Join(dir, "data_part_02.csv"), files[1].Path)
	assert.Equal(t, int64(7), files[1].SizeBytes)
}

func TestDiscoverFiles_PrefixIsLiteral(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"9.16表_part_01.csv", "9x16表_part_02.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	files, err := DiscoverFiles(config.Dataset{SourceDir: dir, Prefix: "9.16表", Extensions: []string{"csv"}, PartMin: 1, PartMax: 99})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "9.16表_part_01.csv", files[0].Filename)
}

func TestDiscoverFiles_UnreadableDir(t *testing.T) {
	_, err := DiscoverFiles(config.Dataset{SourceDir: filepath.Join(t.TempDir(), "missing"), Prefix: "data"})
	assert.ErrorIs(t, err, domain.ErrDiscovery)
}
