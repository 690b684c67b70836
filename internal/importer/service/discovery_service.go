package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

// partPattern matches <prefix>_part_<n>.<ext> and the -part<n> / _part<n> spellings.
func partPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `[_-]?part_?(\d{1,3})\.([A-Za-z0-9]+)$`)
}

// DiscoverFiles lists the dataset's part-files in ascending part order.
// Files that do not match the naming convention or the part range are skipped.
func DiscoverFiles(ds config.Dataset) ([]domain.SourceFile, error) {
	entries, err := os.ReadDir(ds.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDiscovery, ds.SourceDir, err)
	}

	allowed := make(map[string]bool, len(ds.Extensions))
	for _, ext := range ds.Extensions {
		allowed[strings.ToLower(ext)] = true
	}
	pattern := partPattern(ds.Prefix)

	files := make([]domain.SourceFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil || !allowed[strings.ToLower(m[2])] {
			continue
		}
		part, err := strconv.Atoi(m[1])
		if err != nil || part < ds.PartMin || part > ds.PartMax {
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, domain.SourceFile{
			Filename:   entry.Name(),
			Path:       filepath.Join(ds.SourceDir, entry.Name()),
			SizeBytes:  size,
			PartNumber: part,
			Company:    ds.CompanyFor(entry.Name(), part),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].PartNumber != files[j].PartNumber {
			return files[i].PartNumber < files[j].PartNumber
		}
		return files[i].Filename < files[j].Filename
	})
	return files, nil
}
