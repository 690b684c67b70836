package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encodings accepted for csv sources.
const (
	EncodingUTF8 = "utf-8"
	EncodingGBK  = "gbk"
)

// Dataset describes one family of part-files and how to import it.
type Dataset struct {
	Name           string        `yaml:"name"`
	SourceDir      string        `yaml:"source_dir"`
	Prefix         string        `yaml:"prefix"`
	Extensions     []string      `yaml:"extensions"`
	PartMin        int           `yaml:"part_min"`
	PartMax        int           `yaml:"part_max"`
	Encoding       string        `yaml:"encoding"`
	FixedChunkRows int           `yaml:"fixed_chunk_rows"`
	DefaultCompany string        `yaml:"default_company"`
	CompanyRules   []CompanyRule `yaml:"company_rules"`
}

// CompanyRule assigns a company to files whose name or part number matches.
// Empty conditions match everything; the first matching rule wins.
type CompanyRule struct {
	FilenameContains string `yaml:"filename_contains"`
	PartMin          int    `yaml:"part_min"`
	PartMax          int    `yaml:"part_max"`
	Company          string `yaml:"company"`
}

func (r CompanyRule) matches(filename string, part int) bool {
	if r.FilenameContains != "" && !strings.Contains(filename, r.FilenameContains) {
		return false
	}
	if r.PartMin > 0 && part < r.PartMin {
		return false
	}
	if r.PartMax > 0 && part > r.PartMax {
		return false
	}
	return true
}

// CompanyFor resolves the owning company of a part-file.
func (d Dataset) CompanyFor(filename string, part int) string {
	for _, rule := range d.CompanyRules {
		if rule.matches(filename, part) {
			return rule.Company
		}
	}
	return d.DefaultCompany
}

// Datasets is the parsed datasets file.
type Datasets struct {
	Datasets []Dataset `yaml:"datasets"`
}

// Find returns the dataset with the given name.
func (d *Datasets) Find(name string) (Dataset, error) {
	for _, ds := range d.Datasets {
		if ds.Name == name {
			return ds, nil
		}
	}
	return Dataset{}, fmt.Errorf("dataset %q not defined", name)
}

// LoadDatasets reads and validates a datasets file.
func LoadDatasets(path string) (*Datasets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read datasets file: %w", err)
	}
	return ParseDatasets(raw)
}

// ParseDatasets decodes datasets YAML, applies defaults and validates every entry.
func ParseDatasets(raw []byte) (*Datasets, error) {
	var out Datasets
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse datasets file: %w", err)
	}

	seen := make(map[string]bool, len(out.Datasets))
	var errs []error
	for i := range out.Datasets {
		ds := &out.Datasets[i]
		applyDatasetDefaults(ds)
		if err := ds.validate(); err != nil {
			errs = append(errs, fmt.Errorf("dataset #%d (%s): %w", i, ds.Name, err))
			continue
		}
		if seen[ds.Name] {
			errs = append(errs, fmt.Errorf("dataset %q defined twice", ds.Name))
		}
		seen[ds.Name] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &out, nil
}

func applyDatasetDefaults(ds *Dataset) {
	if len(ds.Extensions) == 0 {
		ds.Extensions = []string{"csv"}
	}
	for i, ext := range ds.Extensions {
		ds.Extensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	if ds.Encoding == "" {
		ds.Encoding = EncodingUTF8
	}
	ds.Encoding = strings.ToLower(ds.Encoding)
	if ds.PartMin <= 0 {
		ds.PartMin = 1
	}
	if ds.PartMax <= 0 {
		ds.PartMax = 999
	}
}

func (d Dataset) validate() error {
	switch {
	case d.Name == "":
		return errors.New("name is required")
	case d.SourceDir == "":
		return errors.New("source_dir is required")
	case d.Prefix == "":
		return errors.New("prefix is required")
	case d.PartMin > d.PartMax:
		return fmt.Errorf("part_min %d > part_max %d", d.PartMin, d.PartMax)
	case d.FixedChunkRows < 0:
		return errors.New("fixed_chunk_rows must be >= 0")
	case d.Encoding != EncodingUTF8 && d.Encoding != EncodingGBK:
		return fmt.Errorf("unsupported encoding %q", d.Encoding)
	}
	return nil
}
