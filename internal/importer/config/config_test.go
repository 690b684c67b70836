package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Upload.MaxRetries)
	assert.Equal(t, 5, cfg.Pacing.BatchSize)
	assert.Equal(t, "5s", cfg.Upload.BaseDelay().String())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing base url", mutate: func(c *Config) { c.Remote.BaseURL = "" }},
		{name: "negative retries", mutate: func(c *Config) { c.Upload.MaxRetries = -1 }},
		{name: "zero batch size", mutate: func(c *Config) { c.Pacing.BatchSize = 0 }},
		{name: "missing state dir", mutate: func(c *Config) { c.State.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvRemoteUsername, "alice")
	t.Setenv(EnvRemotePassword, "secret")
	t.Setenv(EnvRemoteBaseURL, "https://records.example.com/api")

	cfg := DefaultConfig()
	applyEnv(cfg)

	assert.Equal(t, "alice", cfg.Remote.Username)
	assert.Equal(t, "secret", cfg.Remote.Password)
	assert.Equal(t, "https://records.example.com/api", cfg.Remote.BaseURL)
}

const datasetsYAML = `
datasets:
  - name: summary
    source_dir: /data
    prefix: "9.16数据汇总表"
    part_max: 100
    default_company: 中山市荣御电子科技有限公司
    company_rules:
      - filename_contains: 51连接器
        company: 信都数字科技（上海）有限公司
      - part_min: 90
        part_max: 90
        company: 深圳市熙霖特电子有限公司
  - name: sheets
    source_dir: /data
    prefix: sheet
    extensions: [".XLSX", csv]
    encoding: GBK
`

func TestParseDatasets(t *testing.T) {
	ds, err := ParseDatasets([]byte(datasetsYAML))
	require.NoError(t, err)
	require.Len(t, ds.Datasets, 2)

	summary, err := ds.Find("summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"csv"}, summary.Extensions)
	assert.Equal(t, EncodingUTF8, summary.Encoding)
	assert.Equal(t, 1, summary.PartMin)
	assert.Equal(t, 100, summary.PartMax)

	sheets, err := ds.Find("sheets")
	require.NoError(t, err)
	assert.Equal(t, []string{"xlsx", "csv"}, sheets.Extensions)
	assert.Equal(t, EncodingGBK, sheets.Encoding)

	_, err = ds.Find("missing")
	assert.Error(t, err)
}

func TestParseDatasetsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing prefix", yaml: "datasets:\n  - name: a\n    source_dir: /d\n"},
		{name: "bad range", yaml: "datasets:\n  - name: a\n    source_dir: /d\n    prefix: p\n    part_min: 9\n    part_max: 3\n"},
		{name: "bad encoding", yaml: "datasets:\n  - name: a\n    source_dir: /d\n    prefix: p\n    encoding: latin1\n"},
		{name: "duplicate", yaml: "datasets:\n  - name: a\n    source_dir: /d\n    prefix: p\n  - name: a\n    source_dir: /d\n    prefix: q\n"},
		{name: "not yaml", yaml: "datasets: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatasets([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDatasetCompanyFor(t *testing.T) {
	ds, err := ParseDatasets([]byte(datasetsYAML))
	require.NoError(t, err)
	summary, _ := ds.Find("summary")

	tests := []struct {
		filename string
		part     int
		want     string
	}{
		{filename: "9.16数据汇总表_part_01.csv", part: 1, want: "中山市荣御电子科技有限公司"},
		{filename: "9.16数据汇总表_part_90.csv", part: 90, want: "深圳市熙霖特电子有限公司"},
		{filename: "9.16数据汇总表_part_91.csv", part: 91, want: "中山市荣御电子科技有限公司"},
		{filename: "51连接器_part_90.csv", part: 90, want: "信都数字科技（上海）有限公司"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, summary.CompanyFor(tt.filename, tt.part))
		})
	}
}
