package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/go-csv-import-pipeline/pkg/resilience"
)

// DedupFilter drops rows whose (name, company) already exists remotely.
//
// It is best-effort: lookups and the later import are not transactional, so a
// concurrent writer or a lagging search index can still let duplicates through.
// Lookup failures keep the row.
type DedupFilter struct {
	store       port.RecordStore
	breaker     *resilience.CircuitBreaker
	synonyms    []string
	lookupDelay time.Duration
	events      events
}

// DedupResult is the outcome of filtering one file.
type DedupResult struct {
	Rows         []string
	Removed      int
	CheckedKeys  int
	LookupErrors int
}

func NewDedupFilter(store port.RecordStore, cfg config.DedupConfig, journal port.Journal) *DedupFilter {
	f := &DedupFilter{
		store:       store,
		synonyms:    cfg.NameSynonyms,
		lookupDelay: cfg.LookupDelay(),
		events:      events{journal: journal},
	}
	f.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "records/search",
		FailureThreshold: cfg.BreakerFailureThreshold,
		OpenTimeout:      cfg.BreakerOpenTimeout(),
		OnStateChange: func(name string, from, to resilience.CircuitBreakerState) {
			if to == resilience.CircuitOpen {
				f.events.warn("Duplicate lookups suspended, rows kept until search recovers", "breaker", name)
				return
			}
			f.events.info("Duplicate lookup breaker state changed", "breaker", name, "from", string(from), "to", string(to))
		},
	})
	return f
}

// Filter returns the rows of table that are not already present for company.
// The only error it returns is context cancellation.
func (f *DedupFilter) Filter(ctx context.Context, token string, table domain.Table, company string) (DedupResult, error) {
	nameCol := f.nameColumn(table.Header)

	rowKeys := make([]*domain.DedupKey, len(table.Rows))
	order := make([]domain.DedupKey, 0, len(table.Rows))
	seen := make(map[domain.DedupKey]bool, len(table.Rows))
	for i, row := range table.Rows {
		name, ok := fieldAt(row, nameCol)
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		key := domain.NewDedupKey(name, company)
		rowKeys[i] = &key
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	result := DedupResult{CheckedKeys: len(order)}
	duplicate := make(map[domain.DedupKey]bool, len(order))
	for i, key := range order {
		if i > 0 && !resilience.SleepContext(ctx, f.lookupDelay) {
			return DedupResult{}, ctx.Err()
		}

		dup, err := f.lookup(ctx, token, key)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return DedupResult{}, ctxErr
		}
		if err != nil {
			result.LookupErrors++
			if !errors.Is(err, resilience.ErrCircuitOpen) {
				f.events.warn("Duplicate lookup failed, keeping row", "name", key.Name, "company", key.Company, "error", err.Error())
			}
			continue
		}
		duplicate[key] = dup
	}

	result.Rows = make([]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		if k := rowKeys[i]; k != nil && duplicate[*k] {
			result.Removed++
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func (f *DedupFilter) lookup(ctx context.Context, token string, key domain.DedupKey) (bool, error) {
	var dup bool
	err := f.breaker.Execute(ctx, func(ctx context.Context) error {
		records, err := f.store.SearchRecords(ctx, token, key.Name, key.Company)
		if err != nil {
			return err
		}
		for _, r := range records {
			if key.Matches(r) {
				dup = true
				break
			}
		}
		return nil
	})
	return dup, err
}

// nameColumn returns the first header column matching a synonym, else 0.
func (f *DedupFilter) nameColumn(header string) int {
	fields, err := parseRecord(header)
	if err != nil {
		return 0
	}
	for i, h := range fields {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, syn := range f.synonyms {
			if syn != "" && strings.Contains(h, strings.ToLower(syn)) {
				return i
			}
		}
	}
	return 0
}

func fieldAt(row string, col int) (string, bool) {
	fields, err := parseRecord(row)
	if err != nil || col >= len(fields) {
		return "", false
	}
	return fields[col], true
}

func parseRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}
