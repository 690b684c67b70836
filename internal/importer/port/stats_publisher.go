package port

import (
	"context"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

//go:generate mockgen -destination=../service/mocks/stats_publisher_mock.go -package=mocks -source=stats_publisher.go

// StatsPublisher mirrors stats to an external observer. Failures are never fatal.
type StatsPublisher interface {
	PublishStats(ctx context.Context, stats domain.Stats) error
}
