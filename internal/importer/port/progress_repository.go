package port

import (
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

//go:generate mockgen -destination=../service/mocks/progress_repository_mock.go -package=mocks -source=progress_repository.go

// ProgressRepository persists the resume cursor and its derived stats.
type ProgressRepository interface {
	// LoadProgress returns the stored progress, or false when none exists.
	LoadProgress(dataset string) (*domain.Progress, bool, error)

	// SaveProgress replaces the stored progress atomically.
	SaveProgress(p *domain.Progress) error

	// LoadStats returns the stored stats, or false when none exists.
	LoadStats(dataset string) (*domain.Stats, bool, error)

	// SaveStats replaces the stored stats atomically.
	SaveStats(s domain.Stats) error
}
