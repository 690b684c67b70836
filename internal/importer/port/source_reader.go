package port

import (
	"context"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

//go:generate mockgen -destination=../service/mocks/source_reader_mock.go -package=mocks -source=source_reader.go

// SourceReader turns a part-file into CSV text.
type SourceReader interface {
	// ReadText returns the file as UTF-8 CSV text. Failures are *domain.LocalIOError.
	ReadText(ctx context.Context, file domain.SourceFile) (string, error)
}
