package port

import (
	"context"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

//go:generate mockgen -destination=../service/mocks/record_store_mock.go -package=mocks -source=record_store.go

// RecordStore is the remote record API the pipeline writes to.
type RecordStore interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// CountRecords returns the remote total record count.
	CountRecords(ctx context.Context, token string) (int64, error)

	// SearchRecords returns records matching name within company.
	SearchRecords(ctx context.Context, token, name, company string) ([]domain.RemoteRecord, error)

	// ImportChunk uploads one CSV chunk. Non-2xx answers come back as *domain.RemoteStatusError.
	ImportChunk(ctx context.Context, token string, req domain.ImportRequest) (domain.ImportReply, error)
}
