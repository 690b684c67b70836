package service

import "github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"

// chunkBrackets maps a minimum total row count (exclusive) to rows per chunk.
// Bigger files get smaller chunks to stay under the remote's request limits.
var chunkBrackets = []struct {
	above int
	rows  int
}{
	{above: 3000, rows: 70},
	{above: 2000, rows: 100},
	{above: 1500, rows: 120},
	{above: 800, rows: 150},
}

const defaultChunkRows = 250

// RowsPerChunk picks the chunk size for a file with totalRows data rows.
// A positive fixed value overrides the bracket table.
func RowsPerChunk(totalRows, fixed int) int {
	if fixed > 0 {
		return fixed
	}
	for _, b := range chunkBrackets {
		if totalRows > b.above {
			return b.rows
		}
	}
	return defaultChunkRows
}

// SplitChunks cuts the table's rows into consecutive chunks of at most rowsPerChunk rows.
func SplitChunks(table domain.Table, rowsPerChunk int) []domain.Chunk {
	if rowsPerChunk <= 0 {
		rowsPerChunk = defaultChunkRows
	}

	total := table.RowCount()
	chunks := make([]domain.Chunk, 0, (total+rowsPerChunk-1)/rowsPerChunk)
	for start := 0; start < total; start += rowsPerChunk {
		end := min(start+rowsPerChunk, total)
		chunks = append(chunks, domain.NewChunk(len(chunks), table.Header, table.Rows[start:end], start+1))
	}
	return chunks
}
