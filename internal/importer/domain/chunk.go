package domain

import (
	"strings"

	"github.com/spaolacci/murmur3"
)

// Chunk is a contiguous slice of a file's data rows prefixed by the header.
// StartLine and EndLine are 1-based positions in the data row sequence it was cut from.
type Chunk struct {
	Index     int
	Header    string
	Rows      []string
	StartLine int
	EndLine   int
	// Fingerprint is the murmur3 hash of Content, used to match failures across runs.
	Fingerprint uint64
}

// NewChunk builds a chunk whose first row sits at startLine.
func NewChunk(index int, header string, rows []string, startLine int) Chunk {
	c := Chunk{
		Index:     index,
		Header:    header,
		Rows:      rows,
		StartLine: startLine,
		EndLine:   startLine + len(rows) - 1,
	}
	c.Fingerprint = murmur3.Sum64([]byte(c.Content()))
	return c
}

// Content is the CSV payload sent to the import endpoint.
func (c Chunk) Content() string {
	var b strings.Builder
	b.WriteString(c.Header)
	for _, row := range c.Rows {
		b.WriteByte('\n')
		b.WriteString(row)
	}
	return b.String()
}

// RowCount returns the number of data rows carried by the chunk.
func (c Chunk) RowCount() int {
	return len(c.Rows)
}
