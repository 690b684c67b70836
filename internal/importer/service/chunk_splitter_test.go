package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsPerChunk(t *testing.T) {
	tests := []struct {
		rows  int
		fixed int
		want  int
	}{
		{rows: 0, want: 250},
		{rows: 800, want: 250},
		{rows: 801, want: 150},
		{rows: 1500, want: 150},
		{rows: 1501, want: 120},
		{rows: 2000, want: 120},
		{rows: 2001, want: 100},
		{rows: 3000, want: 100},
		{rows: 3001, want: 70},
		{rows: 50000, want: 70},
		{rows: 50000, fixed: 500, want: 500},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rows=%d fixed=%d", tt.rows, tt.fixed), func(t *testing.T) {
			assert.Equal(t, tt.want, RowsPerChunk(tt.rows, tt.fixed))
		})
	}
}

func TestSplitChunks_Lossless(t *testing.T) {
	for _, n := range []int{0, 1, 249, 250, 251, 801, 3001} {
		t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
			rows := make([]string, n)
			for i := range rows {
				rows[i] = fmt.Sprintf("row-%d,\"a\nb\"", i)
			}
			table := domain.Table{Header: "name,desc", Rows: rows}
			size := RowsPerChunk(n, 0)

			chunks := SplitChunks(table, size)

			var rebuilt []string
			nextLine := 1
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.Equal(t, "name,desc", c.Header)
				assert.LessOrEqual(t, c.RowCount(), size)
				assert.Greater(t, c.RowCount(), 0)
				assert.Equal(t, nextLine, c.StartLine)
				assert.Equal(t, c.StartLine+c.RowCount()-1, c.EndLine)
				nextLine = c.EndLine + 1
				rebuilt = append(rebuilt, c.Rows...)
			}
			if n == 0 {
				assert.Empty(t, chunks)
				return
			}
			require.Equal(t, rows, rebuilt)
		})
	}
}

func TestSplitChunks_ContentCarriesHeader(t *testing.T) {
	table := domain.ParseTable("h1,h2\na,1\nb,2\nc,3")
	chunks := SplitChunks(table, 2)

	require.Len(t, chunks, 2)
	assert.Equal(t, "h1,h2\na,1\nb,2", chunks[0].Content())
	assert.Equal(t, "h1,h2\nc,3", chunks[1].Content())
	assert.Equal(t, 3, chunks[1].StartLine)
	assert.Equal(t, 3, chunks[1].EndLine)
}

func TestSplitChunks_StrayQuoteSourceStaysBounded(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,company\n12\" pipe,Acme")
	for i := 1; i <= 3000; i++ {
		fmt.Fprintf(&b, "\nitem-%d,Acme", i)
	}
	table := domain.ParseTable(b.String())
	require.Equal(t, 3001, table.RowCount())

	chunks := SplitChunks(table, RowsPerChunk(table.RowCount(), 0))
	assert.Len(t, chunks, 43)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.RowCount(), 70)
	}
	assert.Equal(t, 3001, chunks[len(chunks)-1].EndLine)
}
