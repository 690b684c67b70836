package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRecords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain lines",
			text: "name,company\na,x\nb,y\n",
			want: []string{"name,company", "a,x", "b,y"},
		},
		{
			name: "crlf and blank lines",
			text: "name,company\r\na,x\r\n\r\n  \r\nb,y",
			want: []string{"name,company", "a,x", "b,y"},
		},
		{
			name: "quoted newline stays in one record",
			text: "name,desc\n\"a\",\"line1\nline2\"\nb,c",
			want: []string{"name,desc", "\"a\",\"line1\nline2\"", "b,c"},
		},
		{
			name: "escaped quotes inside quoted field",
			text: "name,desc\n\"a\",\"say \"\"hi\"\"\nthere\"\nb,c",
			want: []string{"name,desc", "\"a\",\"say \"\"hi\"\"\nthere\"", "b,c"},
		},
		{
			name: "stray quote inside unquoted field is literal",
			text: "name,company\n12\" pipe,Acme\nvalve,Acme\n3/4\" elbow,Acme",
			want: []string{"name,company", "12\" pipe,Acme", "valve,Acme", "3/4\" elbow,Acme"},
		},
		{
			name: "bom stripped",
			text: "\ufeffname\nx",
			want: []string{"name", "x"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRecords(tt.text))
		})
	}
}

func TestParseTable(t *testing.T) {
	table := ParseTable("name,company\na,x\nb,y")
	assert.Equal(t, "name,company", table.Header)
	assert.Equal(t, 2, table.RowCount())

	empty := ParseTable("\n\n")
	assert.Equal(t, "", empty.Header)
	assert.Equal(t, 0, empty.RowCount())

	headerOnly := ParseTable("name,company\n")
	assert.Equal(t, 0, headerOnly.RowCount())
}

func TestParseTable_StrayQuoteKeepsRowsBounded(t *testing.T) {
	const n = 3000
	var b strings.Builder
	b.WriteString("name,company\n12\" pipe,Acme")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "\nitem-%d,Acme", i)
	}

	table := ParseTable(b.String())
	assert.Equal(t, n+1, table.RowCount())
	assert.Equal(t, "12\" pipe,Acme", table.Rows[0])
	assert.Equal(t, fmt.Sprintf("item-%d,Acme", n), table.Rows[n])
}

func TestNewChunk(t *testing.T) {
	c := NewChunk(0, "h", []string{"r1", "r2", "r3"}, 4)
	assert.Equal(t, 4, c.StartLine)
	assert.Equal(t, 6, c.EndLine)
	assert.Equal(t, "h\nr1\nr2\nr3", c.Content())
	assert.NotZero(t, c.Fingerprint)

	same := NewChunk(7, "h", []string{"r1", "r2", "r3"}, 4)
	assert.Equal(t, c.Fingerprint, same.Fingerprint)

	other := NewChunk(0, "h", []string{"r1", "r2", "r4"}, 4)
	assert.NotEqual(t, c.Fingerprint, other.Fingerprint)
}
