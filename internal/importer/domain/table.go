package domain

import "strings"

// Table is the raw text of a CSV source split into its header record and data records.
// Records are kept verbatim so that chunks can be rebuilt without re-encoding.
type Table struct {
	Header string
	Rows   []string
}

// ParseTable splits CSV text into records. The first non-blank record is the header.
func ParseTable(text string) Table {
	records := SplitRecords(text)
	if len(records) == 0 {
		return Table{}
	}
	return Table{Header: records[0], Rows: records[1:]}
}

// RowCount returns the number of data records.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// WithRows returns a copy of the table carrying the given data records.
func (t Table) WithRows(rows []string) Table {
	return Table{Header: t.Header, Rows: rows}
}

// SplitRecords splits CSV text on line breaks that are outside double-quoted fields.
// A quote only opens a quoted field at the start of a field; a stray quote inside an
// unquoted field (12" pipe) is literal. CRLF is normalized to LF, a leading UTF-8 BOM
// is dropped and blank records are skipped.
func SplitRecords(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		records    []string
		start      int
		quoted     bool
		fieldStart = true
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quoted {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					i++
					continue
				}
				quoted = false
			}
			continue
		}

		switch c {
		case '"':
			quoted = fieldStart
			fieldStart = false
		case ',':
			fieldStart = true
		case '\n':
			records = appendRecord(records, text[start:i])
			start = i + 1
			fieldStart = true
		default:
			fieldStart = false
		}
	}
	if start < len(text) {
		records = appendRecord(records, text[start:])
	}
	return records
}

func appendRecord(records []string, record string) []string {
	record = strings.TrimSuffix(record, "\r")
	if strings.TrimSpace(record) == "" {
		return records
	}
	return append(records, record)
}
