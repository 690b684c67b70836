package source_reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var (
	errNotUTF8     = errors.New("content is not valid utf-8")
	errNoSheets    = errors.New("workbook has no sheets")
	errUnsupported = errors.New("unsupported file extension")
)

var _ port.SourceReader = (*Reader)(nil)

// Reader loads csv/txt part-files in the dataset encoding and xlsx part-files
// from their first sheet, always returning UTF-8 CSV text.
type Reader struct {
	encoding string
}

func NewReader(encoding string) *Reader {
	if encoding == "" {
		encoding = config.EncodingUTF8
	}
	return &Reader{encoding: strings.ToLower(encoding)}
}

func (r *Reader) ReadText(ctx context.Context, file domain.SourceFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Path), ".")) {
	case "csv", "txt":
		text, err = r.readDelimited(file.Path)
	case "xlsx":
		text, err = readWorkbook(file.Path)
	default:
		err = errUnsupported
	}
	if err != nil {
		return "", &domain.LocalIOError{Path: file.Path, Err: err}
	}
	return text, nil
}

func (r *Reader) readDelimited(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var src io.Reader = f
	if r.encoding == config.EncodingGBK {
		src = transform.NewReader(f, simplifiedchinese.GBK.NewDecoder())
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if r.encoding != config.EncodingGBK && !utf8.Valid(raw) {
		return "", errNotUTF8
	}
	return string(raw), nil
}

func readWorkbook(path string) (string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return "", errNoSheets
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
