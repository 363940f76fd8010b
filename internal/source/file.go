package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/testable"
)

// FS is the file system exports are read from.
var FS testable.FileSystem = testable.DefaultFS

// Extensions accepted by FileSource.
var Extensions = []string{".json", ".jsonl", ".xlsx"}

// FileSource reads a local export: a JSON array (or {"data": [...]}
// object), JSON lines, or the first sheet of an XLSX workbook whose first
// row holds the field names.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.path }

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) (*record.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(s.path)
}

// ReadFile decodes the export at path, choosing the decoder by extension.
func ReadFile(path string) (*record.Dataset, error) {
	var (
		data *record.Dataset
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var raw []byte
		if raw, err = FS.ReadFile(path); err == nil {
			data, err = DecodeJSON(raw)
		}
	case ".jsonl":
		var raw []byte
		if raw, err = FS.ReadFile(path); err == nil {
			data, err = DecodeJSONL(bytes.NewReader(raw))
		}
	case ".xlsx":
		data, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%s: unsupported extension %q (want one of %s)", path, ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func readXLSX(path string) (*record.Dataset, error) {
	fh, err := FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	f, err := excelize.OpenReader(fh)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return RowsToDataset(rows)
}

// RowsToDataset turns a header row plus data rows of cell text into a
// dataset. Empty cells are omitted from their record; fully empty rows are
// skipped.
func RowsToDataset(rows [][]string) (*record.Dataset, error) {
	if len(rows) == 0 {
		return record.Empty(), nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
	}

	recs := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record.Record, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			if v := parseCell(cell); !v.IsNull() {
				rec[header[i]] = v
			}
		}
		if len(rec) > 0 {
			recs = append(recs, rec)
		}
	}
	return record.NewDataset(recs), nil
}

// sheetTimeLayouts are the date renderings spreadsheet cells come back in.
var sheetTimeLayouts = []string{"1/2/06 15:04", "1/2/06", "2006/1/2 15:04", "2006/1/2"}

func parseCell(cell string) record.Value {
	v := record.Parse(cell)
	if s, ok := v.Str(); ok {
		for _, layout := range sheetTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return record.Time(t)
			}
		}
	}
	return v
}
