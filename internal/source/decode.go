package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vidlens/vidlens/internal/record"
)

// maxLineSize bounds one JSONL line.
const maxLineSize = 1 << 20

// envelope is the paged backend response shape.
type envelope struct {
	Data       []json.RawMessage `json:"data"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Pagination describes one page of a paged backend response.
type Pagination struct {
	Current    int `json:"current"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DecodeJSON decodes a JSON array of video objects, or an object carrying
// the array under "data". Non-scalar fields are dropped.
func DecodeJSON(data []byte) (*record.Dataset, error) {
	recs, _, err := decodePayload(data)
	if err != nil {
		return nil, err
	}
	return record.NewDataset(recs), nil
}

// decodePayload decodes either accepted shape and returns the pagination
// block when the response had one.
func decodePayload(data []byte) ([]record.Record, *Pagination, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil, errors.New("empty payload")
	}

	var items []json.RawMessage
	var page *Pagination
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, fmt.Errorf("decode array: %w", err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.Data == nil {
			return nil, nil, errors.New(`object payload has no "data" array`)
		}
		items, page = env.Data, env.Pagination
	default:
		return nil, nil, fmt.Errorf("payload must be a JSON array or object, got %q", data[:1])
	}

	recs := make([]record.Record, 0, len(items))
	for i, raw := range items {
		rec, err := decodeObject(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, page, nil
}

// DecodeJSONL decodes one video object per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) (*record.Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var recs []record.Record
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		rec, err := decodeObject(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	return record.NewDataset(recs), nil
}

// decodeObject decodes one flat JSON object into a record.
func decodeObject(raw []byte) (record.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	rec := make(record.Record, len(fields))
	for name, val := range fields {
		var v record.Value
		if err := v.UnmarshalJSON(val); err != nil {
			slog.Debug("dropping non-scalar field", "field", name)
			continue
		}
		rec[name] = v
	}
	return rec, nil
}
