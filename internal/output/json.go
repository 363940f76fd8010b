// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps a view with metadata for the JSON output format.
type JSONEnvelope struct {
	View     explore.View `json:"view"`
	Metadata JSONMetadata `json:"metadata"`
}

// JSONMetadata describes the rendering that produced the envelope.
type JSONMetadata struct {
	VisibleCount int    `json:"visible_count"`
	TotalCount   int    `json:"total_count"`
	GeneratedAt  string `json:"generated_at"`
}

// JSONFormatter writes a view as a JSON object with metadata envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the view as a JSON document with a metadata envelope to w.
// Output is pretty-printed for terminals and in-memory writers, compact for
// pipes and files, and always compact when Compact is set.
func (f *JSONFormatter) Format(v explore.View, w io.Writer) error {
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	envelope := JSONEnvelope{
		View: v,
		Metadata: JSONMetadata{
			VisibleCount: len(v.Rows),
			TotalCount:   v.Total,
			GeneratedAt:  now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// shouldCompact determines whether to use compact mode.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		// Character devices are terminals.
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
