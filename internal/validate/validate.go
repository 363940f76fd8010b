// Package validate checks video dataset exports before they are explored.
// It accepts JSON lines or a JSON array (optionally wrapped in a {"data": [...]}
// object) and reports every problem with its record position and, where one
// exists, a suggested fix.
package validate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/testable"
)

// FS is the file system ValidateFile reads from.
var FS testable.FileSystem = testable.DefaultFS

// Export layouts.
const (
	FormatJSONL = "jsonl"
	FormatArray = "array"
)

// Schema describes the fields each record of an export must satisfy.
type Schema struct {
	// Required fields must be present and non-empty.
	Required []string
	// OneOf lists fields of which at least one must be present and non-empty.
	OneOf []string
	// Numeric fields must be JSON numbers when present.
	Numeric []string
	// NonNegative numeric fields must also be >= 0.
	NonNegative bool
	// Times fields must parse as a timestamp, a date or Unix seconds.
	Times []string
}

// VideoSchema is the shape of a raw video record as the crawler backend
// serves it.
var VideoSchema = Schema{
	OneOf: []string{aggregate.FieldID, aggregate.FieldTitle},
	Numeric: []string{
		aggregate.FieldViews, aggregate.FieldLikes, aggregate.FieldCoins,
		aggregate.FieldShares, aggregate.FieldFavorite, aggregate.FieldDanmaku,
		aggregate.FieldReply, aggregate.FieldDuration,
	},
	NonNegative: true,
	Times:       []string{aggregate.FieldPubdate},
}

// SchemaFor returns the schema an export must satisfy to feed chart cc.
// Charts over a derived dataset read raw videos; charts over the raw dataset
// read the export directly, so their x field is required and their y fields
// must be numeric.
func SchemaFor(cc config.ChartConfig) Schema {
	if cc.Dataset != "" && cc.Dataset != aggregate.DatasetRaw {
		return VideoSchema
	}
	var s Schema
	if cc.XField != "" {
		s.Required = []string{cc.XField}
	}
	s.Numeric = append(s.Numeric, cc.YFields...)
	return s
}

// fields returns every field name s mentions, sorted.
func (s Schema) fields() []string {
	seen := make(map[string]bool)
	for _, group := range [][]string{s.Required, s.OneOf, s.Numeric, s.Times} {
		for _, f := range group {
			seen[f] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ValidationError represents a single validation issue on a specific record.
type ValidationError struct {
	Line       int    // 1-based line (JSONL) or array position
	Field      string // field name (empty if record-level error)
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("record %d: %s", e.Line, e.Message)
}

// Result contains the outcome of validating an export.
type Result struct {
	Format       string
	TotalRecords int
	Errors       []ValidationError
	// Warnings do not make the export invalid.
	Warnings []ValidationError
}

// Valid returns true if no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// InvalidRecords returns how many distinct records have at least one error.
func (r *Result) InvalidRecords() int {
	seen := make(map[int]bool)
	for _, e := range r.Errors {
		if e.Line > 0 {
			seen[e.Line] = true
		}
	}
	return len(seen)
}

// ValidateFile validates the export at path. Only read failures are
// returned as errors.
func ValidateFile(path string, s Schema) (*Result, error) {
	f, err := FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Validate(f, s)
}

// Validate reads an export from r and checks every record against s.
func Validate(r io.Reader, s Schema) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if items, ok := arrayItems(data); ok {
		return validateArray(items, s), nil
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return &Result{Format: FormatArray, Errors: []ValidationError{{
			Line:       1,
			Message:    "invalid JSON array",
			Suggestion: "check for a trailing comma or an unterminated string",
		}}}, nil
	}
	return validateLines(data, s)
}

// arrayItems returns the elements of a JSON array or of the "data" array of
// a wrapping object.
func arrayItems(data []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false
		}
		return items, true
	case '{':
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil || len(wrapper.Data) == 0 {
			return nil, false
		}
		if err := json.Unmarshal(wrapper.Data, &items); err != nil {
			return nil, false
		}
		return items, true
	}
	return nil, false
}

func validateArray(items []json.RawMessage, s Schema) *Result {
	result := &Result{Format: FormatArray}
	for i, item := range items {
		result.TotalRecords++
		validateRecord(item, i+1, s, result)
	}
	return result
}

func validateLines(data []byte, s Schema) (*Result, error) {
	result := &Result{Format: FormatJSONL}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())

		// Skip empty lines.
		if len(line) == 0 {
			continue
		}

		result.TotalRecords++
		validateRecord(line, lineNum, s, result)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return result, nil
}

// validateRecord parses one JSON object and checks all fields.
func validateRecord(raw []byte, pos int, s Schema, result *Result) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Line:       pos,
			Message:    fmt.Sprintf("invalid JSON object: %v", err),
			Suggestion: "each record must be a flat JSON object",
		})
		return
	}

	add := func(field, msg, suggestion string) {
		result.Errors = append(result.Errors, ValidationError{
			Line: pos, Field: field, Message: msg, Suggestion: suggestion,
		})
	}

	for _, f := range s.Required {
		if !present(fields, f) {
			add(f, "required field is missing", missingSuggestion(fields, f))
		}
	}

	if len(s.OneOf) > 0 {
		found := false
		for _, f := range s.OneOf {
			if present(fields, f) {
				found = true
				break
			}
		}
		if !found {
			add(s.OneOf[0],
				fmt.Sprintf("record has none of %s", strings.Join(s.OneOf, ", ")),
				missingSuggestion(fields, s.OneOf...))
		}
	}

	for _, f := range s.Numeric {
		raw, ok := fields[f]
		if !ok || isNull(raw) {
			continue
		}
		checkNumber(f, raw, s.NonNegative, add)
	}

	for _, f := range s.Times {
		raw, ok := fields[f]
		if !ok || isNull(raw) {
			continue
		}
		var v record.Value
		if err := v.UnmarshalJSON(raw); err != nil {
			add(f, "must be a scalar timestamp", "use an RFC 3339 string or Unix seconds")
			continue
		}
		if _, ok := aggregate.Published(record.Record{aggregate.FieldPubdate: v}); !ok {
			add(f, fmt.Sprintf("cannot parse %s as a timestamp", string(raw)),
				"use an RFC 3339 string, a YYYY-MM-DD date or Unix seconds")
		}
	}

	checkUnknown(fields, s, pos, result)
}

func checkNumber(field string, raw json.RawMessage, nonNegative bool, add func(field, msg, suggestion string)) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if nonNegative && n < 0 {
			add(field, fmt.Sprintf("must not be negative, got %v", n), "")
		}
		return
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		cleaned := strings.ReplaceAll(strings.TrimSpace(str), ",", "")
		if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
			add(field, fmt.Sprintf("must be a number, got string %q", str),
				fmt.Sprintf("write it as the JSON number %s", cleaned))
			return
		}
		add(field, fmt.Sprintf("must be a number, got string %q", str), "")
		return
	}
	add(field, fmt.Sprintf("must be a number, got %s", string(raw)), "")
}

// checkUnknown warns about fields that look like misspellings of a schema
// field the record lacks.
func checkUnknown(fields map[string]json.RawMessage, s Schema, pos int, result *Result) {
	known := s.fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if containsString(known, name) {
			continue
		}
		match := closestMatch(name, known)
		if match == "" {
			continue
		}
		if _, ok := fields[match]; ok {
			continue
		}
		result.Warnings = append(result.Warnings, ValidationError{
			Line:       pos,
			Field:      name,
			Message:    "unknown field",
			Suggestion: fmt.Sprintf("did you mean %q?", match),
		})
	}
}

func present(fields map[string]json.RawMessage, f string) bool {
	raw, ok := fields[f]
	if !ok || isNull(raw) {
		return false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str) != ""
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// missingSuggestion points at a present field whose name is close to one of
// wanted.
func missingSuggestion(fields map[string]json.RawMessage, wanted ...string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, w := range wanted {
		if m := closestMatch(w, names); m != "" {
			return fmt.Sprintf("found %q; did you mean %q?", m, w)
		}
	}
	return fmt.Sprintf("add a %q field", wanted[0])
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// closestMatch returns the closest candidate if within edit distance 2.
func closestMatch(input string, candidates []string) string {
	best := ""
	bestDist := 3 // threshold: only suggest if distance <= 2
	lower := strings.ToLower(input)
	for _, c := range candidates {
		if c == input {
			continue
		}
		d := levenshtein(lower, strings.ToLower(c))
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
