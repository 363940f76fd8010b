// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package record holds the immutable datasets a chart explores: ordered
// sequences of records whose fields are typed scalar values.
package record

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type carried by a Value.
type Kind int

// Kinds are declared in comparison rank: values of different kinds order
// null < number < time < string.
const (
	KindNull Kind = iota
	KindNumber
	KindTime
	KindString
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a scalar field value: a string, a number, a timestamp, or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	ts   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int returns a numeric value from an integer.
func Int(n int64) Value { return Value{kind: KindNumber, num: float64(n)} }

// Time returns a timestamp value, normalized to UTC.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t.UTC()} }

// Kind reports the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// TimeValue returns the timestamp payload and whether v is a timestamp.
func (v Value) TimeValue() (time.Time, bool) { return v.ts, v.kind == KindTime }

// Float returns v as a float64 for arithmetic. Timestamps convert to Unix
// seconds; strings and null convert to 0 with ok=false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindTime:
		return float64(v.ts.Unix()), true
	default:
		return 0, false
	}
}

// Equal reports exact equality: same kind and same payload. Strings are
// compared byte for byte, never by prefix or containment.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	case KindString:
		return v.str == o.str
	default:
		return true
	}
}

// Compare orders v against o, returning -1, 0 or +1. Numbers compare
// numerically, timestamps chronologically, strings lexically. Values of
// different kinds compare by kind rank, so null sorts lowest.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return cmp.Compare(v.kind, o.kind)
	}
	switch v.kind {
	case KindNumber:
		return cmp.Compare(v.num, o.num)
	case KindTime:
		return v.ts.Compare(o.ts)
	case KindString:
		return strings.Compare(v.str, o.str)
	default:
		return 0
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format(time.RFC3339)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Any returns the payload as a plain Go value (nil, float64, time.Time or
// string), for encoders that work on interface values.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindTime:
		return v.ts
	case KindString:
		return v.str
	default:
		return nil
	}
}

// Parse converts a spreadsheet cell or other untyped text into a Value:
// numbers become numeric, full timestamps become times (as they do when
// decoding JSON), the empty string is null, and everything else, date-only
// strings included, stays a string.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(n)
	}
	if t, ok := parseTimestamp(s); ok {
		return Time(t)
	}
	return String(s)
}

// ParseTime reads s as a timestamp, accepting date-only YYYY-MM-DD.
func ParseTime(s string) (time.Time, bool) {
	return parseTime(strings.TrimSpace(s))
}

// Coerce converts v to kind k when v's text reads as that kind, so operator
// input typed as text compares equal to the data it names: "007" stays a
// string against string data and becomes 7 against numeric data. Values that
// cannot be read as k, nulls, and a null k leave v unchanged.
func Coerce(v Value, k Kind) Value {
	if v.kind == k || v.kind == KindNull || k == KindNull {
		return v
	}
	switch k {
	case KindString:
		if v.kind == KindNumber {
			return String(v.String())
		}
		return v
	case KindNumber:
		if s, ok := v.Str(); ok {
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return Number(n)
			}
		}
		return v
	case KindTime:
		if s, ok := v.Str(); ok {
			if t, ok := ParseTime(s); ok {
				return Time(t)
			}
		}
		return v
	}
	return v
}

// timestampLayouts are the timestamp encodings accepted in JSON strings.
// Zone-less layouts are read as UTC.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	if t, ok := parseTimestamp(s); ok {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MarshalJSON encodes numbers as JSON numbers, timestamps as RFC 3339
// strings, strings as strings and null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindTime:
		return json.Marshal(v.ts.Format(time.RFC3339Nano))
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Strings holding RFC 3339 or ISO
// date-time timestamps decode as timestamps; booleans decode as 0/1 numbers. Arrays and objects
// are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, ok := parseTimestamp(s); ok {
			*v = Time(t)
			return nil
		}
		*v = String(s)
		return nil
	case 't':
		*v = Number(1)
		return nil
	case 'f':
		*v = Number(0)
		return nil
	case '[', '{':
		return fmt.Errorf("record: field value must be a scalar, got %s", data)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
		return nil
	}
}
