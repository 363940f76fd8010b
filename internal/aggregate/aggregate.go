// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package aggregate derives the dashboard chart datasets from raw video
// records as the crawler backend returns them.
package aggregate

import (
	"time"

	"github.com/vidlens/vidlens/internal/record"
)

// Raw video field names, as served by the crawler backend.
const (
	FieldID       = "bvid"
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldCategory = "tname"
	FieldViews    = "view"
	FieldLikes    = "like"
	FieldCoins    = "coin"
	FieldShares   = "share"
	FieldFavorite = "favorite"
	FieldDanmaku  = "danmaku"
	FieldReply    = "reply"
	FieldDuration = "duration"
	FieldPubdate  = "pubdate"
)

// Defaults used by the dashboard.
const (
	DefaultDays             = 30
	DefaultCategoryLimit    = 8
	DefaultPerformanceLimit = 20
	TitleRunes              = 20
	DefaultDurationSeconds  = 300
	OtherCategory           = "other"
)

// Palette holds the slice colours assigned to categories in rank order.
var Palette = []string{"#1890ff", "#52c41a", "#faad14", "#f5222d", "#722ed1", "#13c2c2", "#eb2f96", "#fa8c16"}

// RadarMetrics is the metric superset of the radar chart.
var RadarMetrics = []string{"views", "likes", "coins", "shares"}

// num returns the numeric field or 0.
func num(r record.Record, field string) float64 {
	v, ok := r.Get(field)
	if !ok {
		return 0
	}
	n, _ := v.Num()
	return n
}

// category returns the category of r, or OtherCategory when unset.
func category(r record.Record) string {
	if v, ok := r.Get(FieldCategory); ok && v.String() != "" {
		return v.String()
	}
	return OtherCategory
}

// Published returns the publish time of a video. Numeric values are read as
// Unix seconds.
func Published(r record.Record) (time.Time, bool) {
	v, ok := r.Get(FieldPubdate)
	if !ok {
		return time.Time{}, false
	}
	if t, ok := v.TimeValue(); ok {
		return t, true
	}
	if n, ok := v.Num(); ok && n > 0 {
		return time.Unix(int64(n), 0).UTC(), true
	}
	if s, ok := v.Str(); ok {
		if t, ok := record.ParseTime(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
