// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/vidlens/vidlens/internal/record"
)

// Stats summarises a set of videos.
type Stats struct {
	Videos      int     `json:"total_videos"`
	TotalViews  float64 `json:"total_views"`
	AvgViews    float64 `json:"avg_views"`
	TotalLikes  float64 `json:"total_likes"`
	TotalCoins  float64 `json:"total_coins"`
	TotalShares float64 `json:"total_shares"`
	// AvgInteraction is the mean of (danmaku+reply+favorite+coin+share+like)
	// per view, with views clipped to at least 1.
	AvgInteraction float64 `json:"avg_interaction_rate"`
}

// Summarize computes Stats over videos.
func Summarize(videos *record.Dataset) Stats {
	var s Stats
	var interaction float64
	for _, r := range videos.Records() {
		s.Videos++
		views := num(r, FieldViews)
		s.TotalViews += views
		s.TotalLikes += num(r, FieldLikes)
		s.TotalCoins += num(r, FieldCoins)
		s.TotalShares += num(r, FieldShares)

		engaged := num(r, FieldDanmaku) + num(r, FieldReply) + num(r, FieldFavorite) +
			num(r, FieldCoins) + num(r, FieldShares) + num(r, FieldLikes)
		interaction += engaged / max(views, 1)
	}
	if s.Videos > 0 {
		s.AvgViews = s.TotalViews / float64(s.Videos)
		s.AvgInteraction = interaction / float64(s.Videos)
	}
	return s
}

// Video is the display form of one hot video.
type Video struct {
	ID     string  `json:"bvid,omitempty"`
	Title  string  `json:"title"`
	Author string  `json:"author,omitempty"`
	Views  float64 `json:"view"`
	Likes  float64 `json:"like"`
	Coins  float64 `json:"coin"`
	Shares float64 `json:"share"`
	URL    string  `json:"url,omitempty"`
}

// VideoURLPrefix is prepended to a video id to build its page URL.
const VideoURLPrefix = "https://www.bilibili.com/video/"

// HotVideos returns the limit most viewed videos, titles cut to titleRunes.
func HotVideos(videos *record.Dataset, limit, titleRunes int) []Video {
	recs := slices.Clone(videos.Records())
	slices.SortStableFunc(recs, func(a, b record.Record) int {
		return cmp.Compare(num(b, FieldViews), num(a, FieldViews))
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]Video, len(recs))
	for i, r := range recs {
		v := Video{
			Views:  num(r, FieldViews),
			Likes:  num(r, FieldLikes),
			Coins:  num(r, FieldCoins),
			Shares: num(r, FieldShares),
		}
		if t, ok := r.Get(FieldTitle); ok {
			v.Title = Truncate(t.String(), titleRunes)
		}
		if a, ok := r.Get(FieldAuthor); ok {
			v.Author = a.String()
		}
		if id, ok := r.Get(FieldID); ok && id.String() != "" {
			v.ID = id.String()
			v.URL = VideoURLPrefix + v.ID
		}
		out[i] = v
	}
	return out
}

// AuthorCount is the number of videos one author published.
type AuthorCount struct {
	Name   string `json:"name"`
	Videos int    `json:"video_count"`
}

// TopAuthor returns the author with the most videos, first seen on ties.
func TopAuthor(videos *record.Dataset) (AuthorCount, bool) {
	var best AuthorCount
	counts := make(map[string]int)
	var order []string
	for _, r := range videos.Records() {
		a, ok := r.Get(FieldAuthor)
		if !ok || a.String() == "" {
			continue
		}
		if counts[a.String()] == 0 {
			order = append(order, a.String())
		}
		counts[a.String()]++
	}
	for _, name := range order {
		if counts[name] > best.Videos {
			best = AuthorCount{Name: name, Videos: counts[name]}
		}
	}
	return best, best.Videos > 0
}

// PublishedBetween returns the videos published in [start, end).
func PublishedBetween(videos *record.Dataset, start, end time.Time) *record.Dataset {
	var out []record.Record
	for _, r := range videos.Records() {
		pub, ok := Published(r)
		if !ok {
			continue
		}
		if !pub.Before(start) && pub.Before(end) {
			out = append(out, r)
		}
	}
	return record.NewDataset(out)
}

// Trend is the direction of a series.
type Trend string

// Trend directions.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendThreshold is the relative change beyond which a series is rising or
// falling.
const TrendThreshold = 0.10

// Direction compares the mean of the most recent half of values to the mean
// of the earlier half. Fewer than two points is stable.
func Direction(values []float64) (Trend, float64) {
	if len(values) < 2 {
		return TrendStable, 0
	}
	mid := len(values) / 2
	earlier, recent := mean(values[:mid]), mean(values[mid:])
	if earlier == 0 {
		if recent > 0 {
			return TrendUp, 1
		}
		return TrendStable, 0
	}
	change := (recent - earlier) / earlier
	switch {
	case change > TrendThreshold:
		return TrendUp, change
	case change < -TrendThreshold:
		return TrendDown, change
	}
	return TrendStable, change
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Column returns the numeric values of field across data, missing as 0.
func Column(data *record.Dataset, field string) []float64 {
	out := make([]float64, data.Len())
	for i, r := range data.Records() {
		out[i] = num(r, field)
	}
	return out
}
