// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// TimeSeries returns one row per calendar day (UTC) for the days ending on
// now's date, oldest first. Each row carries the day's date, a 0-based day
// index, the number of videos published that day, their total views and
// likes, and their average duration in seconds. Videos without a duration
// count as DefaultDurationSeconds.
func TimeSeries(videos *record.Dataset, now time.Time, days int) *record.Dataset {
	if days <= 0 {
		days = DefaultDays
	}
	end := now.UTC().Truncate(24 * time.Hour)
	first := end.AddDate(0, 0, -(days - 1))

	type bucket struct {
		count                   int
		views, likes, durations float64
	}
	buckets := make([]bucket, days)
	for _, r := range videos.Records() {
		pub, ok := Published(r)
		if !ok {
			continue
		}
		day := pub.UTC().Truncate(24 * time.Hour)
		i := int(day.Sub(first) / (24 * time.Hour))
		if day.Before(first) || i >= days {
			continue
		}
		b := &buckets[i]
		b.count++
		b.views += num(r, FieldViews)
		b.likes += num(r, FieldLikes)
		d := num(r, FieldDuration)
		if d <= 0 {
			d = DefaultDurationSeconds
		}
		b.durations += d
	}

	rows := make([]record.Record, days)
	for i, b := range buckets {
		avg := 0.0
		if b.count > 0 {
			avg = b.durations / float64(b.count)
		}
		rows[i] = record.Record{
			"date":         record.Time(first.AddDate(0, 0, i)),
			"day":          record.Int(int64(i)),
			"videos":       record.Int(int64(b.count)),
			"total_views":  record.Number(b.views),
			"total_likes":  record.Number(b.likes),
			"avg_duration": record.Number(math.Round(avg)),
		}
	}
	return record.NewDataset(rows)
}

// CategoryCount is the number of videos and views in one category.
type CategoryCount struct {
	Name       string
	Videos     int
	TotalViews float64
}

// AvgViews returns the mean views per video.
func (c CategoryCount) AvgViews() float64 {
	if c.Videos == 0 {
		return 0
	}
	return c.TotalViews / float64(c.Videos)
}

// CountCategories tallies videos per category, ordered by video count then
// average views, both descending. Ties keep first-seen order.
func CountCategories(videos *record.Dataset) []CategoryCount {
	var out []CategoryCount
	index := make(map[string]int)
	for _, r := range videos.Records() {
		name := category(r)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryCount{Name: name})
		}
		out[i].Videos++
		out[i].TotalViews += num(r, FieldViews)
	}
	slices.SortStableFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Videos, a.Videos); c != 0 {
			return c
		}
		return cmp.Compare(b.AvgViews(), a.AvgViews())
	})
	return out
}

// Categories returns the top categories by video count as name/value rows,
// each with a palette fill colour.
func Categories(videos *record.Dataset, limit int) *record.Dataset {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}
	counts := CountCategories(videos)
	if len(counts) > limit {
		counts = counts[:limit]
	}
	rows := make([]record.Record, len(counts))
	for i, c := range counts {
		rows[i] = record.Record{
			"name":  record.String(c.Name),
			"value": record.Int(int64(c.Videos)),
			"views": record.Number(c.TotalViews),
			"fill":  record.String(Palette[i%len(Palette)]),
		}
	}
	return record.NewDataset(rows)
}

// Performance returns the first limit videos with shortened titles and their
// engagement counters.
func Performance(videos *record.Dataset, limit int) *record.Dataset {
	if limit <= 0 {
		limit = DefaultPerformanceLimit
	}
	recs := videos.Records()
	if len(recs) > limit {
		recs = recs[:limit]
	}
	rows := make([]record.Record, len(recs))
	for i, r := range recs {
		title := ""
		if v, ok := r.Get(FieldTitle); ok {
			title = Truncate(v.String(), TitleRunes)
		}
		rows[i] = record.Record{
			"title":    record.String(title),
			"views":    record.Number(num(r, FieldViews)),
			"likes":    record.Number(num(r, FieldLikes)),
			"coins":    record.Number(num(r, FieldCoins)),
			"shares":   record.Number(num(r, FieldShares)),
			"category": record.String(category(r)),
		}
	}
	return record.NewDataset(rows)
}

// Truncate shortens s to n runes followed by "..." when it is longer.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

var radarSource = map[string]string{
	"views":  FieldViews,
	"likes":  FieldLikes,
	"coins":  FieldCoins,
	"shares": FieldShares,
}

// Radar returns one row per category, up to DefaultCategoryLimit, with each
// metric summed over the category and scaled to 0-100 against the largest
// category. Unknown metric names are skipped.
func Radar(videos *record.Dataset, metrics []string) *record.Dataset {
	if len(metrics) == 0 {
		metrics = RadarMetrics
	}
	counts := CountCategories(videos)
	if len(counts) > DefaultCategoryLimit {
		counts = counts[:DefaultCategoryLimit]
	}
	sums := make(map[string]map[string]float64, len(counts))
	maxes := make(map[string]float64, len(metrics))
	for _, c := range counts {
		sums[c.Name] = make(map[string]float64, len(metrics))
	}
	for _, r := range videos.Records() {
		s, ok := sums[category(r)]
		if !ok {
			continue
		}
		for _, m := range metrics {
			if field, ok := radarSource[m]; ok {
				s[m] += num(r, field)
			}
		}
	}
	for _, s := range sums {
		for m, v := range s {
			maxes[m] = max(maxes[m], v)
		}
	}

	rows := make([]record.Record, len(counts))
	for i, c := range counts {
		row := record.Record{"subject": record.String(c.Name), "full_mark": record.Int(100)}
		for _, m := range metrics {
			if _, ok := radarSource[m]; !ok {
				continue
			}
			score := 0.0
			if maxes[m] > 0 {
				score = math.Round(sums[c.Name][m] / maxes[m] * 100)
			}
			row[m] = record.Number(score)
		}
		rows[i] = row
	}
	return record.NewDataset(rows)
}

// CategoryOptions derives filter options from the distinct values of field,
// most frequent first, with OtherCategory moved last.
func CategoryOptions(data *record.Dataset, field string) []explore.Option {
	type tally struct {
		v record.Value
		n int
	}
	var tallies []tally
	for _, v := range data.Distinct(field) {
		tallies = append(tallies, tally{v: v})
	}
	for _, r := range data.Records() {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		for i := range tallies {
			if tallies[i].v.Equal(v) {
				tallies[i].n++
				break
			}
		}
	}
	slices.SortStableFunc(tallies, func(a, b tally) int {
		aOther, bOther := a.v.String() == OtherCategory, b.v.String() == OtherCategory
		switch {
		case aOther && !bOther:
			return 1
		case bOther && !aOther:
			return -1
		}
		return cmp.Compare(b.n, a.n)
	})
	out := make([]explore.Option, len(tallies))
	for i, t := range tallies {
		out[i] = explore.Option{Value: t.v, Label: t.v.String()}
	}
	return out
}
