// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package assistant

import (
	"slices"
	"strings"

	"github.com/vidlens/vidlens/internal/aggregate"
)

// IntentType classifies a question.
type IntentType string

// Intent types, checked in this order.
const (
	IntentTrend          IntentType = "trend"
	IntentRecommendation IntentType = "recommendation"
	IntentDataQuery      IntentType = "data_query"
	IntentGeneral        IntentType = "general"
)

// Time ranges a question may mention.
const (
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeThisWeek  = "this_week"
	RangeLastWeek  = "last_week"
	RangeThisMonth = "this_month"
)

// Intent is the keyword analysis of a question.
type Intent struct {
	Type       IntentType `json:"type"`
	Categories []string   `json:"categories,omitempty"`
	TimeRange  string     `json:"time_range,omitempty"`
	Metrics    []string   `json:"metrics,omitempty"`
}

var intentKeywords = []struct {
	typ   IntentType
	words []string
}{
	{IntentTrend, []string{"trend", "change", "growth", "grow", "decline", "compare", "趋势", "变化", "增长", "下降", "对比"}},
	{IntentRecommendation, []string{"recommend", "suggest", "advice", "how to", "how can", "should i", "推荐", "建议", "怎么", "如何"}},
	{IntentDataQuery, []string{"how many", "how much", "count", "total", "statistics", "ranking", "top", "多少", "统计", "数据", "排行"}},
}

// timeKeywords maps phrases to ranges. Longer phrases come first so "last
// week" wins over "week".
var timeKeywords = []struct {
	word, rng string
}{
	{"yesterday", RangeYesterday},
	{"昨天", RangeYesterday},
	{"today", RangeToday},
	{"今天", RangeToday},
	{"今日", RangeToday},
	{"last week", RangeLastWeek},
	{"上周", RangeLastWeek},
	{"this week", RangeThisWeek},
	{"本周", RangeThisWeek},
	{"这周", RangeThisWeek},
	{"this month", RangeThisMonth},
	{"本月", RangeThisMonth},
	{"这个月", RangeThisMonth},
}

// metricKeywords maps words to raw video fields.
var metricKeywords = []struct {
	word, field string
}{
	{"view", aggregate.FieldViews},
	{"play", aggregate.FieldViews},
	{"播放", aggregate.FieldViews},
	{"观看", aggregate.FieldViews},
	{"like", aggregate.FieldLikes},
	{"点赞", aggregate.FieldLikes},
	{"coin", aggregate.FieldCoins},
	{"投币", aggregate.FieldCoins},
	{"share", aggregate.FieldShares},
	{"分享", aggregate.FieldShares},
	{"转发", aggregate.FieldShares},
	{"danmaku", aggregate.FieldDanmaku},
	{"弹幕", aggregate.FieldDanmaku},
	{"comment", aggregate.FieldReply},
	{"repl", aggregate.FieldReply},
	{"评论", aggregate.FieldReply},
	{"favorite", aggregate.FieldFavorite},
	{"收藏", aggregate.FieldFavorite},
}

// AnalyzeIntent classifies question by keyword. Categories are the known
// category names the question mentions, in the order given.
func AnalyzeIntent(question string, categories []string) Intent {
	q := strings.ToLower(question)
	in := Intent{Type: IntentGeneral}

	for _, k := range intentKeywords {
		if containsAny(q, k.words) {
			in.Type = k.typ
			break
		}
	}

	for _, c := range categories {
		if c != "" && strings.Contains(q, strings.ToLower(c)) && !slices.Contains(in.Categories, c) {
			in.Categories = append(in.Categories, c)
		}
	}

	for _, k := range timeKeywords {
		if strings.Contains(q, k.word) {
			in.TimeRange = k.rng
			break
		}
	}

	for _, k := range metricKeywords {
		if strings.Contains(q, k.word) && !slices.Contains(in.Metrics, k.field) {
			in.Metrics = append(in.Metrics, k.field)
		}
	}
	return in
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
