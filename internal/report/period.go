// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"time"
)

// Kind is a report cadence.
type Kind string

// Report kinds.
const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// ParseKind accepts "daily" or "weekly"; the empty string is daily.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindDaily:
		return KindDaily, nil
	case KindWeekly:
		return KindWeekly, nil
	default:
		return "", fmt.Errorf("invalid report kind %q (must be daily or weekly)", s)
	}
}

const day = 24 * time.Hour

// Period is the half-open publish-time range [Start, End) a report covers.
type Period struct {
	Kind  Kind      `json:"kind"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodFor returns the period of the given kind starting on start's UTC
// calendar day: one day for daily reports, seven for weekly ones.
func PeriodFor(kind Kind, start time.Time) Period {
	start = start.UTC().Truncate(day)
	length := 1
	if kind == KindWeekly {
		length = 7
	}
	return Period{Kind: kind, Start: start, End: start.AddDate(0, 0, length)}
}

// DefaultPeriod returns the period a report generated at now covers by
// default: yesterday for daily reports, last Monday to Sunday for weekly.
func DefaultPeriod(kind Kind, now time.Time) Period {
	today := now.UTC().Truncate(day)
	if kind == KindWeekly {
		sinceMonday := (int(today.Weekday()) + 6) % 7
		return PeriodFor(kind, today.AddDate(0, 0, -(sinceMonday+7)))
	}
	return PeriodFor(KindDaily, today.AddDate(0, 0, -1))
}

// Days returns the number of calendar days in p.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start) / day)
}

// Previous returns the period of equal length ending where p starts.
func (p Period) Previous() Period {
	return Period{Kind: p.Kind, Start: p.Start.Add(-p.End.Sub(p.Start)), End: p.Start}
}

// Label renders p for titles: "2026-03-01" or "2026-02-23 to 2026-03-01".
func (p Period) Label() string {
	first := p.Start.Format(time.DateOnly)
	if p.Days() <= 1 {
		return first
	}
	return first + " to " + p.End.AddDate(0, 0, -1).Format(time.DateOnly)
}
