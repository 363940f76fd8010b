// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package report

import (
	"regexp"

	"github.com/fatih/color"
)

// Shared color printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// ColorTrend colors trend direction labels.
func ColorTrend(val string) string {
	switch val {
	case "up":
		return colorGreen.Sprint(val)
	case "down":
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// ColorChange colors a signed percentage such as "+12.5%" or "-3.0%".
func ColorChange(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '+':
		return colorGreen.Sprint(val)
	case '-':
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// ColorLevel colors insight levels.
func ColorLevel(val string) string {
	switch val {
	case LevelWarn:
		return colorYellow.Sprint(val)
	case LevelGood:
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes terminal colour codes, for content stored or rendered
// outside a terminal.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
