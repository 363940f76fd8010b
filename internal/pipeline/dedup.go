// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/record"
)

// VideoKey computes the identity hash of a video: its bvid when present,
// otherwise title and author. It uses SHA-256 truncated to 8 hex characters.
func VideoKey(r record.Record) string {
	h := sha256.New()
	if id, ok := r.Get(aggregate.FieldID); ok && id.String() != "" {
		_, _ = fmt.Fprintf(h, "id\x00%s", id.String())
	} else {
		title, _ := r.Get(aggregate.FieldTitle)
		author, _ := r.Get(aggregate.FieldAuthor)
		// Null-byte separators keep "ab"+"c" distinct from "a"+"bc".
		_, _ = fmt.Fprintf(h, "ta\x00%s\x00%s", title.String(), author.String())
	}
	sum := h.Sum(nil)
	return fmt.Sprintf("%x", sum[:4])
}

// DeduplicateVideos removes repeated videos, as happens when the crawler
// collects a video in several runs. The first occurrence keeps its
// position. Each engagement counter takes the highest value seen across
// the duplicates, since counters only grow between crawls.
func DeduplicateVideos(recs []record.Record) []record.Record {
	if len(recs) == 0 {
		return recs
	}

	seen := make(map[string]int) // key -> index in result slice
	result := make([]record.Record, 0, len(recs))

	for _, r := range recs {
		key := VideoKey(r)
		idx, exists := seen[key]
		if !exists {
			seen[key] = len(result)
			result = append(result, r)
			continue
		}

		var merged record.Record
		for _, f := range countFields {
			n, ok := numField(r, f)
			if !ok {
				continue
			}
			if cur, ok := numField(result[idx], f); ok && cur >= n {
				continue
			}
			if merged == nil {
				merged = result[idx].Clone()
			}
			merged[f] = record.Number(n)
		}
		if merged != nil {
			result[idx] = merged
		}
	}

	return result
}

func numField(r record.Record, field string) (float64, bool) {
	v, ok := r.Get(field)
	if !ok {
		return 0, false
	}
	return v.Num()
}
