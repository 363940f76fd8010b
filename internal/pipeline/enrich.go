// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/record"
)

// FieldInteraction is the derived interaction rate of a video.
const FieldInteraction = "interaction_rate"

// engagementFields are summed into the interaction rate.
var engagementFields = []string{
	aggregate.FieldDanmaku,
	aggregate.FieldReply,
	aggregate.FieldFavorite,
	aggregate.FieldCoins,
	aggregate.FieldShares,
	aggregate.FieldLikes,
}

// EnrichVideos returns recs with derived fields added. Publish times given
// as Unix seconds or date strings become timestamps, so they sort and zoom
// chronologically. Videos with a view count gain an interaction rate:
// engagements per view, rounded to four places. Input records are not
// modified.
func EnrichVideos(recs []record.Record) []record.Record {
	out := make([]record.Record, len(recs))
	for i, r := range recs {
		e := r.Clone()

		if v, ok := r.Get(aggregate.FieldPubdate); ok {
			if _, isTime := v.TimeValue(); !isTime {
				if t, ok := aggregate.Published(r); ok {
					e[aggregate.FieldPubdate] = record.Time(t)
				}
			}
		}

		if views, ok := numField(r, aggregate.FieldViews); ok {
			var engaged float64
			for _, f := range engagementFields {
				n, _ := numField(r, f)
				engaged += n
			}
			rate := engaged / max(views, 1)
			e[FieldInteraction] = record.Number(math.Round(rate*1e4) / 1e4)
		}

		out[i] = e
	}
	return out
}
