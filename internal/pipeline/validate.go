// Package pipeline prepares fetched videos for exploration. It validates,
// deduplicates and enriches the raw records, then derives every chart's
// dataset in parallel.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/record"
)

// ValidationError describes a single validation failure for a video record.
type ValidationError struct {
	// Field is the record field that failed validation.
	Field string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// countFields are the engagement counters a video may carry. Present
// counters must be non-negative numbers.
var countFields = []string{
	aggregate.FieldViews,
	aggregate.FieldLikes,
	aggregate.FieldCoins,
	aggregate.FieldShares,
	aggregate.FieldFavorite,
	aggregate.FieldDanmaku,
	aggregate.FieldReply,
}

// ValidateVideo checks a video record and returns all validation errors
// found. An empty slice means the record is valid.
func ValidateVideo(r record.Record) []ValidationError {
	var errs []ValidationError

	id, hasID := r.Get(aggregate.FieldID)
	title, hasTitle := r.Get(aggregate.FieldTitle)
	if (!hasID || strings.TrimSpace(id.String()) == "") && (!hasTitle || strings.TrimSpace(title.String()) == "") {
		errs = append(errs, ValidationError{
			Field:   aggregate.FieldID,
			Message: "record has neither an id nor a title",
		})
	}

	for _, f := range countFields {
		v, ok := r.Get(f)
		if !ok {
			continue
		}
		n, isNum := v.Num()
		switch {
		case !isNum:
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("must be a number, got %s %q", v.Kind(), v.String()),
			})
		case n < 0:
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("must not be negative, got %v", n),
			})
		}
	}

	if _, ok := r.Get(aggregate.FieldPubdate); ok {
		if _, ok := aggregate.Published(r); !ok {
			errs = append(errs, ValidationError{
				Field:   aggregate.FieldPubdate,
				Message: "must be a timestamp, a date or Unix seconds",
			})
		}
	}

	return errs
}
