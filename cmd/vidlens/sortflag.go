package main

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/vidlens/vidlens/internal/explore"
)

// sortValue is a pflag.Value holding a "field[:asc|desc]" sort.
type sortValue struct {
	spec explore.SortSpec
}

var _ pflag.Value = (*sortValue)(nil)

func (s *sortValue) String() string { return s.spec.String() }

// Set parses v. The empty string clears the sort.
func (s *sortValue) Set(v string) error {
	if v == "" {
		s.spec = explore.SortSpec{}
		return nil
	}
	spec, err := explore.ParseSortSpec(v)
	if err != nil {
		return err
	}
	if spec.Field == "" {
		return errors.New("sort field is required")
	}
	s.spec = spec
	return nil
}

func (s *sortValue) Type() string { return "field[:asc|desc]" }
