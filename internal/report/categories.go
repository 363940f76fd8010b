package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vidlens/vidlens/internal/aggregate"
)

// DefaultTopCategories is the number of categories the top-categories
// section lists.
const DefaultTopCategories = 5

func init() {
	Register(func() Section { return &categoriesSection{} })
}

// categoriesSection ranks the period's categories by video count, then by
// average views.
type categoriesSection struct {
	top []aggregate.CategoryCount
}

func (s *categoriesSection) Name() string        { return "top-categories" }
func (s *categoriesSection) Description() string { return "Most active categories in the period" }

func (s *categoriesSection) Analyze(in *Input) error {
	s.top = aggregate.CountCategories(in.Videos)
	if len(s.top) == 0 {
		return fmt.Errorf("top-categories: %w", ErrNoData)
	}
	if len(s.top) > DefaultTopCategories {
		s.top = s.top[:DefaultTopCategories]
	}
	return nil
}

func (s *categoriesSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Top Categories"))
	_, _ = fmt.Fprintf(w, "--------------\n")

	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Category"},
		Column{Header: "Videos", Align: AlignRight},
		Column{Header: "Avg views", Align: AlignRight},
		Column{Header: "Total views", Align: AlignRight},
	)
	for i, c := range s.top {
		tbl.AddRow(strconv.Itoa(i+1), c.Name, strconv.Itoa(c.Videos), FormatCount(c.AvgViews()), FormatCount(c.TotalViews))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
