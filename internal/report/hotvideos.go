package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vidlens/vidlens/internal/aggregate"
)

// Hot video listing limits.
const (
	DefaultHotVideos = 10
	HotTitleRunes    = 50
)

func init() {
	Register(func() Section { return &hotVideosSection{} })
}

// hotVideosSection lists the most viewed videos of the period.
type hotVideosSection struct {
	videos []aggregate.Video
}

func (s *hotVideosSection) Name() string        { return "hot-videos" }
func (s *hotVideosSection) Description() string { return "Most viewed videos in the period" }

func (s *hotVideosSection) Analyze(in *Input) error {
	s.videos = aggregate.HotVideos(in.Videos, DefaultHotVideos, HotTitleRunes)
	if len(s.videos) == 0 {
		return fmt.Errorf("hot-videos: %w", ErrNoData)
	}
	return nil
}

func (s *hotVideosSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Hot Videos"))
	_, _ = fmt.Fprintf(w, "----------\n")

	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Title"},
		Column{Header: "Author"},
		Column{Header: "Views", Align: AlignRight},
		Column{Header: "Likes", Align: AlignRight},
		Column{Header: "Coins", Align: AlignRight},
		Column{Header: "URL"},
	)
	for i, v := range s.videos {
		tbl.AddRow(strconv.Itoa(i+1), v.Title, v.Author,
			FormatCount(v.Views), FormatCount(v.Likes), FormatCount(v.Coins), v.URL)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
