package source

import (
	"fmt"

	"github.com/lnget-cli/lnget/util"
	"github.com/samber/lo"
)

// SearchResult is one hit returned by a source search.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Info  string `json:"info,omitempty"`

	// Source that produced the result. Not persisted.
	Source string `json:"-"`
}

func (r *SearchResult) String() string {
	if r.Info == "" {
		return r.URL
	}
	return fmt.Sprintf("%s (%s)", r.URL, r.Info)
}

// Volume groups chapters.
type Volume struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func (v *Volume) String() string {
	if v.Title == "" {
		return fmt.Sprintf("Volume %d", v.ID)
	}
	return v.Title
}

// Chapter is one downloadable unit. IDs are unique within a novel.
type Chapter struct {
	ID     int    `json:"id"`
	Volume int    `json:"volume"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

func (c *Chapter) String() string {
	if c.Title == "" {
		return fmt.Sprintf("Chapter %d", c.ID)
	}
	return c.Title
}

// Novel is the metadata of a novel with its chapters in the source's native order.
type Novel struct {
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Author   string     `json:"author,omitempty"`
	Cover    string     `json:"cover,omitempty"`
	Synopsis string     `json:"synopsis,omitempty"`
	Volumes  []*Volume  `json:"volumes"`
	Chapters []*Chapter `json:"chapters"`
}

func (n *Novel) String() string {
	return n.Title
}

// Dirname is the directory name the novel is downloaded into.
func (n *Novel) Dirname() string {
	return util.SanitizeFilename(n.Title)
}

// Validate checks that chapter ids are unique and fills in volumes referenced
// by chapters but missing from the volume list.
func (n *Novel) Validate() error {
	seen := make(map[int]struct{}, len(n.Chapters))
	for _, c := range n.Chapters {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("novel %q: duplicate chapter id %d", n.Title, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	known := lo.SliceToMap(n.Volumes, func(v *Volume) (int, struct{}) { return v.ID, struct{}{} })
	for _, c := range n.Chapters {
		if _, ok := known[c.Volume]; !ok {
			n.Volumes = append(n.Volumes, &Volume{ID: c.Volume})
			known[c.Volume] = struct{}{}
		}
	}
	return nil
}

// VolumeOf returns the volume a chapter belongs to.
func (n *Novel) VolumeOf(c *Chapter) (*Volume, bool) {
	return lo.Find(n.Volumes, func(v *Volume) bool { return v.ID == c.Volume })
}
