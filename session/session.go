// Package session drives the setup of one download and keeps it for resuming.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/lnget-cli/lnget/search"
	"github.com/lnget-cli/lnget/source"
)

// Session is everything needed to download one novel.
// Only the exported, tagged fields are persisted.
type Session struct {
	ID      string    `json:"id" jsonschema:"description=Unique session id"`
	Input   string    `json:"input" jsonschema:"description=URL or query the session started from"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`

	SearchMode bool     `json:"search_mode"`
	Query      string   `json:"query,omitempty"`
	Candidates []string `json:"candidates,omitempty"`

	// NovelURL is the page the source was bound for.
	NovelURL string        `json:"novel_url"`
	SourceID string        `json:"source,omitempty"`
	Novel    *source.Novel `json:"novel,omitempty"`

	OutputPath   string            `json:"output_path"`
	Filename     string            `json:"filename,omitempty"`
	FilenameOnly bool              `json:"filename_only,omitempty"`
	Chapters     []*source.Chapter `json:"chapters"`
	Formats      []string          `json:"formats"`
	PackByVolume bool              `json:"pack_by_volume"`
	Overwrite    bool              `json:"overwrite"`

	// Downloaded holds ids of chapters already written.
	Downloaded []int `json:"downloaded,omitempty"`
	Completed  bool  `json:"completed"`

	Source source.Source   `json:"-"`
	Groups []*search.Group `json:"-"`
}

// New starts a session for the given input.
func New(input string) *Session {
	now := time.Now()
	return &Session{
		ID:      uuid.NewString(),
		Input:   input,
		Created: now,
		Updated: now,
	}
}

// Reset drops everything set up so far. Search results and input are kept.
func (s *Session) Reset() {
	if s.SearchMode {
		s.Source = nil
		s.SourceID = ""
		s.NovelURL = ""
	}
	s.Novel = nil
	s.OutputPath = ""
	s.Chapters = nil
	s.Formats = nil
	s.PackByVolume = false
	s.Overwrite = false
}

// Pending returns the selected chapters not downloaded yet.
func (s *Session) Pending() []*source.Chapter {
	done := make(map[int]struct{}, len(s.Downloaded))
	for _, id := range s.Downloaded {
		done[id] = struct{}{}
	}

	var pending []*source.Chapter
	for _, c := range s.Chapters {
		if _, ok := done[c.ID]; !ok {
			pending = append(pending, c)
		}
	}
	return pending
}

func (s *Session) String() string {
	if s.Novel != nil {
		return s.Novel.Title
	}
	return s.Input
}
